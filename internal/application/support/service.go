package support

import (
	"context"
	"fmt"
	"time"

	"github.com/growloan-api/internal/domain"
	"github.com/growloan-api/internal/pkg/id"
)

type Service interface {
	CreateTicket(ctx context.Context, userID string, req domain.CreateTicketRequest) (*domain.SupportTicket, error)
	MyTickets(ctx context.Context, userID string) ([]domain.SupportTicket, error)
	AllTickets(ctx context.Context) ([]domain.SupportTicket, error)
	UpdateTicket(ctx context.Context, ticketID string, req domain.UpdateTicketRequest) (*domain.SupportTicket, error)

	RequestCallback(ctx context.Context, userID, phone string, req domain.CreateCallbackRequest) (*domain.CallbackRequest, error)
	MyCallbacks(ctx context.Context, userID string) ([]domain.CallbackRequest, error)
	AllCallbacks(ctx context.Context) ([]domain.CallbackRequest, error)
	UpdateCallback(ctx context.Context, callbackID string, req domain.UpdateCallbackRequest) (*domain.CallbackRequest, error)
}

type ticketStore interface {
	Put(ctx context.Context, t *domain.SupportTicket) error
	Get(ctx context.Context, ticketID string) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SupportTicket, error)
	Scan(ctx context.Context) ([]domain.SupportTicket, error)
	Update(ctx context.Context, ticketID string, updates map[string]interface{}) error
}

type callbackStore interface {
	Put(ctx context.Context, c *domain.CallbackRequest) error
	Get(ctx context.Context, callbackID string) (*domain.CallbackRequest, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CallbackRequest, error)
	Scan(ctx context.Context) ([]domain.CallbackRequest, error)
	Update(ctx context.Context, callbackID string, updates map[string]interface{}) error
}

type service struct {
	tickets   ticketStore
	callbacks callbackStore
}

func NewService(tickets ticketStore, callbacks callbackStore) Service {
	return &service{tickets: tickets, callbacks: callbacks}
}

func (s *service) CreateTicket(ctx context.Context, userID string, req domain.CreateTicketRequest) (*domain.SupportTicket, error) {
	now := time.Now().UTC()
	t := &domain.SupportTicket{
		TicketID:  id.New(),
		UserID:    userID,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    domain.TicketOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tickets.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) MyTickets(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

func (s *service) AllTickets(ctx context.Context) ([]domain.SupportTicket, error) {
	return s.tickets.Scan(ctx)
}

// UpdateTicket applies admin edits. A reply on an open ticket implicitly
// moves it to in_progress unless the admin set a status explicitly.
func (s *service) UpdateTicket(ctx context.Context, ticketID string, req domain.UpdateTicketRequest) (*domain.SupportTicket, error) {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("ticket not found: %w", domain.ErrNotFound)
	}

	updates := map[string]interface{}{}
	if req.Reply != nil {
		updates["reply"] = *req.Reply
		if req.Status == nil && t.Status == domain.TicketOpen {
			updates["status"] = domain.TicketInProgress
		}
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}

	if err := s.tickets.Update(ctx, ticketID, updates); err != nil {
		return nil, err
	}
	return s.tickets.Get(ctx, ticketID)
}

func (s *service) RequestCallback(ctx context.Context, userID, phone string, req domain.CreateCallbackRequest) (*domain.CallbackRequest, error) {
	now := time.Now().UTC()
	c := &domain.CallbackRequest{
		CallbackID:    id.New(),
		UserID:        userID,
		Phone:         phone,
		PreferredTime: req.PreferredTime,
		Reason:        req.Reason,
		Status:        domain.CallbackPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.callbacks.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) MyCallbacks(ctx context.Context, userID string) ([]domain.CallbackRequest, error) {
	return s.callbacks.ListByUser(ctx, userID)
}

func (s *service) AllCallbacks(ctx context.Context) ([]domain.CallbackRequest, error) {
	return s.callbacks.Scan(ctx)
}

func (s *service) UpdateCallback(ctx context.Context, callbackID string, req domain.UpdateCallbackRequest) (*domain.CallbackRequest, error) {
	if _, err := s.callbacks.Get(ctx, callbackID); err != nil {
		return nil, fmt.Errorf("callback request not found: %w", domain.ErrNotFound)
	}
	if req.Status == nil {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.callbacks.Update(ctx, callbackID, map[string]interface{}{"status": *req.Status}); err != nil {
		return nil, err
	}
	return s.callbacks.Get(ctx, callbackID)
}
