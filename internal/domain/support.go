package domain

import "time"

// Support ticket statuses.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Callback request statuses.
const (
	CallbackPending   = "pending"
	CallbackScheduled = "scheduled"
	CallbackCompleted = "completed"
	CallbackCancelled = "cancelled"
)

type SupportTicket struct {
	TicketID  string    `json:"id" dynamodbav:"ticket_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Subject   string    `json:"subject" dynamodbav:"subject"`
	Message   string    `json:"message" dynamodbav:"message"`
	Status    string    `json:"status" dynamodbav:"status"`
	Reply     string    `json:"reply,omitempty" dynamodbav:"reply"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CallbackRequest struct {
	CallbackID    string    `json:"id" dynamodbav:"callback_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	Phone         string    `json:"phone" dynamodbav:"phone"`
	PreferredTime string    `json:"preferred_time" dynamodbav:"preferred_time"`
	Reason        string    `json:"reason" dynamodbav:"reason"`
	Status        string    `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateTicketRequest struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type UpdateTicketRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Reply  *string `json:"reply"`
}

type CreateCallbackRequest struct {
	PreferredTime string `json:"preferred_time" validate:"required"`
	Reason        string `json:"reason"`
}

type UpdateCallbackRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending scheduled completed cancelled"`
}
