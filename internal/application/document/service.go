package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/growloan-api/internal/domain"
	"github.com/growloan-api/internal/pkg/id"
)

// How long presigned KYC document links stay valid. Long enough for an
// admin review session, short enough that leaked links go stale fast.
const presignTTL = 15 * time.Minute

const maxUploadBytes = 10 << 20 // 10 MiB

type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)
	List(ctx context.Context, userID string) ([]domain.Document, error)
}

// UploadRequest carries one KYC file. Exactly one of Body or Base64Data
// must be set.
type UploadRequest struct {
	UserID     string
	Category   string
	Filename   string
	Body       io.Reader
	Size       int64
	Base64Data string
}

type docStore interface {
	Put(ctx context.Context, d *domain.Document) error
	ListByUser(ctx context.Context, userID string) ([]domain.Document, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	docs    docStore
	users   userStore
	objects objectStore
}

func NewService(docs docStore, users userStore, objects objectStore) Service {
	return &service{docs: docs, users: users, objects: objects}
}

// categoryURLField maps an upload category to the user attribute that
// mirrors the latest document of that category.
var categoryURLField = map[string]string{
	domain.DocAadharCard: "aadhar_card_url",
	domain.DocPanCard:    "pan_card_url",
	domain.DocSelfie:     "selfie_url",
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (*domain.Document, error) {
	if !domain.ValidDocCategory(req.Category) {
		return nil, fmt.Errorf("unknown document category %q: %w", req.Category, domain.ErrBadRequest)
	}
	if req.Size > maxUploadBytes {
		return nil, fmt.Errorf("file exceeds 10MB limit: %w", domain.ErrBadRequest)
	}
	ext := strings.ToLower(path.Ext(req.Filename))
	switch req.Category {
	case domain.DocSelfie:
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			return nil, fmt.Errorf("selfie must be a jpg or png image: %w", domain.ErrBadRequest)
		}
	default:
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".pdf" {
			return nil, fmt.Errorf("document must be an image or pdf: %w", domain.ErrBadRequest)
		}
	}

	if _, err := s.users.Get(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}

	docID := id.New()
	key := fmt.Sprintf("kyc/%s/%s/%s%s", req.UserID, req.Category, docID, ext)

	var (
		url string
		err error
	)
	switch {
	case req.Body != nil:
		url, err = s.objects.Upload(ctx, key, io.LimitReader(req.Body, maxUploadBytes), contentTypeFor(ext))
	case req.Base64Data != "":
		url, err = s.objects.UploadBase64(ctx, key, req.Base64Data)
	default:
		return nil, fmt.Errorf("no file data provided: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		DocumentID:  docID,
		UserID:      req.UserID,
		Category:    req.Category,
		ObjectKey:   key,
		URL:         url,
		Size:        req.Size,
		ContentType: contentTypeFor(ext),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.docs.Put(ctx, doc); err != nil {
		return nil, err
	}

	// Re-uploading a category replaces the pointer on the profile; the old
	// object stays in S3 for audit.
	if err := s.users.Update(ctx, req.UserID, map[string]interface{}{
		categoryURLField[req.Category]: url,
	}); err != nil {
		slog.Warn("failed to mirror document URL on profile", "user_id", req.UserID, "category", req.Category, "err", err)
	}
	return doc, nil
}

// List returns the user's documents with presigned GET links in place of
// raw object URLs.
func (s *service) List(ctx context.Context, userID string) ([]domain.Document, error) {
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		signed, err := s.objects.PresignedURL(ctx, docs[i].ObjectKey, presignTTL)
		if err != nil {
			slog.Warn("presign failed", "document_id", docs[i].DocumentID, "err", err)
			continue
		}
		docs[i].URL = signed
	}
	return docs, nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
