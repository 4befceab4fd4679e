package domain

import "time"

// KYC document categories. Each category maps to one URL field on the user.
const (
	DocAadharCard = "aadhar_card"
	DocPanCard    = "pan_card"
	DocSelfie     = "selfie"
)

// ValidDocCategory reports whether c is an accepted upload category.
func ValidDocCategory(c string) bool {
	return c == DocAadharCard || c == DocPanCard || c == DocSelfie
}

// Document records one uploaded KYC file. The object lives in S3 under
// ObjectKey; URL is the stored object URL (presigned on read for privacy).
type Document struct {
	DocumentID  string    `json:"id" dynamodbav:"document_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Category    string    `json:"category" dynamodbav:"category"`
	ObjectKey   string    `json:"-" dynamodbav:"object_key"`
	URL         string    `json:"url" dynamodbav:"url"`
	Size        int64     `json:"size" dynamodbav:"size"`
	ContentType string    `json:"content_type" dynamodbav:"content_type"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}
