package domain

// OTP is a one-time login code keyed by phone number (no user record may
// exist yet at send time). ExpiresAt is a Unix timestamp used as the
// DynamoDB TTL attribute; Attempts counts failed verifications.
type OTP struct {
	Phone     string `json:"phone" dynamodbav:"phone"`
	Code      string `json:"-" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	IsUsed    bool   `json:"is_used" dynamodbav:"is_used"`
}

// MaxOTPAttempts is the number of failed verifications after which the
// code is invalidated and a fresh one must be requested.
const MaxOTPAttempts = 5

type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
	Name  string `json:"name"` // optional display name, used on first login
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
