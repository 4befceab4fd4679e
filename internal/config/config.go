package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	AdminEmail   string // alerted on payment submissions

	SNSRegion string

	RedisAddr     string // empty disables the cache
	RedisPassword string
	RedisDB       int

	OTPExpiry        time.Duration
	DisbursementCron string // cron spec for the processing->completed sweep

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users            string
	Loans            string
	OTPs             string
	AdminConfig      string
	Documents        string
	SupportTickets   string
	CallbackRequests string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "ap-south-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:            getEnv("DYNAMO_TABLE_USERS", "users"),
			Loans:            getEnv("DYNAMO_TABLE_LOANS", "loans"),
			OTPs:             getEnv("DYNAMO_TABLE_OTPS", "otps"),
			AdminConfig:      getEnv("DYNAMO_TABLE_ADMIN_CONFIG", "admin_config"),
			Documents:        getEnv("DYNAMO_TABLE_DOCUMENTS", "documents"),
			SupportTickets:   getEnv("DYNAMO_TABLE_SUPPORT_TICKETS", "support_tickets"),
			CallbackRequests: getEnv("DYNAMO_TABLE_CALLBACK_REQUESTS", "callback_requests"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "growloan-documents"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@growloan.in"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		AdminEmail:   getEnv("ADMIN_EMAIL", "admin@growloan.in"),

		SNSRegion: getEnv("SNS_REGION", "ap-south-1"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTPExpiry:        time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 5)) * time.Minute,
		DisbursementCron: getEnv("DISBURSEMENT_CRON", "@hourly"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
