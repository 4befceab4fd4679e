package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/growloan-api/internal/config"
	"github.com/growloan-api/internal/domain"
	"github.com/growloan-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/growloan-api/internal/infrastructure/jwt"
	rediscache "github.com/growloan-api/internal/infrastructure/redis"
	s3infra "github.com/growloan-api/internal/infrastructure/s3"
	"github.com/growloan-api/internal/infrastructure/smtp"
	"github.com/growloan-api/internal/infrastructure/sns"
	"github.com/growloan-api/internal/jobs"
	transporthttp "github.com/growloan-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	configRepo := dynamo.NewAdminConfigRepo(dynamoClient, cfg.DynamoTables.AdminConfig)
	seedAdminConfig(configRepo)

	// JWT provider is optional; auth endpoints degrade if keys are missing.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender is optional.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Redis cache is optional, a nil cache is a no-op.
	var cache *rediscache.Cache
	if c, err := rediscache.New(context.Background(), cfg); err == nil {
		cache = c
	} else {
		log.Printf("WARN: Redis cache not available: %v", err)
	}

	loanRepo := dynamo.NewLoanRepo(dynamoClient, cfg.DynamoTables.Loans)

	deps := &transporthttp.Deps{
		UserRepo:     dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		LoanRepo:     loanRepo,
		OTPRepo:      dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs),
		ConfigRepo:   configRepo,
		DocumentRepo: dynamo.NewDocumentRepo(dynamoClient, cfg.DynamoTables.Documents),
		TicketRepo:   dynamo.NewTicketRepo(dynamoClient, cfg.DynamoTables.SupportTickets),
		CallbackRepo: dynamo.NewCallbackRepo(dynamoClient, cfg.DynamoTables.CallbackRequests),
		S3Store:      s3Store,
		Mailer:       mailer,
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
		Cache:        cache,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Disbursement sweep: completes processing loans whose window elapsed.
	disburser := jobs.NewDisburser(loanRepo, configRepo, cache)
	if err := disburser.Start(cfg.DisbursementCron); err != nil {
		log.Fatalf("invalid disbursement cron spec %q: %v", cfg.DisbursementCron, err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	disburser.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// seedAdminConfig writes the default pricing record on first boot; later
// boots leave admin edits untouched.
func seedAdminConfig(repo *dynamo.AdminConfigRepo) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := repo.Get(ctx); err == nil {
		return
	}
	if err := repo.Put(ctx, domain.DefaultAdminConfig()); err != nil {
		log.Printf("WARN: could not seed admin config: %v", err)
	}
}
