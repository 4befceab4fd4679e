package http

import (
	"github.com/growloan-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/growloan-api/internal/infrastructure/jwt"
	rediscache "github.com/growloan-api/internal/infrastructure/redis"
	s3infra "github.com/growloan-api/internal/infrastructure/s3"
	"github.com/growloan-api/internal/infrastructure/smtp"
	"github.com/growloan-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. JWTProvider,
// SMSSender, Mailer and Cache may be nil; the affected features degrade
// instead of blocking startup.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	LoanRepo     *dynamo.LoanRepo
	OTPRepo      *dynamo.OTPRepo
	ConfigRepo   *dynamo.AdminConfigRepo
	DocumentRepo *dynamo.DocumentRepo
	TicketRepo   *dynamo.TicketRepo
	CallbackRepo *dynamo.CallbackRepo
	S3Store      *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
	Cache        *rediscache.Cache
}
