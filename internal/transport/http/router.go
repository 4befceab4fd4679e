package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	adminapp "github.com/growloan-api/internal/application/admin"
	"github.com/growloan-api/internal/application/auth"
	"github.com/growloan-api/internal/application/document"
	loanapp "github.com/growloan-api/internal/application/loan"
	"github.com/growloan-api/internal/application/support"
	"github.com/growloan-api/internal/application/user"
	"github.com/growloan-api/internal/config"
	"github.com/growloan-api/internal/domain"
	"github.com/growloan-api/internal/transport/http/handler"
	appmiddleware "github.com/growloan-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second with a burst of 10, applied to the login endpoints
	// so a single IP cannot brute-force OTPs or admin passwords.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authDeps := auth.ServiceDeps{
		OTPRepo:   deps.OTPRepo,
		UserRepo:  deps.UserRepo,
		SMSSender: deps.SMSSender,
		OTPExpiry: cfg.OTPExpiry,
	}
	if deps.JWTProvider != nil {
		authDeps.JWT = deps.JWTProvider
	}
	authSvc := auth.NewService(authDeps)
	userSvc := user.NewService(deps.UserRepo)
	docSvc := document.NewService(deps.DocumentRepo, deps.UserRepo, deps.S3Store)
	loanSvc := loanapp.NewService(loanapp.ServiceDeps{
		Loans:      deps.LoanRepo,
		Users:      deps.UserRepo,
		Configs:    deps.ConfigRepo,
		Cache:      deps.Cache,
		Mailer:     deps.Mailer,
		AdminEmail: cfg.AdminEmail,
	})
	adminSvc := adminapp.NewService(deps.LoanRepo, deps.UserRepo, deps.ConfigRepo, deps.Cache)
	supportSvc := support.NewService(deps.TicketRepo, deps.CallbackRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	docH := handler.NewDocumentHandler(docSvc)
	loanH := handler.NewLoanHandler(loanSvc)
	adminH := handler.NewAdminHandler(adminSvc, docSvc)
	supportH := handler.NewSupportHandler(supportSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/otp/send", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/otp/verify", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/auth/admin/login", authH.AdminLogin)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/me", userH.Me)
			r.Put("/users/me", userH.UpdateProfile)
			r.Get("/users/me/completeness", userH.Completeness)

			r.Get("/documents", docH.List)
			r.Post("/documents/{category}", docH.Upload)
			r.Post("/documents/{category}/base64", docH.UploadBase64)

			// Pricing display for payment screens (authed, not admin-only).
			r.Get("/config/payment", adminH.GetConfig)

			r.Post("/loans/apply", loanH.Apply)
			r.Get("/loans", loanH.List)
			r.Get("/loans/{id}", loanH.Get)
			r.Post("/loans/{id}/validate", loanH.SubmitForValidation)
			r.Get("/loans/{id}/tenures", loanH.TenureOptions)
			r.Post("/loans/{id}/select-tenure", loanH.SelectTenure)
			r.Get("/loans/{id}/sanction-letter", loanH.SanctionLetter)
			r.Post("/loans/{id}/sanction-letter", loanH.SanctionLetter)
			r.Post("/loans/{id}/sign", loanH.Sign)
			r.Get("/loans/{id}/payment", loanH.PaymentDetails)
			r.Post("/loans/{id}/payment", loanH.SubmitPayment)
			r.Post("/loans/{id}/cancel", loanH.Cancel)

			r.Post("/support/tickets", supportH.CreateTicket)
			r.Get("/support/tickets", supportH.MyTickets)
			r.Post("/support/callbacks", supportH.RequestCallback)
			r.Get("/support/callbacks", supportH.MyCallbacks)

			// Admin-only routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/config", adminH.GetConfig)
				r.Put("/config", adminH.UpdateConfig)
				r.Get("/stats", adminH.Stats)

				r.Get("/users", userH.List)
				r.Get("/users/{id}", userH.Get)
				r.Delete("/users/{id}", userH.Delete)
				r.Get("/users/{id}/documents", adminH.UserDocuments)

				r.Get("/loans", adminH.ListLoans)
				r.Get("/loans/export", adminH.ExportLoans)
				r.Get("/loans/{id}", adminH.GetLoan)
				r.Post("/loans/{id}/approve", adminH.ApproveLoan)
				r.Post("/loans/{id}/reject", adminH.RejectLoan)
				// Payment validation is keyed by loan id: one upfront
				// deposit per loan.
				r.Post("/payments/{id}/approve", adminH.ApprovePayment)
				r.Post("/payments/{id}/reject", adminH.RejectPayment)

				r.Get("/support/tickets", supportH.AllTickets)
				r.Put("/support/tickets/{id}", supportH.UpdateTicket)
				r.Get("/support/callbacks", supportH.AllCallbacks)
				r.Put("/support/callbacks/{id}", supportH.UpdateCallback)
			})
		})
	})

	return r
}
