package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrAlreadyProcessed marks an idempotent replay of an admin action
	// (e.g. approving a payment twice). Handlers surface it as a success
	// with an explicit "already processed" message, never as a failure.
	ErrAlreadyProcessed = errors.New("already processed")
)
