// Package domain defines the two-phase payment contract against the external
// processor. The provider's responses are the sole source of truth for
// payment state; nothing here infers PAID from local data.
package domain

import (
	"context"
	"errors"
	"time"
)

// Provider is the external payment processor collaborator.
type Provider interface {
	// Configured reports whether the provider has credentials. Operations
	// must not be attempted against an unconfigured provider.
	Configured() bool
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
}

type InitializeRequest struct {
	Email       string
	AmountMinor int64
	Reference   string
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type VerifyResponse struct {
	Success     bool
	Status      string
	Reference   string
	AmountMinor int64
	PayerEmail  string
	PaidAt      *time.Time
}

var (
	ErrGatewayUnconfigured  = errors.New("gateway_unconfigured")
	ErrGatewayRequestFailed = errors.New("gateway_request_failed")
	ErrInvalidEmail         = errors.New("invalid_payment_email")
	ErrInvalidReference     = errors.New("invalid_reference")
	ErrInvalidAmount        = errors.New("invalid_amount")
)
