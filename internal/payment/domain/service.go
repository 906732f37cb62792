package domain

import (
	"context"
	"time"
)

type InitiateRequest struct {
	Slug        string
	Email       string
	AmountMinor int64 // 0 means the configured default
	CallbackURL string
}

type InitiateResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	AmountMinor      int64  `json:"amount_minor"`
}

type VerifyResult struct {
	Paid        bool       `json:"paid"`
	Status      string     `json:"status"`
	Reference   string     `json:"reference"`
	AmountMinor int64      `json:"amount_minor"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// Service drives the initialize/verify flow and owns the client's payment
// state transitions: NONE -> PENDING on a successful initialize, anything ->
// PAID on a provider-confirmed verify. PAID never reverts.
type Service interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	Verify(ctx context.Context, slug, reference string) (*VerifyResult, error)
}
