// Package domain defines the monthly outbound-email allowance contract.
package domain

import (
	"context"
	"errors"
)

type Reason string

const (
	ReasonOK            Reason = "OK"
	ReasonDisabled      Reason = "EMAIL_DISABLED"
	ReasonQuotaExceeded Reason = "QUOTA_EXCEEDED"
)

type Allowance struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
}

// Service gates outbound notifications against the per-client monthly cap.
// CanSend and RecordSend are separate calls; RecordSend is itself an atomic
// conditional increment bounded by the quota, so the counter can never pass
// the ceiling even when callers race.
type Service interface {
	CanSend(ctx context.Context, clientID string) (Allowance, error)
	RecordSend(ctx context.Context, clientID string) error
}

var (
	ErrEmailDisabled = errors.New("email_disabled")
	ErrQuotaExceeded = errors.New("quota_exceeded")
)
