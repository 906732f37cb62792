package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	clientdomain "github.com/staffsort/staffsort/internal/client/domain"
	"github.com/staffsort/staffsort/internal/clock"
	"github.com/staffsort/staffsort/internal/config"
	"github.com/staffsort/staffsort/internal/payment/domain"
	"github.com/staffsort/staffsort/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     clientdomain.Repository
	Provider domain.Provider
	Metrics  *telemetry.Metrics `optional:"true"`
}

type Service struct {
	log           *zap.Logger
	clock         clock.Clock
	repo          clientdomain.Repository
	provider      domain.Provider
	metrics       *telemetry.Metrics
	defaultAmount int64
	currency      string
	callbackURL   string
}

func New(p Params) domain.Service {
	return &Service{
		log:           p.Log.Named("payment.service"),
		clock:         p.Clock,
		repo:          p.Repo,
		provider:      p.Provider,
		metrics:       p.Metrics,
		defaultAmount: p.Cfg.Paystack.DefaultAmountMinor,
		currency:      p.Cfg.Paystack.Currency,
		callbackURL:   p.Cfg.Paystack.CallbackURL,
	}
}

func (s *Service) Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.InitiateResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if req.AmountMinor < 0 {
		return nil, domain.ErrInvalidAmount
	}

	client, err := s.repo.FindActiveBySlug(ctx, strings.TrimSpace(req.Slug))
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, clientdomain.ErrNotFound
	}

	if !s.provider.Configured() {
		return nil, domain.ErrGatewayUnconfigured
	}

	amount := req.AmountMinor
	if amount == 0 {
		amount = s.defaultAmount
	}

	callbackURL := strings.TrimSpace(req.CallbackURL)
	if callbackURL == "" {
		callbackURL = s.callbackURL
	}

	reference := s.newReference(client.Slug)

	result, err := s.provider.Initialize(ctx, domain.InitializeRequest{
		Email:       email,
		AmountMinor: amount,
		Reference:   reference,
		Currency:    s.currency,
		CallbackURL: callbackURL,
		Metadata: map[string]string{
			"client_slug":  client.Slug,
			"product_type": string(client.ProductType),
		},
	})
	if err != nil {
		// Provider failure leaves the client record untouched.
		s.log.Warn("payment initialize failed",
			zap.String("slug", client.Slug),
			zap.String("reference", reference),
			zap.Error(err),
		)
		s.metrics.ObservePaymentEvent("initialize", "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayRequestFailed, err)
	}

	if _, err := s.repo.UpdateByID(ctx, client.ID, map[string]any{
		"payment_reference": reference,
		"payment_status":    clientdomain.PaymentPending,
	}); err != nil {
		return nil, err
	}

	s.metrics.ObservePaymentEvent("initialize", "pending")
	s.log.Info("payment initiated",
		zap.String("slug", client.Slug),
		zap.String("reference", reference),
		zap.Int64("amount_minor", amount),
	)

	return &domain.InitiateResponse{
		Reference:        result.Reference,
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		AmountMinor:      amount,
	}, nil
}

func (s *Service) Verify(ctx context.Context, slug, reference string) (*domain.VerifyResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.ErrInvalidReference
	}

	client, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, clientdomain.ErrNotFound
	}

	if !s.provider.Configured() {
		return nil, domain.ErrGatewayUnconfigured
	}

	result, err := s.provider.Verify(ctx, reference)
	if err != nil {
		s.metrics.ObservePaymentEvent("verify", "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayRequestFailed, err)
	}
	s.metrics.ObservePaymentEvent("verify", result.Status)

	if result.Success {
		// Re-applying PAID for an already verified reference is deliberate:
		// an operator may re-verify at any time, and the outcome must be the
		// same terminal state either way.
		if _, err := s.repo.UpdateByID(ctx, client.ID, map[string]any{
			"payment_status":    clientdomain.PaymentPaid,
			"payment_reference": result.Reference,
			"payment_email":     result.PayerEmail,
			"payment_amount":    result.AmountMinor,
		}); err != nil {
			return nil, err
		}
		s.log.Info("payment verified",
			zap.String("slug", client.Slug),
			zap.String("reference", result.Reference),
			zap.Int64("amount_minor", result.AmountMinor),
		)
	}

	return &domain.VerifyResult{
		Paid:        result.Success,
		Status:      result.Status,
		Reference:   result.Reference,
		AmountMinor: result.AmountMinor,
		PaidAt:      result.PaidAt,
	}, nil
}

// newReference builds a reference unique per call. The slug and millisecond
// timestamp keep it readable; the random suffix keeps concurrent initiations
// within the same instant from colliding.
func (s *Service) newReference(slug string) string {
	entropy := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("ss_%s_%d_%s", slug, s.clock.Now().UnixMilli(), entropy)
}
