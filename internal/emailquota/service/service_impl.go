package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/staffsort/staffsort/internal/client/domain"
	"github.com/staffsort/staffsort/internal/clock"
	"github.com/staffsort/staffsort/internal/emailquota/domain"
	"github.com/staffsort/staffsort/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Repo    clientdomain.Repository
	Metrics *telemetry.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	repo    clientdomain.Repository
	metrics *telemetry.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("emailquota.service"),
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) CanSend(ctx context.Context, clientID string) (domain.Allowance, error) {
	id, err := parseID(clientID)
	if err != nil {
		return domain.Allowance{}, err
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Allowance{}, err
	}
	if client == nil {
		return domain.Allowance{}, clientdomain.ErrNotFound
	}

	if !client.EmailEnabled {
		return domain.Allowance{Allowed: false, Reason: domain.ReasonDisabled}, nil
	}

	key := monthKey(s.clock.Now())
	count := client.EmailsSentMonth
	if client.EmailsSentMonthKey != key {
		// Calendar rollover: the stored counter belongs to a past month.
		// Reset it before evaluating the cap; this is a write, not a read.
		if err := s.repo.ResetEmailMonth(ctx, id, key); err != nil {
			return domain.Allowance{}, err
		}
		s.log.Info("email counter rolled over",
			zap.String("client_id", clientID),
			zap.String("month_key", key),
		)
		count = 0
	}

	if count >= client.MonthlyEmailQuota {
		return domain.Allowance{Allowed: false, Reason: domain.ReasonQuotaExceeded}, nil
	}
	return domain.Allowance{Allowed: true, Reason: domain.ReasonOK}, nil
}

func (s *Service) RecordSend(ctx context.Context, clientID string) error {
	id, err := parseID(clientID)
	if err != nil {
		return err
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return clientdomain.ErrNotFound
	}
	if !client.EmailEnabled {
		s.metrics.ObserveEmailSend("disabled")
		return domain.ErrEmailDisabled
	}

	key := monthKey(s.clock.Now())
	if client.EmailsSentMonthKey != key {
		if err := s.repo.ResetEmailMonth(ctx, id, key); err != nil {
			return err
		}
	}

	incremented, err := s.repo.IncrementEmailsSent(ctx, id, key)
	if err != nil {
		return err
	}
	if !incremented {
		s.metrics.ObserveEmailSend("quota_exceeded")
		return domain.ErrQuotaExceeded
	}
	s.metrics.ObserveEmailSend("sent")
	return nil
}

// monthKey renders the quota period as "YYYY-MM" in UTC.
func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, clientdomain.ErrInvalidID
	}
	return id, nil
}
