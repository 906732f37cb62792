package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/staffsort/staffsort/internal/client/domain"
	"github.com/staffsort/staffsort/internal/config"
	"github.com/staffsort/staffsort/pkg/db"
	"github.com/staffsort/staffsort/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Metrics *telemetry.Metrics `optional:"true"`
}

type Service struct {
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	metrics      *telemetry.Metrics
	defaultQuota int
}

func New(p Params) domain.Service {
	return &Service{
		log:          p.Log.Named("client.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		metrics:      p.Metrics,
		defaultQuota: p.Cfg.DefaultMonthlyEmailQuota,
	}
}

func (s *Service) CreateAccount(ctx context.Context, req domain.CreateAccountRequest) (domain.Client, error) {
	companyName := strings.TrimSpace(req.CompanyName)
	if len(companyName) < 2 {
		return domain.Client{}, domain.ErrInvalidCompanyName
	}

	replyTo := strings.TrimSpace(req.ReplyToEmail)
	if replyTo != "" && !strings.Contains(replyTo, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}

	productType := req.ProductType
	if productType == "" {
		productType = domain.ProductHiring
	}

	allocated, err := s.allocateSlug(ctx, companyName)
	if err != nil {
		return domain.Client{}, err
	}

	secret, err := newWebhookSecret()
	if err != nil {
		return domain.Client{}, err
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:                s.genID.Generate(),
		Slug:              allocated,
		CompanyName:       companyName,
		ReplyToEmail:      replyTo,
		ProductType:       productType,
		Status:            domain.StatusActive,
		TokenMeta:         datatypes.JSONMap{},
		EmailEnabled:      true,
		MonthlyEmailQuota: s.defaultQuota,
		PaymentStatus:     domain.PaymentNone,
		WebhookSecret:     secret,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, &client); err != nil {
		// The existence check and the insert are two separate store
		// operations; a concurrent onboarding of the same name can win the
		// slug in between. Surface that as a retryable conflict.
		if db.IsDuplicateKeyErr(err) {
			s.log.Warn("slug allocation raced", zap.String("slug", allocated))
			s.metrics.ObserveSlugConflict()
			return domain.Client{}, domain.ErrSlugConflict
		}
		return domain.Client{}, err
	}

	s.metrics.ObserveAccountCreated(string(client.ProductType))
	s.log.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("slug", client.Slug),
	)
	return client, nil
}

func (s *Service) allocateSlug(ctx context.Context, companyName string) (string, error) {
	base := slugify(companyName)

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = suffixSlug(base, i)
	}
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (domain.Client, error) {
	return s.findBySlug(ctx, slug, false)
}

func (s *Service) FindActiveBySlug(ctx context.Context, slug string) (domain.Client, error) {
	return s.findBySlug(ctx, slug, true)
}

func (s *Service) findBySlug(ctx context.Context, slug string, requireActive bool) (domain.Client, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Client{}, domain.ErrNotFound
	}

	var (
		client *domain.Client
		err    error
	)
	if requireActive {
		client, err = s.repo.FindActiveBySlug(ctx, slug)
	} else {
		client, err = s.repo.FindBySlug(ctx, slug)
	}
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *client, nil
}

func (s *Service) List(ctx context.Context) ([]domain.ClientSummary, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ClientSummary, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, domain.ClientSummary{
			ID:                   c.ID.String(),
			CompanyName:          c.CompanyName,
			Slug:                 c.Slug,
			ProductType:          c.ProductType,
			Status:               c.Status,
			WorkspaceID:          c.WorkspaceID,
			CandidatesResourceID: c.CandidatesResourceID,
			RolesResourceID:      c.RolesResourceID,
			StagesResourceID:     c.StagesResourceID,
			EmailEnabled:         c.EmailEnabled,
			MonthlyEmailQuota:    c.MonthlyEmailQuota,
			PaymentStatus:        c.PaymentStatus,
			PaymentReference:     c.PaymentReference,
		})
	}
	return summaries, nil
}

func (s *Service) UpdateSettings(ctx context.Context, slug string, req domain.UpdateSettingsRequest) (domain.Client, error) {
	fields := map[string]any{}
	if req.CompanyName != nil {
		name := strings.TrimSpace(*req.CompanyName)
		if len(name) < 2 {
			return domain.Client{}, domain.ErrInvalidCompanyName
		}
		fields["company_name"] = name
	}
	if req.ReplyToEmail != nil {
		email := strings.TrimSpace(*req.ReplyToEmail)
		if email != "" && !strings.Contains(email, "@") {
			return domain.Client{}, domain.ErrInvalidEmail
		}
		fields["reply_to_email"] = email
	}
	if req.LogoURL != nil {
		fields["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}
	if req.EmailEnabled != nil {
		fields["email_enabled"] = *req.EmailEnabled
	}
	if req.MonthlyEmailQuota != nil {
		if *req.MonthlyEmailQuota <= 0 {
			return domain.Client{}, domain.ErrInvalidQuota
		}
		fields["monthly_email_quota"] = *req.MonthlyEmailQuota
	}

	return s.applyBySlug(ctx, slug, fields)
}

func (s *Service) SetStatus(ctx context.Context, slug string, status domain.Status) (domain.Client, error) {
	switch status {
	case domain.StatusActive, domain.StatusSuspended:
	default:
		return domain.Client{}, domain.ErrInvalidStatus
	}

	return s.applyBySlug(ctx, slug, map[string]any{"status": status})
}

func (s *Service) RecordIntegrationConnection(ctx context.Context, id string, conn domain.IntegrationConnection) (domain.Client, error) {
	fields := map[string]any{
		"workspace_id":     strings.TrimSpace(conn.WorkspaceID),
		"bot_id":           strings.TrimSpace(conn.BotID),
		"access_token_enc": conn.AccessTokenEnc,
	}
	if conn.TokenMeta != nil {
		fields["token_meta"] = datatypes.JSONMap(conn.TokenMeta)
	}
	return s.applyByID(ctx, id, fields)
}

func (s *Service) RecordResourceSelection(ctx context.Context, id string, sel domain.ResourceSelection) (domain.Client, error) {
	return s.applyByID(ctx, id, map[string]any{
		"candidates_resource_id": strings.TrimSpace(sel.CandidatesID),
		"roles_resource_id":      strings.TrimSpace(sel.RolesID),
		"stages_resource_id":     strings.TrimSpace(sel.StagesID),
	})
}

func (s *Service) RotateWebhookSecret(ctx context.Context, slug string) (domain.RotateSecretResponse, error) {
	secret, err := newWebhookSecret()
	if err != nil {
		return domain.RotateSecretResponse{}, err
	}

	// Single column update: the old secret stops validating the moment the
	// new one is stored, with no grace window.
	updated, err := s.repo.UpdateBySlug(ctx, slug, map[string]any{"webhook_secret": secret})
	if err != nil {
		return domain.RotateSecretResponse{}, err
	}
	if !updated {
		return domain.RotateSecretResponse{}, domain.ErrNotFound
	}

	s.log.Info("webhook secret rotated", zap.String("slug", slug))
	return domain.RotateSecretResponse{Slug: slug, WebhookSecret: secret}, nil
}

func (s *Service) applyBySlug(ctx context.Context, slug string, fields map[string]any) (domain.Client, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Client{}, domain.ErrNotFound
	}

	updated, err := s.repo.UpdateBySlug(ctx, slug, fields)
	if err != nil {
		return domain.Client{}, err
	}
	if !updated && len(fields) > 0 {
		return domain.Client{}, domain.ErrNotFound
	}
	return s.findBySlug(ctx, slug, false)
}

func (s *Service) applyByID(ctx context.Context, raw string, fields map[string]any) (domain.Client, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return domain.Client{}, domain.ErrInvalidID
	}

	updated, err := s.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		return domain.Client{}, err
	}
	if !updated {
		return domain.Client{}, domain.ErrNotFound
	}

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *client, nil
}

func newWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
