package domain

import (
	"context"
	"errors"
)

type CreateAccountRequest struct {
	CompanyName  string
	ReplyToEmail string
	ProductType  ProductType
}

// UpdateSettingsRequest carries a partial update; nil fields are left untouched.
type UpdateSettingsRequest struct {
	CompanyName       *string
	ReplyToEmail      *string
	LogoURL           *string
	EmailEnabled      *bool
	MonthlyEmailQuota *int
}

type IntegrationConnection struct {
	WorkspaceID    string
	BotID          string
	AccessTokenEnc string
	TokenMeta      map[string]any
}

type ResourceSelection struct {
	CandidatesID string
	RolesID      string
	StagesID     string
}

type RotateSecretResponse struct {
	Slug          string `json:"slug"`
	WebhookSecret string `json:"webhook_secret"`
}

// ClientSummary is the admin listing projection.
type ClientSummary struct {
	ID                   string        `json:"id"`
	CompanyName          string        `json:"company_name"`
	Slug                 string        `json:"slug"`
	ProductType          ProductType   `json:"product_type"`
	Status               Status        `json:"status"`
	WorkspaceID          string        `json:"workspace_id,omitempty"`
	CandidatesResourceID string        `json:"candidates_resource_id,omitempty"`
	RolesResourceID      string        `json:"roles_resource_id,omitempty"`
	StagesResourceID     string        `json:"stages_resource_id,omitempty"`
	EmailEnabled         bool          `json:"email_enabled"`
	MonthlyEmailQuota    int           `json:"monthly_email_quota"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	PaymentReference     string        `json:"payment_reference,omitempty"`
}

type Service interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (Client, error)
	GetBySlug(ctx context.Context, slug string) (Client, error)
	FindActiveBySlug(ctx context.Context, slug string) (Client, error)
	List(ctx context.Context) ([]ClientSummary, error)
	UpdateSettings(ctx context.Context, slug string, req UpdateSettingsRequest) (Client, error)
	SetStatus(ctx context.Context, slug string, status Status) (Client, error)
	RecordIntegrationConnection(ctx context.Context, id string, conn IntegrationConnection) (Client, error)
	RecordResourceSelection(ctx context.Context, id string, sel ResourceSelection) (Client, error)
	RotateWebhookSecret(ctx context.Context, slug string) (RotateSecretResponse, error)
}

var (
	ErrNotFound           = errors.New("not_found")
	ErrSlugConflict       = errors.New("slug_conflict")
	ErrInvalidCompanyName = errors.New("invalid_company_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidQuota       = errors.New("invalid_quota")
	ErrInvalidID          = errors.New("invalid_id")
)
