// Package domain contains the client (tenant) entity and its contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ProductType string

const (
	ProductHiring ProductType = "HIRING"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

type PaymentStatus string

const (
	PaymentNone    PaymentStatus = "NONE"
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Client represents one tenant of the platform. The slug is the public
// human-readable identifier and is never reassigned after creation.
type Client struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Slug         string       `gorm:"type:text;not null;uniqueIndex:ux_clients_slug" json:"slug"`
	CompanyName  string       `gorm:"type:text;not null" json:"company_name"`
	ReplyToEmail string       `gorm:"type:text" json:"reply_to_email,omitempty"`
	LogoURL      string       `gorm:"type:text" json:"logo_url,omitempty"`
	ProductType  ProductType  `gorm:"type:text;not null" json:"product_type"`
	Status       Status       `gorm:"type:text;not null;index" json:"status"`

	// Workspace integration linkage. Empty until the integration collaborator
	// hands us a connection; this core only stores what it is given.
	WorkspaceID          string            `gorm:"type:text" json:"workspace_id,omitempty"`
	BotID                string            `gorm:"type:text" json:"bot_id,omitempty"`
	AccessTokenEnc       string            `gorm:"type:text" json:"-"`
	TokenMeta            datatypes.JSONMap `gorm:"type:jsonb" json:"token_meta,omitempty"`
	CandidatesResourceID string            `gorm:"type:text" json:"candidates_resource_id,omitempty"`
	RolesResourceID      string            `gorm:"type:text" json:"roles_resource_id,omitempty"`
	StagesResourceID     string            `gorm:"type:text" json:"stages_resource_id,omitempty"`

	// EmailsSentMonth is only meaningful while EmailsSentMonthKey matches the
	// current calendar month; a stale key means the counter reads as zero.
	EmailEnabled       bool   `gorm:"not null" json:"email_enabled"`
	MonthlyEmailQuota  int    `gorm:"not null" json:"monthly_email_quota"`
	EmailsSentMonth    int    `gorm:"not null;default:0" json:"emails_sent_month"`
	EmailsSentMonthKey string `gorm:"type:text" json:"emails_sent_month_key,omitempty"`

	PaymentStatus    PaymentStatus `gorm:"type:text;not null" json:"payment_status"`
	PaymentReference string        `gorm:"type:text" json:"payment_reference,omitempty"`
	PaymentEmail     string        `gorm:"type:text" json:"payment_email,omitempty"`
	PaymentAmount    int64         `gorm:"not null;default:0" json:"payment_amount"`

	WebhookSecret string `gorm:"type:text;not null" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }
