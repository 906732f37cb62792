package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/staffsort/staffsort/internal/client/domain"
	"github.com/staffsort/staffsort/internal/client/repository"
	"github.com/staffsort/staffsort/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, domain.Repository) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Client{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	repo := repository.NewRepository(conn)
	svc := New(Params{
		Cfg:   config.Config{DefaultMonthlyEmailQuota: 3},
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})
	return svc, repo
}

func TestCreateAccountDefaults(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	client, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{
		CompanyName:  "Acme! Salon",
		ReplyToEmail: "jobs@acme.test",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if client.Slug != "acme-salon" {
		t.Fatalf("slug = %q, want acme-salon", client.Slug)
	}
	if client.Status != domain.StatusActive {
		t.Fatalf("status = %q, want ACTIVE", client.Status)
	}
	if client.ProductType != domain.ProductHiring {
		t.Fatalf("product type = %q, want HIRING", client.ProductType)
	}
	if client.PaymentStatus != domain.PaymentNone {
		t.Fatalf("payment status = %q, want NONE", client.PaymentStatus)
	}
	if client.EmailsSentMonth != 0 {
		t.Fatalf("emails sent = %d, want 0", client.EmailsSentMonth)
	}
	if client.MonthlyEmailQuota != 3 {
		t.Fatalf("quota = %d, want 3", client.MonthlyEmailQuota)
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(client.WebhookSecret) {
		t.Fatalf("webhook secret %q is not 32 random bytes hex", client.WebhookSecret)
	}
}

func TestCreateAccountSlugSuffix(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	first, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Acme! Salon"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Acme Salon"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	third, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "acme salon"})
	if err != nil {
		t.Fatalf("create third: %v", err)
	}

	if first.Slug != "acme-salon" || second.Slug != "acme-salon-2" || third.Slug != "acme-salon-3" {
		t.Fatalf("slugs = %q, %q, %q", first.Slug, second.Slug, third.Slug)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "A"}); err != domain.ErrInvalidCompanyName {
		t.Fatalf("short name: err = %v, want %v", err, domain.ErrInvalidCompanyName)
	}
	if _, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{
		CompanyName:  "Acme",
		ReplyToEmail: "not-an-email",
	}); err != domain.ErrInvalidEmail {
		t.Fatalf("bad email: err = %v, want %v", err, domain.ErrInvalidEmail)
	}
}

// racingRepo simulates two onboardings observing the same free slug: the
// existence check lies, so the unique index catches the collision on insert.
type racingRepo struct {
	domain.Repository
}

func (r *racingRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return false, nil
}

func TestCreateAccountSlugRaceSurfacesConflict(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Acme Salon"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	raced := New(Params{
		Cfg:   config.Config{DefaultMonthlyEmailQuota: 3},
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  &racingRepo{Repository: repo},
	})

	_, err = raced.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Acme Salon"})
	if err != domain.ErrSlugConflict {
		t.Fatalf("err = %v, want %v", err, domain.ErrSlugConflict)
	}
}

func TestFindBySlug(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Northwind"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(ctx, created.Slug, domain.StatusSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	got, err := svc.GetBySlug(ctx, created.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.Status != domain.StatusSuspended {
		t.Fatalf("status = %q, want SUSPENDED", got.Status)
	}

	if _, err := svc.FindActiveBySlug(ctx, created.Slug); err != domain.ErrNotFound {
		t.Fatalf("active lookup of suspended client: err = %v, want %v", err, domain.ErrNotFound)
	}
	if _, err := svc.GetBySlug(ctx, "no-such-slug"); err != domain.ErrNotFound {
		t.Fatalf("missing slug: err = %v, want %v", err, domain.ErrNotFound)
	}
}

func TestUpdateSettingsPartial(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{
		CompanyName:  "Northwind",
		ReplyToEmail: "talent@northwind.test",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	logo := "https://cdn.northwind.test/logo.png"
	quota := 50
	updated, err := svc.UpdateSettings(ctx, created.Slug, domain.UpdateSettingsRequest{
		LogoURL:           &logo,
		MonthlyEmailQuota: &quota,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if updated.LogoURL != logo {
		t.Fatalf("logo = %q", updated.LogoURL)
	}
	if updated.MonthlyEmailQuota != 50 {
		t.Fatalf("quota = %d, want 50", updated.MonthlyEmailQuota)
	}
	// Untouched fields survive.
	if updated.ReplyToEmail != "talent@northwind.test" {
		t.Fatalf("reply-to changed: %q", updated.ReplyToEmail)
	}
	if updated.Slug != created.Slug {
		t.Fatalf("slug changed: %q", updated.Slug)
	}

	bad := 0
	if _, err := svc.UpdateSettings(ctx, created.Slug, domain.UpdateSettingsRequest{MonthlyEmailQuota: &bad}); err != domain.ErrInvalidQuota {
		t.Fatalf("zero quota: err = %v, want %v", err, domain.ErrInvalidQuota)
	}
}

func TestSetStatusValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Northwind"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(ctx, created.Slug, domain.Status("DELETED")); err != domain.ErrInvalidStatus {
		t.Fatalf("err = %v, want %v", err, domain.ErrInvalidStatus)
	}
	if _, err := svc.SetStatus(ctx, "no-such-slug", domain.StatusSuspended); err != domain.ErrNotFound {
		t.Fatalf("err = %v, want %v", err, domain.ErrNotFound)
	}
}

func TestRecordIntegration(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Northwind"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	connected, err := svc.RecordIntegrationConnection(ctx, created.ID.String(), domain.IntegrationConnection{
		WorkspaceID:    "ws-1",
		BotID:          "bot-1",
		AccessTokenEnc: "enc:token",
		TokenMeta:      map[string]any{"workspace_name": "Northwind HQ"},
	})
	if err != nil {
		t.Fatalf("record connection: %v", err)
	}
	if connected.WorkspaceID != "ws-1" || connected.BotID != "bot-1" {
		t.Fatalf("connection not stored: %+v", connected)
	}

	selected, err := svc.RecordResourceSelection(ctx, created.ID.String(), domain.ResourceSelection{
		CandidatesID: "db-c",
		RolesID:      "db-r",
		StagesID:     "db-s",
	})
	if err != nil {
		t.Fatalf("record selection: %v", err)
	}
	if selected.CandidatesResourceID != "db-c" || selected.RolesResourceID != "db-r" || selected.StagesResourceID != "db-s" {
		t.Fatalf("selection not stored: %+v", selected)
	}

	if _, err := svc.RecordResourceSelection(ctx, "not-a-snowflake", domain.ResourceSelection{}); err != domain.ErrInvalidID {
		t.Fatalf("err = %v, want %v", err, domain.ErrInvalidID)
	}
}

func TestRotateWebhookSecret(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: "Northwind"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rotated, err := svc.RotateWebhookSecret(ctx, created.Slug)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.WebhookSecret == created.WebhookSecret {
		t.Fatal("secret did not change")
	}

	// The stored secret is the new one; the old one is gone.
	got, err := svc.GetBySlug(ctx, created.Slug)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.WebhookSecret != rotated.WebhookSecret {
		t.Fatalf("stored secret %q != rotated %q", got.WebhookSecret, rotated.WebhookSecret)
	}

	if _, err := svc.RotateWebhookSecret(ctx, "no-such-slug"); err != domain.ErrNotFound {
		t.Fatalf("err = %v, want %v", err, domain.ErrNotFound)
	}
}

func TestListClients(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha Hiring", "Beta Hiring", "Gamma Hiring"} {
		if _, err := svc.CreateAccount(ctx, domain.CreateAccountRequest{CompanyName: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
}
