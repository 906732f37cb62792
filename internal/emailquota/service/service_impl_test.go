package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/staffsort/staffsort/internal/client/domain"
	"github.com/staffsort/staffsort/internal/client/repository"
	"github.com/staffsort/staffsort/internal/clock"
	"github.com/staffsort/staffsort/internal/emailquota/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupQuota(t *testing.T, quota int, enabled bool) (domain.Service, clientdomain.Repository, *clock.FakeClock, snowflake.ID) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&clientdomain.Client{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	repo := repository.NewRepository(conn)
	fake := clock.NewFakeClock(time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC))

	client := clientdomain.Client{
		ID:                node.Generate(),
		Slug:              "acme-salon",
		CompanyName:       "Acme Salon",
		ProductType:       clientdomain.ProductHiring,
		Status:            clientdomain.StatusActive,
		EmailEnabled:      enabled,
		MonthlyEmailQuota: quota,
		PaymentStatus:     clientdomain.PaymentNone,
		WebhookSecret:     "secret",
		CreatedAt:         fake.Now(),
		UpdatedAt:         fake.Now(),
	}
	if err := repo.Insert(context.Background(), &client); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	svc := New(Params{
		Log:   zap.NewNop(),
		Clock: fake,
		Repo:  repo,
	})
	return svc, repo, fake, client.ID
}

func TestCanSendHonorsQuota(t *testing.T) {
	svc, _, _, id := setupQuota(t, 3, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowance, err := svc.CanSend(ctx, id.String())
		if err != nil {
			t.Fatalf("can send %d: %v", i, err)
		}
		if !allowance.Allowed || allowance.Reason != domain.ReasonOK {
			t.Fatalf("send %d: allowance = %+v", i, allowance)
		}
		if err := svc.RecordSend(ctx, id.String()); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	allowance, err := svc.CanSend(ctx, id.String())
	if err != nil {
		t.Fatalf("can send after cap: %v", err)
	}
	if allowance.Allowed || allowance.Reason != domain.ReasonQuotaExceeded {
		t.Fatalf("allowance = %+v, want quota exceeded", allowance)
	}

	// Stays exceeded until the month changes.
	again, err := svc.CanSend(ctx, id.String())
	if err != nil {
		t.Fatalf("can send again: %v", err)
	}
	if again.Allowed {
		t.Fatal("allowance flipped without a month change")
	}
}

func TestCanSendDisabled(t *testing.T) {
	svc, _, _, id := setupQuota(t, 3, false)

	allowance, err := svc.CanSend(context.Background(), id.String())
	if err != nil {
		t.Fatalf("can send: %v", err)
	}
	if allowance.Allowed || allowance.Reason != domain.ReasonDisabled {
		t.Fatalf("allowance = %+v, want disabled", allowance)
	}
}

func TestCanSendNotFound(t *testing.T) {
	svc, _, _, _ := setupQuota(t, 3, true)

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	if _, err := svc.CanSend(context.Background(), node.Generate().String()); err != clientdomain.ErrNotFound {
		t.Fatalf("err = %v, want %v", err, clientdomain.ErrNotFound)
	}
	if _, err := svc.CanSend(context.Background(), "garbage"); err != clientdomain.ErrInvalidID {
		t.Fatalf("err = %v, want %v", err, clientdomain.ErrInvalidID)
	}
}

func TestMonthRolloverResetsOnce(t *testing.T) {
	svc, repo, fake, id := setupQuota(t, 3, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RecordSend(ctx, id.String()); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if err := svc.RecordSend(ctx, id.String()); err != domain.ErrQuotaExceeded {
		t.Fatalf("err = %v, want %v", err, domain.ErrQuotaExceeded)
	}

	// Cross into April: the stale counter reads as zero and is reset exactly
	// once, no matter how many checks happen first.
	fake.Advance(31 * 24 * time.Hour)

	for i := 0; i < 2; i++ {
		allowance, err := svc.CanSend(ctx, id.String())
		if err != nil {
			t.Fatalf("can send %d: %v", i, err)
		}
		if !allowance.Allowed {
			t.Fatalf("allowance %d = %+v, want allowed", i, allowance)
		}
	}

	stored, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.EmailsSentMonth != 0 {
		t.Fatalf("counter = %d, want 0 after rollover", stored.EmailsSentMonth)
	}
	if stored.EmailsSentMonthKey != "2026-04" {
		t.Fatalf("month key = %q, want 2026-04", stored.EmailsSentMonthKey)
	}

	if err := svc.RecordSend(ctx, id.String()); err != nil {
		t.Fatalf("record in new month: %v", err)
	}
	stored, err = repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.EmailsSentMonth != 1 {
		t.Fatalf("counter = %d, want 1", stored.EmailsSentMonth)
	}
}

func TestRecordSendNeverPassesQuota(t *testing.T) {
	svc, repo, _, id := setupQuota(t, 3, true)
	ctx := context.Background()

	var denied int
	for i := 0; i < 10; i++ {
		if err := svc.RecordSend(ctx, id.String()); err == domain.ErrQuotaExceeded {
			denied++
		} else if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	if denied != 7 {
		t.Fatalf("denied = %d, want 7", denied)
	}

	stored, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.EmailsSentMonth != 3 {
		t.Fatalf("counter = %d, want exactly the quota", stored.EmailsSentMonth)
	}
}

func TestRecordSendDisabled(t *testing.T) {
	svc, _, _, id := setupQuota(t, 3, false)

	if err := svc.RecordSend(context.Background(), id.String()); err != domain.ErrEmailDisabled {
		t.Fatalf("err = %v, want %v", err, domain.ErrEmailDisabled)
	}
}
