package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/staffsort/staffsort/internal/client/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Client, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*domain.Client, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *repository) FindActiveBySlug(ctx context.Context, slug string) (*domain.Client, error) {
	return r.findOne(ctx, "slug = ? AND status = ?", slug, domain.StatusActive)
}

func (r *repository) findOne(ctx context.Context, query string, args ...any) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).First(&client, append([]any{query}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repository) UpdateBySlug(ctx context.Context, slug string, fields map[string]any) (bool, error) {
	return r.update(ctx, "slug = ?", slug, fields)
}

func (r *repository) UpdateByID(ctx context.Context, id snowflake.ID, fields map[string]any) (bool, error) {
	return r.update(ctx, "id = ?", id, fields)
}

func (r *repository) update(ctx context.Context, query string, arg any, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&domain.Client{}).
		Where(query, arg).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ResetEmailMonth(ctx context.Context, id snowflake.ID, monthKey string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE clients
		 SET emails_sent_month = 0, emails_sent_month_key = ?, updated_at = ?
		 WHERE id = ?`,
		monthKey,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repository) IncrementEmailsSent(ctx context.Context, id snowflake.ID, monthKey string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE clients
		 SET emails_sent_month = emails_sent_month + 1, updated_at = ?
		 WHERE id = ? AND emails_sent_month_key = ? AND emails_sent_month < monthly_email_quota`,
		time.Now().UTC(),
		id,
		monthKey,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
