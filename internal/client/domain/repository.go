package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the keyed client store shared by the registry, the payment
// gateway and the email quota. Lookups return (nil, nil) when no row matches.
// Every mutation is a single conditional update keyed by identity; the store
// reports unique-slug collisions as a duplicate-key error at commit time.
type Repository interface {
	Insert(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id snowflake.ID) (*Client, error)
	FindBySlug(ctx context.Context, slug string) (*Client, error)
	FindActiveBySlug(ctx context.Context, slug string) (*Client, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]Client, error)

	// UpdateBySlug / UpdateByID apply a partial field update and report
	// whether a row was touched.
	UpdateBySlug(ctx context.Context, slug string, fields map[string]any) (bool, error)
	UpdateByID(ctx context.Context, id snowflake.ID, fields map[string]any) (bool, error)

	// ResetEmailMonth zeroes the monthly counter and stamps the given key.
	ResetEmailMonth(ctx context.Context, id snowflake.ID, monthKey string) error
	// IncrementEmailsSent is the atomic compare-and-increment bounded by the
	// monthly quota; it reports false when the cap (or a stale key) blocked it.
	IncrementEmailsSent(ctx context.Context, id snowflake.ID, monthKey string) (bool, error)
}
