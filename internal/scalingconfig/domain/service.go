package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Put(ctx context.Context, req PutRequest) (*Response, error)
	Get(ctx context.Context, groupID string) (*Response, error)
	MarkDeleted(ctx context.Context, groupID string) error
	ListByTenant(ctx context.Context) ([]Response, error)
	ListByDeletedFlag(ctx context.Context, deleted bool) ([]Response, error)
}

type PutRequest struct {
	GroupID string `json:"group_id"`
	Data    string `json:"data"`
}

type Response struct {
	TenantID  string    `json:"tenant_id"`
	GroupID   string    `json:"group_id"`
	Data      string    `json:"data"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidTenantID = errors.New("invalid_tenant_id")
	ErrInvalidGroupID  = errors.New("invalid_group_id")
	ErrNotFound        = errors.New("not_found")

	// ErrStoreUnavailable wraps transient connectivity failures from the
	// store. Callers may retry with backoff; this layer never retries.
	ErrStoreUnavailable = errors.New("store_unavailable")
)
