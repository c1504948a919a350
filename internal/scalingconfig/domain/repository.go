package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Upsert writes or overwrites the record for its key pair and resets
	// the deleted flag. Re-writing identical data is a no-op at the
	// caller-visible level.
	Upsert(ctx context.Context, db *gorm.DB, record *ScalingConfig) error

	// Find returns the record regardless of its deleted flag, or nil when
	// the key pair has never been written.
	Find(ctx context.Context, db *gorm.DB, tenantID, groupID string) (*ScalingConfig, error)

	// MarkDeleted flags the record as deleted, preserving its data. The
	// returned bool is false when no such record exists.
	MarkDeleted(ctx context.Context, db *gorm.DB, tenantID, groupID string, at time.Time) (bool, error)

	// ListByTenant scans one tenant's partition. Ordering is whatever the
	// store returns; a fresh call re-scans.
	ListByTenant(ctx context.Context, db *gorm.DB, tenantID string) ([]ScalingConfig, error)

	// ListByDeleted scans all tenants through the deleted index. Intended
	// for maintenance sweeps, not the request path: the cross-partition
	// scan is slower and may lag behind recent writes.
	ListByDeleted(ctx context.Context, db *gorm.DB, deleted bool) ([]ScalingConfig, error)
}
