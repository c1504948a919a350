package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, webhook *Webhook) error

	Find(ctx context.Context, db *gorm.DB, tenantID, groupID string, policyID, id snowflake.ID) (*Webhook, error)

	// FindByKeyHash resolves a capability hash to its live webhook without
	// knowing the tenant or group, or nil when no such key exists.
	FindByKeyHash(ctx context.Context, db *gorm.DB, version, keyHash string) (*Webhook, error)

	MarkDeleted(ctx context.Context, db *gorm.DB, tenantID, groupID string, policyID, id snowflake.ID, at time.Time) (bool, error)

	// ListByPolicy returns the policy's live webhooks only.
	ListByPolicy(ctx context.Context, db *gorm.DB, tenantID, groupID string, policyID snowflake.ID) ([]Webhook, error)
}
