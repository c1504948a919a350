package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, policy *ScalingPolicy) error

	// Find returns the policy regardless of its deleted flag, or nil when
	// it does not exist under the given tenant and group.
	Find(ctx context.Context, db *gorm.DB, tenantID, groupID string, id snowflake.ID) (*ScalingPolicy, error)

	Update(ctx context.Context, db *gorm.DB, policy *ScalingPolicy) error

	MarkDeleted(ctx context.Context, db *gorm.DB, tenantID, groupID string, id snowflake.ID, at time.Time) (bool, error)

	// ListByGroup returns the group's live policies only.
	ListByGroup(ctx context.Context, db *gorm.DB, tenantID, groupID string) ([]ScalingPolicy, error)
}
