package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ScalingPolicy is one scaling policy attached to a group. Policy payloads
// are opaque JSON text, same discipline as the group configuration itself.
type ScalingPolicy struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID string       `gorm:"column:tenant_id;type:varchar(256);not null;index:idx_scaling_policies_group,priority:1"`
	GroupID  string       `gorm:"column:group_id;type:varchar(256);not null;index:idx_scaling_policies_group,priority:2"`

	Data string `gorm:"type:text;not null"`

	Deleted bool `gorm:"not null;default:false;index:deleted_scaling_policies"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ScalingPolicy) TableName() string { return "scaling_policies" }
