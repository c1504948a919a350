package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Webhook lets a caller execute a scaling policy anonymously through a
// capability URL. Only the sha256 of the capability key is stored; the raw
// key is returned once at creation and never again.
type Webhook struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID string       `gorm:"column:tenant_id;type:varchar(256);not null;index:idx_policy_webhooks_policy,priority:1"`
	GroupID  string       `gorm:"column:group_id;type:varchar(256);not null;index:idx_policy_webhooks_policy,priority:2"`
	PolicyID snowflake.ID `gorm:"column:policy_id;not null;index:idx_policy_webhooks_policy,priority:3"`

	Name     string            `gorm:"type:text;not null"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb"`

	CapabilityVersion string `gorm:"column:capability_version;type:text;not null"`
	KeyHash           string `gorm:"column:key_hash;type:text;not null;uniqueIndex:ux_policy_webhooks_key_hash"`

	Deleted bool `gorm:"not null;default:false;index:deleted_policy_webhooks"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Webhook) TableName() string { return "policy_webhooks" }
