package domain

import "time"

// ScalingConfig is one scaling-group configuration record. The pair
// (tenant_id, group_id) identifies at most one row; group configuration
// payloads are opaque JSON text whose shape is owned by the caller.
type ScalingConfig struct {
	TenantID string `gorm:"column:tenant_id;primaryKey;type:varchar(256);not null"`
	GroupID  string `gorm:"column:group_id;primaryKey;type:varchar(256);not null"`

	Data string `gorm:"type:text;not null"`

	// Deleted marks logical removal. Rows are never physically deleted by
	// this layer; the index keeps deleted rows enumerable for audits.
	Deleted bool `gorm:"not null;default:false;index:deleted_scaling_config"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ScalingConfig) TableName() string { return "scaling_config" }
