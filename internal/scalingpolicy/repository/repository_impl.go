package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/autoscale/internal/scalingpolicy/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, policy *domain.ScalingPolicy) error {
	if policy == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO scaling_policies (id, tenant_id, group_id, data, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		policy.ID,
		policy.TenantID,
		policy.GroupID,
		policy.Data,
		policy.Deleted,
		policy.CreatedAt,
		policy.UpdatedAt,
	).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, tenantID, groupID string, id snowflake.ID) (*domain.ScalingPolicy, error) {
	var rec domain.ScalingPolicy
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND group_id = ? AND id = ?", tenantID, groupID, id).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, policy *domain.ScalingPolicy) error {
	if policy == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE scaling_policies SET data = ?, updated_at = ?
		 WHERE tenant_id = ? AND group_id = ? AND id = ?`,
		policy.Data,
		policy.UpdatedAt,
		policy.TenantID,
		policy.GroupID,
		policy.ID,
	).Error
}

func (r *repo) MarkDeleted(ctx context.Context, db *gorm.DB, tenantID, groupID string, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE scaling_policies SET deleted = ?, updated_at = ?
		 WHERE tenant_id = ? AND group_id = ? AND id = ?`,
		true, at, tenantID, groupID, id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) ListByGroup(ctx context.Context, db *gorm.DB, tenantID, groupID string) ([]domain.ScalingPolicy, error) {
	var items []domain.ScalingPolicy
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND group_id = ? AND deleted = ?", tenantID, groupID, false).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
