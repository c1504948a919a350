package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.ScalingConfig) error {
	if record == nil {
		return gorm.ErrInvalidData
	}
	record.Deleted = false
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "group_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"data":       record.Data,
			"deleted":    false,
			"updated_at": record.UpdatedAt,
		}),
	}).Create(record).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, tenantID, groupID string) (*domain.ScalingConfig, error) {
	var rec domain.ScalingConfig
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND group_id = ?", tenantID, groupID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) MarkDeleted(ctx context.Context, db *gorm.DB, tenantID, groupID string, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE scaling_config SET deleted = ?, updated_at = ? WHERE tenant_id = ? AND group_id = ?`,
		true, at, tenantID, groupID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) ListByTenant(ctx context.Context, db *gorm.DB, tenantID string) ([]domain.ScalingConfig, error) {
	var items []domain.ScalingConfig
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListByDeleted(ctx context.Context, db *gorm.DB, deleted bool) ([]domain.ScalingConfig, error) {
	var items []domain.ScalingConfig
	err := db.WithContext(ctx).
		Where("deleted = ?", deleted).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
