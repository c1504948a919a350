package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/autoscale/internal/webhook/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, webhook *domain.Webhook) error {
	if webhook == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Create(webhook).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, tenantID, groupID string, policyID, id snowflake.ID) (*domain.Webhook, error) {
	var rec domain.Webhook
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND group_id = ? AND policy_id = ? AND id = ?", tenantID, groupID, policyID, id).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) FindByKeyHash(ctx context.Context, db *gorm.DB, version, keyHash string) (*domain.Webhook, error) {
	var rec domain.Webhook
	err := db.WithContext(ctx).
		Where("capability_version = ? AND key_hash = ? AND deleted = ?", version, keyHash, false).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repo) MarkDeleted(ctx context.Context, db *gorm.DB, tenantID, groupID string, policyID, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE policy_webhooks SET deleted = ?, updated_at = ?
		 WHERE tenant_id = ? AND group_id = ? AND policy_id = ? AND id = ?`,
		true, at, tenantID, groupID, policyID, id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) ListByPolicy(ctx context.Context, db *gorm.DB, tenantID, groupID string, policyID snowflake.ID) ([]domain.Webhook, error) {
	var items []domain.Webhook
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND group_id = ? AND policy_id = ? AND deleted = ?", tenantID, groupID, policyID, false).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
