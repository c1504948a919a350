package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	"github.com/smallbiznis/autoscale/pkg/db"
	"github.com/smallbiznis/autoscale/pkg/identifier"
	"github.com/smallbiznis/autoscale/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("scalingconfig.service"),
		repo: p.Repo,
	}
}

func (s *Service) Put(ctx context.Context, req domain.PutRequest) (*domain.Response, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	groupID := strings.TrimSpace(req.GroupID)
	if !identifier.Valid(groupID) {
		return nil, domain.ErrInvalidGroupID
	}

	now := time.Now().UTC()
	record := &domain.ScalingConfig{
		TenantID:  tenantID,
		GroupID:   groupID,
		Data:      req.Data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, s.db, record); err != nil {
		return nil, storeErr(err)
	}

	s.log.Debug("scaling config written",
		zap.String("tenant_id", tenantID),
		zap.String("group_id", groupID),
	)

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, groupID string) (*domain.Response, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return nil, domain.ErrInvalidGroupID
	}

	record, err := s.repo.Find(ctx, s.db, tenantID, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) MarkDeleted(ctx context.Context, groupID string) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return domain.ErrInvalidGroupID
	}

	marked, err := s.repo.MarkDeleted(ctx, s.db, tenantID, groupID, time.Now().UTC())
	if err != nil {
		return storeErr(err)
	}
	if !marked {
		return domain.ErrNotFound
	}

	s.log.Info("scaling config marked deleted",
		zap.String("tenant_id", tenantID),
		zap.String("group_id", groupID),
	)
	return nil
}

func (s *Service) ListByTenant(ctx context.Context) ([]domain.Response, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByTenant(ctx, s.db, tenantID)
	if err != nil {
		return nil, storeErr(err)
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// ListByDeletedFlag enumerates records across every tenant through the
// deleted index. It bypasses the tenant scope on purpose: this is the
// maintenance/audit path, not a request-path read.
func (s *Service) ListByDeletedFlag(ctx context.Context, deleted bool) ([]domain.Response, error) {
	items, err := s.repo.ListByDeleted(ctx, s.db, deleted)
	if err != nil {
		return nil, storeErr(err)
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func tenantFromContext(ctx context.Context) (string, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || !identifier.Valid(tenantID) {
		return "", domain.ErrInvalidTenantID
	}
	return tenantID, nil
}

func storeErr(err error) error {
	if db.IsUnavailableErr(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

func toResponse(record *domain.ScalingConfig) domain.Response {
	return domain.Response{
		TenantID:  record.TenantID,
		GroupID:   record.GroupID,
		Data:      record.Data,
		Deleted:   record.Deleted,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
