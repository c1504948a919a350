package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	configdomain "github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	"github.com/smallbiznis/autoscale/internal/scalingpolicy/domain"
	"github.com/smallbiznis/autoscale/pkg/db"
	"github.com/smallbiznis/autoscale/pkg/identifier"
	"github.com/smallbiznis/autoscale/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	ConfigRepo configdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	configRepo configdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("scalingpolicy.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		configRepo: p.ConfigRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tenantID, groupID, err := s.resolveGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.ScalingPolicy{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		GroupID:   groupID,
		Data:      req.Data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, s.db, record); err != nil {
		return nil, storeErr(err)
	}

	s.log.Info("scaling policy created",
		zap.String("tenant_id", tenantID),
		zap.String("group_id", groupID),
		zap.String("policy_id", record.ID.String()),
	)

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, groupID, policyID string) (*domain.Response, error) {
	record, err := s.find(ctx, groupID, policyID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	record, err := s.find(ctx, req.GroupID, req.PolicyID)
	if err != nil {
		return nil, err
	}
	if record.Deleted {
		return nil, domain.ErrNotFound
	}

	record.Data = req.Data
	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, record); err != nil {
		return nil, storeErr(err)
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) MarkDeleted(ctx context.Context, groupID, policyID string) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return configdomain.ErrInvalidGroupID
	}
	id, err := parsePolicyID(policyID)
	if err != nil {
		return err
	}

	marked, err := s.repo.MarkDeleted(ctx, s.db, tenantID, groupID, id, time.Now().UTC())
	if err != nil {
		return storeErr(err)
	}
	if !marked {
		return domain.ErrNotFound
	}

	s.log.Info("scaling policy marked deleted",
		zap.String("tenant_id", tenantID),
		zap.String("group_id", groupID),
		zap.String("policy_id", id.String()),
	)
	return nil
}

func (s *Service) ListByGroup(ctx context.Context, groupID string) ([]domain.Response, error) {
	tenantID, groupID, err := s.resolveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByGroup(ctx, s.db, tenantID, groupID)
	if err != nil {
		return nil, storeErr(err)
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// resolveGroup validates identifiers and confirms the scaling group exists
// and is not soft-deleted. Policies never attach to missing or deleted
// groups.
func (s *Service) resolveGroup(ctx context.Context, groupID string) (string, string, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return "", "", err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return "", "", configdomain.ErrInvalidGroupID
	}

	group, err := s.configRepo.Find(ctx, s.db, tenantID, groupID)
	if err != nil {
		return "", "", storeErr(err)
	}
	if group == nil || group.Deleted {
		return "", "", domain.ErrGroupNotFound
	}
	return tenantID, groupID, nil
}

func (s *Service) find(ctx context.Context, groupID, policyID string) (*domain.ScalingPolicy, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return nil, configdomain.ErrInvalidGroupID
	}
	id, err := parsePolicyID(policyID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Find(ctx, s.db, tenantID, groupID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func tenantFromContext(ctx context.Context) (string, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || !identifier.Valid(tenantID) {
		return "", configdomain.ErrInvalidTenantID
	}
	return tenantID, nil
}

func parsePolicyID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidPolicyID
	}
	return id, nil
}

func storeErr(err error) error {
	if db.IsUnavailableErr(err) {
		return fmt.Errorf("%w: %v", configdomain.ErrStoreUnavailable, err)
	}
	return err
}

func toResponse(p *domain.ScalingPolicy) domain.Response {
	return domain.Response{
		ID:        p.ID.String(),
		TenantID:  p.TenantID,
		GroupID:   p.GroupID,
		Data:      p.Data,
		Deleted:   p.Deleted,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
