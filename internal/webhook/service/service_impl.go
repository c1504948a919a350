package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	configdomain "github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	policydomain "github.com/smallbiznis/autoscale/internal/scalingpolicy/domain"
	"github.com/smallbiznis/autoscale/internal/webhook/domain"
	"github.com/smallbiznis/autoscale/pkg/db"
	"github.com/smallbiznis/autoscale/pkg/identifier"
	"github.com/smallbiznis/autoscale/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	PolicyRepo policydomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	policyRepo policydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("webhook.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		policyRepo: p.PolicyRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tenantID, groupID, policyID, err := s.resolvePolicy(ctx, req.GroupID, req.PolicyID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	rawKey, err := domain.NewCapabilityKey()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.Webhook{
		ID:                s.genID.Generate(),
		TenantID:          tenantID,
		GroupID:           groupID,
		PolicyID:          policyID,
		Name:              name,
		CapabilityVersion: domain.CapabilityVersion,
		KeyHash:           domain.HashCapabilityKey(rawKey),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Metadata != nil {
		record.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.Create(ctx, s.db, record); err != nil {
		// key_hash is unique; on the off chance of a collision mint a new
		// key and try once more
		if !db.IsDuplicateKeyErr(err) {
			return nil, storeErr(err)
		}
		if rawKey, err = domain.NewCapabilityKey(); err != nil {
			return nil, err
		}
		record.KeyHash = domain.HashCapabilityKey(rawKey)
		if err := s.repo.Create(ctx, s.db, record); err != nil {
			return nil, storeErr(err)
		}
	}

	s.log.Info("webhook created",
		zap.String("tenant_id", tenantID),
		zap.String("group_id", groupID),
		zap.String("policy_id", policyID.String()),
		zap.String("webhook_id", record.ID.String()),
	)

	resp := toResponse(record)
	resp.CapabilityKey = rawKey
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, groupID, policyID, webhookID string) (*domain.Response, error) {
	record, err := s.find(ctx, groupID, policyID, webhookID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) MarkDeleted(ctx context.Context, groupID, policyID, webhookID string) error {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return configdomain.ErrInvalidGroupID
	}
	pid, err := parseID(policyID, policydomain.ErrInvalidPolicyID)
	if err != nil {
		return err
	}
	wid, err := parseID(webhookID, domain.ErrInvalidWebhookID)
	if err != nil {
		return err
	}

	marked, err := s.repo.MarkDeleted(ctx, s.db, tenantID, groupID, pid, wid, time.Now().UTC())
	if err != nil {
		return storeErr(err)
	}
	if !marked {
		return domain.ErrNotFound
	}

	s.log.Info("webhook marked deleted",
		zap.String("tenant_id", tenantID),
		zap.String("group_id", groupID),
		zap.String("policy_id", pid.String()),
		zap.String("webhook_id", wid.String()),
	)
	return nil
}

func (s *Service) ListByPolicy(ctx context.Context, groupID, policyID string) ([]domain.Response, error) {
	tenantID, groupID, pid, err := s.resolvePolicy(ctx, groupID, policyID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByPolicy(ctx, s.db, tenantID, groupID, pid)
	if err != nil {
		return nil, storeErr(err)
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ResolveByKey(ctx context.Context, version, rawKey string) (*domain.Response, error) {
	version = strings.TrimSpace(version)
	rawKey = strings.TrimSpace(rawKey)
	if version == "" || rawKey == "" {
		return nil, domain.ErrUnknownKey
	}

	record, err := s.repo.FindByKeyHash(ctx, s.db, version, domain.HashCapabilityKey(rawKey))
	if err != nil {
		return nil, storeErr(err)
	}
	if record == nil {
		return nil, domain.ErrUnknownKey
	}

	resp := toResponse(record)
	return &resp, nil
}

// resolvePolicy validates identifiers and confirms the policy exists and is
// not soft-deleted under the caller's tenant.
func (s *Service) resolvePolicy(ctx context.Context, groupID, policyID string) (string, string, snowflake.ID, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return "", "", 0, err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return "", "", 0, configdomain.ErrInvalidGroupID
	}
	pid, err := parseID(policyID, policydomain.ErrInvalidPolicyID)
	if err != nil {
		return "", "", 0, err
	}

	policy, err := s.policyRepo.Find(ctx, s.db, tenantID, groupID, pid)
	if err != nil {
		return "", "", 0, storeErr(err)
	}
	if policy == nil || policy.Deleted {
		return "", "", 0, policydomain.ErrNotFound
	}
	return tenantID, groupID, pid, nil
}

func (s *Service) find(ctx context.Context, groupID, policyID, webhookID string) (*domain.Webhook, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	groupID = strings.TrimSpace(groupID)
	if !identifier.Valid(groupID) {
		return nil, configdomain.ErrInvalidGroupID
	}
	pid, err := parseID(policyID, policydomain.ErrInvalidPolicyID)
	if err != nil {
		return nil, err
	}
	wid, err := parseID(webhookID, domain.ErrInvalidWebhookID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Find(ctx, s.db, tenantID, groupID, pid, wid)
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

func parseID(raw string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, invalid
	}
	return id, nil
}

func storeErr(err error) error {
	if db.IsUnavailableErr(err) {
		return fmt.Errorf("%w: %v", configdomain.ErrStoreUnavailable, err)
	}
	return err
}

func toResponse(w *domain.Webhook) domain.Response {
	resp := domain.Response{
		ID:                w.ID.String(),
		TenantID:          w.TenantID,
		GroupID:           w.GroupID,
		PolicyID:          w.PolicyID.String(),
		Name:              w.Name,
		CapabilityVersion: w.CapabilityVersion,
		Deleted:           w.Deleted,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
	if len(w.Metadata) > 0 {
		resp.Metadata = map[string]any(w.Metadata)
	}
	return resp
}
