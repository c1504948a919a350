package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	configdomain "github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	configrepository "github.com/smallbiznis/autoscale/internal/scalingconfig/repository"
	"github.com/smallbiznis/autoscale/internal/scalingpolicy/domain"
	"github.com/smallbiznis/autoscale/internal/scalingpolicy/repository"
	"github.com/smallbiznis/autoscale/pkg/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, configdomain.Repository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE scaling_config (
		tenant_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		data TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (tenant_id, group_id)
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE scaling_policies (
		id BIGINT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		data TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	configRepo := configrepository.Provide()
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.Provide(),
		ConfigRepo: configRepo,
	})
	return svc, configRepo, db
}

func seedGroup(t *testing.T, configRepo configdomain.Repository, db *gorm.DB, tenantID, groupID string) {
	t.Helper()
	require.NoError(t, configRepo.Upsert(context.Background(), db, &configdomain.ScalingConfig{
		TenantID: tenantID,
		GroupID:  groupID,
		Data:     `{"minInstances":1}`,
	}))
}

func tenantCtx(tenantID string) context.Context {
	return tenantctx.WithTenantID(context.Background(), tenantID)
}

func TestCreateGetUpdate(t *testing.T) {
	svc, configRepo, db := newTestService(t)
	seedGroup(t, configRepo, db, "acct-1", "grp-A")
	ctx := tenantCtx("acct-1")

	created, err := svc.Create(ctx, domain.CreateRequest{GroupID: "grp-A", Data: `{"change":1}`})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Deleted)

	got, err := svc.Get(ctx, "grp-A", created.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"change":1}`, got.Data)

	updated, err := svc.Update(ctx, domain.UpdateRequest{GroupID: "grp-A", PolicyID: created.ID, Data: `{"change":5}`})
	require.NoError(t, err)
	assert.Equal(t, `{"change":5}`, updated.Data)
}

func TestCreateRequiresLiveGroup(t *testing.T) {
	svc, configRepo, db := newTestService(t)
	ctx := tenantCtx("acct-1")

	_, err := svc.Create(ctx, domain.CreateRequest{GroupID: "grp-missing", Data: `{}`})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)

	seedGroup(t, configRepo, db, "acct-1", "grp-A")
	_, err = configRepo.MarkDeleted(context.Background(), db, "acct-1", "grp-A", nowUTC())
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{GroupID: "grp-A", Data: `{}`})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestMarkDeletedKeepsData(t *testing.T) {
	svc, configRepo, db := newTestService(t)
	seedGroup(t, configRepo, db, "acct-1", "grp-A")
	ctx := tenantCtx("acct-1")

	created, err := svc.Create(ctx, domain.CreateRequest{GroupID: "grp-A", Data: `{"change":1}`})
	require.NoError(t, err)

	require.NoError(t, svc.MarkDeleted(ctx, "grp-A", created.ID))

	got, err := svc.Get(ctx, "grp-A", created.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, `{"change":1}`, got.Data)

	// deleted policies drop out of the group listing
	items, err := svc.ListByGroup(ctx, "grp-A")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestTenantIsolation(t *testing.T) {
	svc, configRepo, db := newTestService(t)
	seedGroup(t, configRepo, db, "acct-1", "grp-A")
	seedGroup(t, configRepo, db, "acct-2", "grp-A")

	created, err := svc.Create(tenantCtx("acct-1"), domain.CreateRequest{GroupID: "grp-A", Data: `{}`})
	require.NoError(t, err)

	_, err = svc.Get(tenantCtx("acct-2"), "grp-A", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.MarkDeleted(tenantCtx("acct-2"), "grp-A", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func nowUTC() time.Time { return time.Now().UTC() }

func TestInvalidPolicyID(t *testing.T) {
	svc, configRepo, db := newTestService(t)
	seedGroup(t, configRepo, db, "acct-1", "grp-A")
	ctx := tenantCtx("acct-1")

	_, err := svc.Get(ctx, "grp-A", "not-a-policy-id")
	assert.ErrorIs(t, err, domain.ErrInvalidPolicyID)
}
