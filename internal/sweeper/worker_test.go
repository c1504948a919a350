package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	configdomain "github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	configrepository "github.com/smallbiznis/autoscale/internal/scalingconfig/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestWorker(t *testing.T) (*Worker, configdomain.Repository, *gorm.DB) {
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

	repo := configrepository.Provide()
	worker := NewWorker(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repo,
	})
	return worker, repo, db
}

func TestRunOnceCountsDeleted(t *testing.T) {
	worker, repo, db := newTestWorker(t)
	ctx := context.Background()

	for _, key := range []struct{ tenant, group string }{
		{"acct-1", "grp-A"},
		{"acct-1", "grp-B"},
		{"acct-2", "grp-C"},
	} {
		require.NoError(t, repo.Upsert(ctx, db, &configdomain.ScalingConfig{
			TenantID: key.tenant,
			GroupID:  key.group,
			Data:     `{}`,
		}))
	}

	_, err := repo.MarkDeleted(ctx, db, "acct-1", "grp-B", time.Now().UTC())
	require.NoError(t, err)
	_, err = repo.MarkDeleted(ctx, db, "acct-2", "grp-C", time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, worker.RunOnce(ctx))
	require.Equal(t, 2.0, testutil.ToFloat64(deletedConfigsGauge))
}

func TestRunOnceEmptyStore(t *testing.T) {
	worker, _, _ := newTestWorker(t)
	require.NoError(t, worker.RunOnce(context.Background()))
	require.Equal(t, 0.0, testutil.ToFloat64(deletedConfigsGauge))
}
