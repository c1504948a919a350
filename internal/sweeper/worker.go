package sweeper

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	configdomain "github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	deletedConfigsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "autoscale_soft_deleted_configs",
		Help: "Soft-deleted scaling configs still retained in the store.",
	})
	sweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoscale_sweep_runs_total",
		Help: "Audit sweep runs by outcome.",
	}, []string{"outcome"})
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   configdomain.Repository
	Locker *Locker `optional:"true"`
	Config Config  `optional:"true"`
}

// Worker periodically enumerates soft-deleted records through the deleted
// index and reports them. It never erases anything; physical deletion is an
// administrative operation outside this service.
type Worker struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   configdomain.Repository
	locker *Locker
	cfg    Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:     p.DB,
		log:    p.Log.Named("sweeper"),
		repo:   p.Repo,
		locker: p.Locker,
		cfg:    p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("audit sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(parentCtx context.Context) error {
	ctx, cancel := context.WithTimeout(parentCtx, w.cfg.RunTimeout)
	defer cancel()

	if w.locker != nil {
		token, ok, err := w.locker.TryLock(ctx, w.cfg.LockKey, w.cfg.LockTTL)
		if err != nil {
			sweepRuns.WithLabelValues("lock_error").Inc()
			return err
		}
		if !ok {
			// another replica is sweeping
			sweepRuns.WithLabelValues("skipped").Inc()
			return nil
		}
		defer func() {
			if err := w.locker.Release(ctx, w.cfg.LockKey, token); err != nil {
				w.log.Warn("sweep lock release failed", zap.Error(err))
			}
		}()
	}

	return w.sweep(ctx)
}

func (w *Worker) sweep(ctx context.Context) error {
	items, err := w.repo.ListByDeleted(ctx, w.db, true)
	if err != nil {
		sweepRuns.WithLabelValues("error").Inc()
		return err
	}

	perTenant := make(map[string]int, len(items))
	for _, item := range items {
		perTenant[item.TenantID]++
	}

	deletedConfigsGauge.Set(float64(len(items)))
	sweepRuns.WithLabelValues("ok").Inc()

	w.log.Info("audit sweep complete",
		zap.Int("deleted_records", len(items)),
		zap.Int("tenants", len(perTenant)),
	)
	return nil
}
