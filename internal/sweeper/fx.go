package sweeper

import (
	"context"

	appconfig "github.com/smallbiznis/autoscale/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("sweeper",
	fx.Provide(func(cfg appconfig.Config) Config {
		c := DefaultConfig()
		c.PollInterval = cfg.SweepInterval
		c.RunTimeout = cfg.SweepTimeout
		return c.withDefaults()
	}),
	fx.Provide(NewRedisClient),
	fx.Provide(NewLocker),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go worker.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
