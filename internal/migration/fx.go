package migration

import (
	"github.com/smallbiznis/autoscale/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, logger *zap.Logger) error {
		if cfg.DBType != "postgres" {
			// the embedded migrator drives postgres only; other dialects
			// are provisioned out of band
			logger.Info("skipping embedded migrations", zap.String("database_type", cfg.DBType))
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
