package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/autoscale/internal/config"
	"github.com/smallbiznis/autoscale/internal/migration"
	"github.com/smallbiznis/autoscale/internal/scalingconfig"
	"github.com/smallbiznis/autoscale/internal/scalingpolicy"
	"github.com/smallbiznis/autoscale/internal/server"
	"github.com/smallbiznis/autoscale/internal/sweeper"
	"github.com/smallbiznis/autoscale/internal/webhook"
	"github.com/smallbiznis/autoscale/pkg/db"
	"github.com/smallbiznis/autoscale/pkg/log"
	"github.com/smallbiznis/autoscale/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		log.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional Domains
		scalingconfig.Module,
		scalingpolicy.Module,
		webhook.Module,
		sweeper.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
