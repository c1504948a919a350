package scalingconfig

import (
	"github.com/smallbiznis/autoscale/internal/scalingconfig/repository"
	"github.com/smallbiznis/autoscale/internal/scalingconfig/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scalingconfig.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
