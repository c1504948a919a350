package scalingpolicy

import (
	"github.com/smallbiznis/autoscale/internal/scalingpolicy/repository"
	"github.com/smallbiznis/autoscale/internal/scalingpolicy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scalingpolicy.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
