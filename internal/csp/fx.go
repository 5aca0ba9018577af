package csp

import (
	"github.com/roamclearlabs/roamclear/internal/csp/service"
	"go.uber.org/fx"
)

var Module = fx.Module("csp.service",
	fx.Provide(service.NewService),
)
