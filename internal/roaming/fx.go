package roaming

import (
	"github.com/roamclearlabs/roamclear/internal/roaming/service"
	"go.uber.org/fx"
)

var Module = fx.Module("roaming.service",
	fx.Provide(service.NewService),
)
