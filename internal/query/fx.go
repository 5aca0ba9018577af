package query

import (
	"github.com/roamclearlabs/roamclear/internal/query/service"
	"go.uber.org/fx"
)

var Module = fx.Module("query.service",
	fx.Provide(service.NewService),
)
