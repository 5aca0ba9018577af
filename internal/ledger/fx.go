package ledger

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roamclearlabs/roamclear/internal/config"
	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
	"github.com/roamclearlabs/roamclear/internal/ledger/gormledger"
	"github.com/roamclearlabs/roamclear/internal/ledger/memledger"
	"github.com/roamclearlabs/roamclear/internal/ledger/redisledger"
)

var Module = fx.Module("ledger",
	fx.Provide(NewLedger),
)

type Param struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	GenID  *snowflake.Node
}

// NewLedger builds the world-state backend selected by ledger.backend.
func NewLedger(p Param) (ledgerdomain.Ledger, error) {
	switch p.Config.Ledger.Backend {
	case "memory":
		return memledger.New(), nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     p.Config.Redis.Addr,
			Password: p.Config.Redis.Password,
			DB:       p.Config.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisledger.New(rdb, p.Log, p.Config.Ledger.Namespace), nil

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(p.Config.SQLite.Path), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", p.Config.SQLite.Path, err)
		}
		return gormledger.New(db, p.Log, p.GenID)

	default:
		return nil, fmt.Errorf("unknown ledger backend %q", p.Config.Ledger.Backend)
	}
}
