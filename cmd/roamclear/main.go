package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/roamclearlabs/roamclear/internal/billing"
	"github.com/roamclearlabs/roamclear/internal/clock"
	"github.com/roamclearlabs/roamclear/internal/config"
	"github.com/roamclearlabs/roamclear/internal/csp"
	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	"github.com/roamclearlabs/roamclear/internal/ledger"
	"github.com/roamclearlabs/roamclear/internal/observability"
	"github.com/roamclearlabs/roamclear/internal/query"
	"github.com/roamclearlabs/roamclear/internal/roaming"
	"github.com/roamclearlabs/roamclear/internal/seed"
	"github.com/roamclearlabs/roamclear/internal/server"
	"github.com/roamclearlabs/roamclear/internal/sim"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "roamclear",
		Short:   "Roaming settlement engine",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newServeCmd(), newSeedCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the settlement API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(append(coreModules(), server.Module)...)
			app.Run()
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo carriers and sims",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(append(coreModules(),
				fx.Invoke(func(cspsvc cspdomain.Service, simsvc simdomain.Service, log *zap.Logger) error {
					return seed.Run(context.Background(), cspsvc, simsvc, log)
				}),
			)...)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := app.Start(ctx); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			return app.Stop(context.Background())
		},
	}
}

func coreModules() []fx.Option {
	return []fx.Option{
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		clock.Module,
		ledger.Module,
		query.Module,
		csp.Module,
		sim.Module,
		roaming.Module,
		billing.Module,
	}
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
