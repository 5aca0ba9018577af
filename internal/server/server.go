// Package server exposes every settlement operation over HTTP. Each handler
// maps to exactly one ledger transaction; chaining (move → discovery →
// authentication → update-rate, verify → consent → call-out) is the caller's
// job, driven by the emitted events.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/roamclearlabs/roamclear/internal/billing/domain"
	"github.com/roamclearlabs/roamclear/internal/config"
	cspdomain "github.com/roamclearlabs/roamclear/internal/csp/domain"
	querydomain "github.com/roamclearlabs/roamclear/internal/query/domain"
	roamingdomain "github.com/roamclearlabs/roamclear/internal/roaming/domain"
	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(Start),
)

type Server struct {
	log    *zap.Logger
	cfg    config.Config
	engine *gin.Engine

	cspsvc     cspdomain.Service
	simsvc     simdomain.Service
	roamingsvc roamingdomain.Service
	billingsvc billingdomain.Service
	querysvc   querydomain.Service
}

type ServerParam struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	CSP     cspdomain.Service
	Sim     simdomain.Service
	Roaming roamingdomain.Service
	Billing billingdomain.Service
	Query   querydomain.Service
}

func NewServer(p ServerParam) *Server {
	s := &Server{
		log:        p.Log.Named("server"),
		cfg:        p.Config,
		cspsvc:     p.CSP,
		simsvc:     p.Sim,
		roamingsvc: p.Roaming,
		billingsvc: p.Billing,
		querysvc:   p.Query,
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery(), RequestID(), Metrics())

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	e.GET("/metrics", MetricsHandler())

	v1 := e.Group("/v1")
	{
		v1.POST("/csps", s.CreateCSP)
		v1.PUT("/csps/:name", s.UpdateCSP)
		v1.DELETE("/csps/:name", s.DeleteCSP)
		v1.GET("/csps/:name/sims", s.FindAllSubscriberSimsForCSP)

		v1.POST("/sims", s.CreateSubscriberSim)
		v1.PUT("/sims/:publicKey", s.UpdateSubscriberSim)
		v1.DELETE("/sims/:publicKey", s.DeleteSubscriberSim)
		v1.GET("/sims/:publicKey/history", s.GetHistoryForSim)

		v1.POST("/sims/:publicKey/move", s.MoveSim)
		v1.POST("/sims/:publicKey/discovery", s.Discovery)
		v1.POST("/sims/:publicKey/authentication", s.Authentication)
		v1.POST("/sims/:publicKey/rate", s.UpdateRate)

		v1.POST("/sims/:publicKey/verify", s.VerifyUser)
		v1.POST("/sims/:publicKey/overage-consent", s.SetOverageFlag)
		v1.POST("/sims/:publicKey/call-out", s.CallOut)
		v1.POST("/sims/:publicKey/call-end", s.CallEnd)
		v1.POST("/sims/:publicKey/call-pay", s.CallPay)

		v1.GET("/assets/:id", s.ReadAsset)
		v1.GET("/query", s.QueryAll)
		v1.POST("/query", s.QueryBySelector)
	}
	return e
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

func Start(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http server listening", zap.String("addr", s.cfg.Server.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
