package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/autoscale/internal/config"
	configdomain "github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
	policydomain "github.com/smallbiznis/autoscale/internal/scalingpolicy/domain"
	webhookdomain "github.com/smallbiznis/autoscale/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CorrelationMiddleware())
	r.Use(TracingMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(RequestLogger())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config) *gin.Engine {
	return NewEngine(cfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	configSvc  configdomain.Service
	policySvc  policydomain.Service
	webhookSvc webhookdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	ConfigSvc  configdomain.Service
	PolicySvc  policydomain.Service
	WebhookSvc webhookdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		configSvc:  p.ConfigSvc,
		policySvc:  p.PolicySvc,
		webhookSvc: p.WebhookSvc,
	}

	svc.registerAPIRoutes()
	svc.registerExecutionRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	tenants := v1.Group("/tenants/:tenantId", TenantContext())

	// -------- Scaling groups --------
	tenants.GET("/groups", s.ListGroupConfigs)
	tenants.PUT("/groups/:groupId/config", s.PutGroupConfig)
	tenants.GET("/groups/:groupId/config", s.GetGroupConfig)
	tenants.DELETE("/groups/:groupId/config", s.DeleteGroupConfig)

	// -------- Scaling policies --------
	tenants.GET("/groups/:groupId/policies", s.ListPolicies)
	tenants.POST("/groups/:groupId/policies", s.CreatePolicy)
	tenants.GET("/groups/:groupId/policies/:policyId", s.GetPolicy)
	tenants.PUT("/groups/:groupId/policies/:policyId", s.UpdatePolicy)
	tenants.DELETE("/groups/:groupId/policies/:policyId", s.DeletePolicy)

	// -------- Policy webhooks --------
	tenants.GET("/groups/:groupId/policies/:policyId/webhooks", s.ListWebhooks)
	tenants.POST("/groups/:groupId/policies/:policyId/webhooks", s.CreateWebhook)
	tenants.GET("/groups/:groupId/policies/:policyId/webhooks/:webhookId", s.GetWebhook)
	tenants.DELETE("/groups/:groupId/policies/:policyId/webhooks/:webhookId", s.DeleteWebhook)
}

func (s *Server) registerExecutionRoutes() {
	v1 := s.engine.Group("/v1")

	// Anonymous capability endpoint. No tenant scoping and no auth;
	// the key itself is the credential.
	v1.POST("/execute/:version/:key", s.ExecuteWebhook)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/v1/admin")

	admin.GET("/scaling-configs", s.ListConfigsByDeletedFlag)
}
