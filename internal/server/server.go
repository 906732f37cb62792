package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	clientdomain "github.com/staffsort/staffsort/internal/client/domain"
	"github.com/staffsort/staffsort/internal/config"
	emailquotadomain "github.com/staffsort/staffsort/internal/emailquota/domain"
	paymentdomain "github.com/staffsort/staffsort/internal/payment/domain"
	"github.com/staffsort/staffsort/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine(log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(requestMetrics(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func requestMetrics(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	clientSvc  clientdomain.Service
	quotaSvc   emailquotadomain.Service
	paymentSvc paymentdomain.Service
}

type Params struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	ClientSvc  clientdomain.Service
	QuotaSvc   emailquotadomain.Service
	PaymentSvc paymentdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		clientSvc:  p.ClientSvc,
		quotaSvc:   p.QuotaSvc,
		paymentSvc: p.PaymentSvc,
	}
}

func (s *Server) RegisterAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/onboarding/start", s.StartOnboarding)

	clients := v1.Group("/clients")
	clients.GET("", s.ListClients)
	clients.GET("/:slug", s.GetClient)
	clients.PATCH("/:slug/settings", s.UpdateClientSettings)
	clients.PUT("/:slug/status", s.SetClientStatus)
	clients.POST("/:slug/webhook-secret/rotate", s.RotateWebhookSecret)
	clients.POST("/:slug/integration/connection", s.RecordIntegrationConnection)
	clients.PUT("/:slug/integration/resources", s.RecordResourceSelection)
	clients.POST("/:slug/payments/initialize", s.InitializePayment)
	clients.GET("/:slug/payments/verify", s.VerifyPayment)
	clients.GET("/:slug/email/allowance", s.CheckEmailAllowance)
	clients.POST("/:slug/email/sends", s.RecordEmailSend)
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
