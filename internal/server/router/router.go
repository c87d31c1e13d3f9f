package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/server/middleware"
	"github.com/mamadbah2/herdbook/internal/validation"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP adapters mounted under /api.
type Handlers struct {
	Cattle   *handlers.ResourceHandler[models.Cattle, models.CattleInput, models.CattlePatch]
	Breed    *handlers.ResourceHandler[models.Breed, models.BreedInput, models.BreedPatch]
	Lots     *handlers.LotHandler
	Products *handlers.ResourceHandler[models.Product, models.ProductInput, models.ProductPatch]
	Reports  *handlers.ReportHandler
	// Webhook is nil when WhatsApp queries are disabled.
	Webhook *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, db Pinger, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	// Request bodies are validated with the herd rules and may not carry
	// unknown or derived fields.
	binding.Validator = validation.New()
	binding.EnableDecoderDisallowUnknownFields = true

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.ErrorHandler(logger))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api")
	})
	r.GET("/healthz", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the herdbook API", "status": http.StatusOK})
	})

	h.Cattle.Register(api.Group("/cattle"))
	h.Breed.Register(api.Group("/breed"))
	h.Lots.Register(api.Group("/lots"))
	h.Products.Register(api.Group("/products"))
	api.GET("/reports/daily", h.Reports.Daily)

	if h.Webhook != nil {
		h.Webhook.Register(r.Group("/webhook"))
	}

	logger.Info("router initialized")

	return r
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
