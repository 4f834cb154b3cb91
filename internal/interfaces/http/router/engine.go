package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Config tunes the engine's cross-cutting middleware
type Config struct {
	ServiceName    string
	TracingEnabled bool
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string
	IdempotencyTTL time.Duration
}

// Handlers are the endpoint sets served by the engine
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	Pricing *handler.PricingHandler
	Sale    *handler.SaleHandler
	Return  *handler.ReturnHandler
}

// Dependencies are the shared collaborators of the middleware stack.
// A nil Metrics or Idempotency turns that middleware off.
type Dependencies struct {
	Logger      *zap.Logger
	Metrics     *telemetry.HTTPMetrics
	Idempotency shared.IdempotencyStore
}

// NewEngine builds the gin engine with the middleware stack and every route
func NewEngine(cfg Config, h Handlers, deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request ID must exist before tracing and logging
	// read it, and recovery must wrap everything that can panic.
	engine.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		engine.Use(middleware.Tracing(cfg.ServiceName), middleware.SpanAttributes())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Metrics(deps.Metrics))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	idempotent := middleware.Idempotency(deps.Idempotency, cfg.IdempotencyTTL)

	r := NewRouter(engine, WithAPIVersion("v1"))

	products := NewDomainGroup("catalog", "/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.GET("/:id/quote", h.Product.Quote)
	r.Register(products)

	pricing := NewDomainGroup("pricing", "/pricing")
	pricing.POST("/discount-price", h.Pricing.DiscountPrice)
	pricing.POST("/discount-percent", h.Pricing.DiscountPercent)
	pricing.POST("/validate", h.Pricing.Validate)
	r.Register(pricing)

	sales := NewDomainGroup("trade", "/sales")
	sales.POST("", idempotent, h.Sale.Create)
	sales.GET("", h.Sale.List)
	sales.GET("/summary", h.Sale.Summary)
	sales.GET("/:id", h.Sale.GetByID)
	sales.POST("/:id/returns/preview", h.Return.Preview)
	sales.POST("/:id/returns", idempotent, h.Return.Commit)
	sales.GET("/:id/returns", h.Return.List)
	r.Register(sales)

	r.Setup()
	return engine
}
