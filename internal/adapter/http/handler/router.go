package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	redisStore "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	AnalyticsSvc   ports.AnalyticsService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	walletHandler := NewWalletHandler(deps.LedgerSvc)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsSvc)

	// API v1 routes
	v1 := r.Group("/api/v1")

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallets_create"), walletHandler.Create)
		wallets.GET("/:id", rl("wallets_read"), walletHandler.Get)
		wallets.POST("/:id/topup", rl("wallets_topup"), walletHandler.TopUp)
		wallets.POST("/:id/payments", rl("payments"), walletHandler.Pay)
		wallets.GET("/:id/transactions", rl("wallets_read"), walletHandler.ListTransactions)
		wallets.GET("/:id/audit", rl("wallets_read"), walletHandler.Audit)
		wallets.POST("/:id/reset", rl("wallets_reset"), walletHandler.Reset)

		spending := wallets.Group("/:id/spending")
		{
			spending.GET("/categories", rl("wallets_read"), analyticsHandler.Categories)
			spending.GET("/daily", rl("wallets_read"), analyticsHandler.Daily)
			spending.GET("/locations", rl("wallets_read"), analyticsHandler.Locations)
		}
	}

	return r
}
