package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/config"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/cache"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/checkout"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/handlers"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/middleware"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/services"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/upstream"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/httpclient"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/logger"
	"go.uber.org/zap"
)

// registerStudentRoutes registers the guarded student-facing routes.
func registerStudentRoutes(
	router *gin.Engine,
	cfg *config.Config,
	generalRateLimiter, paymentRateLimiter *middleware.RateLimiter,
	dashboardHandler *handlers.DashboardHandler,
	paymentHandler *handlers.PaymentHandler,
) {
	guard := middleware.SessionGuard(cfg.Session.CookieName, cfg.Session.LoginRoute)

	router.GET("/dashboard", generalRateLimiter.Middleware(), guard, dashboardHandler.GetDashboard)

	payments := router.Group("/payments")
	payments.GET("/config", generalRateLimiter.Middleware(), guard, paymentHandler.GetConfig)
	payments.POST("/checkout", paymentRateLimiter.Middleware(), guard, paymentHandler.StartCheckout)

	// Widget callbacks arrive from the checkout page after the session was
	// already checked at attempt start; they are keyed by attempt id.
	payments.POST("/checkout/:id/callback", paymentRateLimiter.Middleware(), paymentHandler.HandleCallback)
	payments.POST("/checkout/:id/cancel", paymentRateLimiter.Middleware(), paymentHandler.HandleCancel)
	payments.GET("/checkout/:id", generalRateLimiter.Middleware(), paymentHandler.GetAttempt)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting B2P student portal",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Upstream B2P API client with a bounded per-call timeout
	httpClient := httpclient.NewStandardClientWithTimeout(cfg.UpstreamTimeout())
	upstreamClient := upstream.NewClient(cfg.Upstream.BaseURL, cfg.UpstreamTimeout(), httpClient)

	// Razorpay key cache and checkout script probe
	keyCache := cache.NewKeyCache(upstreamClient, cfg.KeyCacheTTL())
	scriptLoader := checkout.NewHTTPScriptLoader(cfg.Checkout.ScriptURL, httpClient)

	// Initialize services
	dashboardService := services.NewDashboardService(upstreamClient)
	paymentService := services.NewPaymentService(upstreamClient, keyCache, scriptLoader, cfg.Checkout)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, keyCache, cfg.Checkout)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173", "http://127.0.0.1:5173")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for the session cookie
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters per endpoint type
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	paymentRateLimiter := middleware.NewRateLimiter(5, 10)    // 5 req/sec, burst of 10
	defer generalRateLimiter.Stop()
	defer paymentRateLimiter.Stop()

	// Operational endpoints
	router.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	router.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	// Login landing; the session guard redirects here
	router.GET(cfg.Session.LoginRoute, generalRateLimiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Please sign in to continue"})
	})

	registerStudentRoutes(router, cfg, generalRateLimiter, paymentRateLimiter, dashboardHandler, paymentHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
