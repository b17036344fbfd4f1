package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"waitlist_ledger/internal/api"
	"waitlist_ledger/internal/metrics"
	"waitlist_ledger/internal/middleware"
	"waitlist_ledger/internal/notify"
	"waitlist_ledger/internal/repository"
	"waitlist_ledger/internal/service"
	"waitlist_ledger/pkg/auth"
	"waitlist_ledger/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		zapLogger.Fatal("Failed to apply schema", zap.Error(err))
	}

	metrics.MustRegister()

	feed := service.NewFeed(0)
	publishers := []service.EventPublisher{feed}
	if cfg.Telegram.Enabled() {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram)
		if err != nil {
			zapLogger.Fatal("Failed to initialize telegram notifier", zap.Error(err))
		}
		defer notifier.Close()
		publishers = append(publishers, notifier)
	}

	codes := service.NewCodeGenerator(cfg.Waitlist.CodeConfig)
	waitlistService := service.NewWaitlistService(repo, codes, cfg.Waitlist.LeaderboardLimit, publishers...)

	if cfg.Waitlist.AdminToken == "" {
		zapLogger.Warn("admin token is not configured, admin listing is disabled")
	}
	authorization := middleware.NewAuthorization(auth.NewAdminToken(cfg.Waitlist.AdminToken))

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
	}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if err := repo.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	a := router.Group("/api")
	api.NewWaitlistRoutes(a, waitlistService, authorization, cfg.Waitlist.PublicURL)
	api.NewFeedRoutes(a, feed)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}
