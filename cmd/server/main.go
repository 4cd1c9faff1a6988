// Package main runs the checkout HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mentora/checkout/config"
	"github.com/mentora/checkout/internal/auth"
	"github.com/mentora/checkout/internal/catalog"
	"github.com/mentora/checkout/internal/credentials"
	"github.com/mentora/checkout/internal/entitlements"
	"github.com/mentora/checkout/internal/gateway"
	"github.com/mentora/checkout/internal/groups"
	"github.com/mentora/checkout/internal/middleware"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/internal/notifications"
	"github.com/mentora/checkout/internal/payments"
	"github.com/mentora/checkout/internal/realtime"
	"github.com/mentora/checkout/internal/webhooklog"
	"github.com/mentora/checkout/pkg/database"
	"github.com/mentora/checkout/pkg/queue"
	"github.com/mentora/checkout/pkg/redis"
	"github.com/mentora/checkout/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	jobQueue := queue.NewQueue(rdb.Client, logger)
	dispatcher := notifications.NewDispatcher(jobQueue, logger)

	gatewayOpts := gateway.Options{Timeout: cfg.Checkout.GatewayTimeout, Logger: logger}
	appmaxOpts, asaasOpts, mpOpts := gatewayOpts, gatewayOpts, gatewayOpts
	appmaxOpts.BaseURL = cfg.Gateways.AppmaxBaseURL
	asaasOpts.BaseURL = cfg.Gateways.AsaasBaseURL
	mpOpts.Sandbox = cfg.Gateways.MercadoPagoSandbox
	registry := gateway.NewRegistry(
		gateway.Appmax(appmaxOpts),
		gateway.Asaas(asaasOpts),
		gateway.MercadoPago(mpOpts),
	)

	// Storage
	credentialRepo := credentials.NewRepository(pool)
	catalogRepo := catalog.NewRepository(pool)
	entitlementRepo := entitlements.NewRepository(pool)
	webhookLogRepo := webhooklog.NewRepository(pool)
	store := payments.NewStore(pool)

	// Checkout
	service := payments.NewService(store, registry, dispatcher, payments.ServiceConfig{
		ReminderDelay: cfg.Checkout.ReminderDelay,
		WebhookURL:    cfg.Checkout.WebhookURL,
	}, logger)

	var provisioner payments.GroupProvisioner
	if cfg.Groups.BaseURL != "" {
		provisioner = groups.NewProvisioner(groups.Config{BaseURL: cfg.Groups.BaseURL, Token: cfg.Groups.Token}, catalogRepo, nil, logger)
	}
	reconciler := payments.NewReconciler(store, credentialRepo, registry, payments.ReconcilerDeps{
		Provisioner: provisioner,
		Notifier:    dispatcher,
		Publisher:   hub,
		Events:      webhookLogRepo,
		Archiver:    jobQueue,
	}, logger)

	paymentHandler := payments.NewHandler(service, reconciler, credentialRepo, logger)
	entitlementHandler := entitlements.NewHandler(entitlementRepo, logger)
	webhookLogHandler := webhooklog.NewHandler(webhookLogRepo, logger)

	authorize := func(c *gin.Context, token string, paymentID int64) (uuid.UUID, *models.Payment, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, nil, err
		}
		p, err := service.GetPayment(c.Request.Context(), paymentID, claims.UserID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		return claims.UserID, p, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Gateway callbacks (no JWT; token header checked against the active credentials)
	router.POST("/payments/:id/status", paymentHandler.Webhook)

	// WebSocket (token in query; no Authorization header required)
	router.GET("/payments/:id/ws", realtime.ServeWs(hub, logger, authorize))

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/payments/create", paymentHandler.Create)
		api.GET("/payments/:id", paymentHandler.Get)
		api.GET("/me/products", entitlementHandler.Mine)

		api.GET("/admin/webhooks/failures", middleware.RequireRole(auth.RoleAdmin), webhookLogHandler.ListFailures)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
