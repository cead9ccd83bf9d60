package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appconnector "github.com/channelgrid/backend/internal/application/connector"
	"github.com/channelgrid/backend/internal/domain/connector"
	"github.com/channelgrid/backend/internal/infrastructure/config"
	"github.com/channelgrid/backend/internal/infrastructure/logger"
	"github.com/channelgrid/backend/internal/infrastructure/marketplace"
	"github.com/channelgrid/backend/internal/interfaces/http/handler"
	"github.com/channelgrid/backend/internal/interfaces/http/middleware"
	"github.com/channelgrid/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace connector",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("sandbox", cfg.Marketplace.Sandbox),
	)

	factory := marketplace.NewConnectorFactory(log, marketplace.FactoryOptions{
		Sandbox: cfg.Marketplace.Sandbox,
		Defaults: connector.Settings{
			ErrorRetryAttempts: cfg.Marketplace.RetryAttempts,
			TimeoutSeconds:     int(cfg.Marketplace.RequestTimeout / time.Second),
		},
		RetryDelay:       cfg.Marketplace.RetryDelay,
		BatchConcurrency: cfg.Marketplace.BatchConcurrency,
	})
	service := appconnector.NewConnectionService(factory, log,
		appconnector.WithOrderWindow(cfg.Marketplace.DefaultOrderWindow))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	r := router.NewRouter(engine)
	r.Register(handler.NewConnectorHandler(service, factory, log))
	r.Register(handler.NewSystemHandler())
	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
