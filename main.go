package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianadrielbraun/qrlogo/internal/config"
	"github.com/cristianadrielbraun/qrlogo/internal/handlers"
	"github.com/cristianadrielbraun/qrlogo/internal/logger"
	"github.com/cristianadrielbraun/qrlogo/internal/pipeline"
	"github.com/cristianadrielbraun/qrlogo/internal/qr"
	"github.com/cristianadrielbraun/qrlogo/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gen, err := pipeline.FromConfig(cfg, log)
	if err != nil {
		log.Fatal("failed to build pipeline", zap.Error(err))
	}
	defaultColor := qr.ParseHexColorOr(cfg.DefaultColor, qr.DefaultColor)

	store := session.NewStore(cfg.SessionCapacity, func(id string) *session.Controller {
		return session.NewController(id, gen, nil, defaultColor, log)
	})
	h := handlers.New(handlers.Options{
		Sessions:     store,
		Generator:    gen,
		Brand:        cfg.Brand,
		BrandName:    cfg.BrandName,
		DefaultColor: defaultColor,
		MaxLogoBytes: cfg.MaxLogoBytes,
		Logger:       log,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.NewRouter(h, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("qrlogo listening",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.Env),
			zap.String("encoder", cfg.Encoder))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
