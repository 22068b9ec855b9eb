package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daytrack/internal/config"
	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/handler"
	"github.com/daytrack/internal/router"
	"github.com/daytrack/internal/staging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.DatabaseDriver,
		Path:     cfg.DatabasePath,
		DSN:      cfg.DatabaseDSN,
		LogLevel: cfg.DatabaseLogLevel,
	}); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureOwner(db.DB, cfg.OwnerUserName, cfg.OwnerPassword); err != nil {
		log.Fatalf("failed to ensure owner account: %v", err)
	}

	store, err := staging.Open(cfg.StagingDir)
	if err != nil {
		log.Fatalf("failed to open staging directory: %v", err)
	}

	api := handler.NewAPI(db.DB, store, handler.Settings{
		LoginEnabled: cfg.LoginEnabled(),
		Timezone:     cfg.Timezone,
	})

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, router.Options{
		SessionSecret:  cfg.SessionSecret,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("[server] listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("[server] received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}

	if sqlDB, err := db.DB.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("[server] stopped")
}
