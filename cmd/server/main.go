package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/echowrite/server/internal/config"
	"codeberg.org/echowrite/server/internal/logger"
)

// @title EchoWrite API
// @version 1.0
// @description AI writing relay: style variations, translations, rephrasings,
// @description length variations and diagram generation with per-user usage limits

// @contact.name API Support
// @contact.url https://codeberg.org/echowrite/server

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token for authenticated requests. Format: Bearer {token}

func main() {
	logger.Info("starting echowrite server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.FatalErr(err, "failed to load configuration")
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)

	srv, err := NewServer(startCtx, cfg)
	startCancel()

	if err != nil {
		logger.FatalErr(err, "failed to create server")
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// generations can take a while upstream
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalErr(err, "server failed to start")
		}
	}()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.ErrorErr(err, "server forced to shutdown")
	}

	srv.Close()

	logger.Info("server stopped")
}
