package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mesto-api/internal/bootstrap"
	"mesto-api/internal/config"
	"mesto-api/internal/logging"
	httptransport "mesto-api/internal/transport/http"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fatal(ctx, logging.New(os.Stderr, "info", "mesto-api"), "load config failed", err)
	}
	logger := logging.New(os.Stdout, cfg.App.LogLevel, cfg.App.Name)

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		fatal(ctx, logger, "bootstrap failed", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "close resources failed", "error", err)
		}
	}()

	handler, err := httptransport.NewHandler(app)
	if err != nil {
		fatal(ctx, logger, "build router failed", err)
	}
	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "addr", server.Addr, "env", cfg.App.Env, "db", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(ctx, logger, "server failed", err)
		}
	}()

	waitForShutdown(ctx, server, logger)
}

func waitForShutdown(ctx context.Context, server *http.Server, logger logging.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info(ctx, "shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown failed", "error", err)
	}
}

func fatal(ctx context.Context, logger logging.Logger, msg string, err error) {
	logger.Error(ctx, msg, "error", err)
	os.Exit(1)
}
