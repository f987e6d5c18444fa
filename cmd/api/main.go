package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kirillkom/trialsage/internal/adapters/http"
	"github.com/kirillkom/trialsage/internal/bootstrap"
	"github.com/kirillkom/trialsage/internal/config"
	"github.com/kirillkom/trialsage/internal/observability/logging"
	"github.com/kirillkom/trialsage/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Service:       "api",
		Logger:        logger,
		WithGenerator: true,
	})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	router, err := httpadapter.NewRouter(cfg, httpadapter.Dependencies{
		Summarizer:     app.SummarizeUC,
		Reports:        app.Reports,
		Metrics:        metrics.NewHTTPServerMetrics(app.Registry, "api"),
		MetricsHandler: metrics.Handler(app.Registry),
		Logger:         logger,
	})
	if err != nil {
		logger.Error("router_init_failed", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLMTimeout() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "addr", server.Addr, "provider", cfg.LLMProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_failed", "error", err)
	}
}
