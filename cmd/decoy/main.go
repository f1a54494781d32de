package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/glasswing-labs/decoy/internal/analyst"
	"github.com/glasswing-labs/decoy/internal/api"
	"github.com/glasswing-labs/decoy/internal/bus"
	"github.com/glasswing-labs/decoy/internal/callback"
	"github.com/glasswing-labs/decoy/internal/config"
	"github.com/glasswing-labs/decoy/internal/gemini"
	"github.com/glasswing-labs/decoy/internal/observability"
	"github.com/glasswing-labs/decoy/internal/processor"
	"github.com/glasswing-labs/decoy/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("decoy starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gemini client
	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	slog.Info("gemini client ready", "model", cfg.GeminiModel)

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	// Analyst
	a := analyst.New(llm, slog.Default(),
		analyst.WithRetry(cfg.ProviderAttempts, cfg.ProviderBackoff, cfg.ProviderTimeout),
		analyst.WithMetrics(metrics),
	)
	slog.Info("analyst ready", "max_latency", a.MaxLatency())

	procOpts := []processor.Option{processor.WithMetrics(metrics)}

	// Database (optional — analysis works without the archive)
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		procOpts = append(procOpts, processor.WithStore(db))
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — running without decision archive")
	}

	// NATS (optional)
	if cfg.NatsURL != "" {
		busClient, err := bus.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer busClient.Close()
		procOpts = append(procOpts, processor.WithBus(busClient))
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set — running without event bus")
	}

	// Result callback (optional — without it verdicts stay local)
	if cfg.CallbackURL != "" {
		notifier := callback.NewNotifier(cfg.CallbackURL, cfg.CallbackTimeout, slog.Default())
		procOpts = append(procOpts, processor.WithNotifier(notifier))
		slog.Info("callback notifier ready", "url", cfg.CallbackURL)
	} else {
		slog.Warn("CALLBACK_URL not set — running without result callbacks")
	}

	proc := processor.New(a, slog.Default(), procOpts...)

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, proc, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("decoy ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("decoy stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
