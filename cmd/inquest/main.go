package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/vietddude/inquest/internal/core/config"
	"github.com/vietddude/inquest/internal/export"
	"github.com/vietddude/inquest/internal/infra/backend"
	"github.com/vietddude/inquest/internal/infra/metrics"
	"github.com/vietddude/inquest/internal/research"
	"github.com/vietddude/stylelog"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	subject := flag.String("subject", "", "Initial research subject")
	steps := flag.Int("steps", 3, "Number of research steps to run")
	outDir := flag.String("out", "", "Output directory (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Serve /metrics and /health on this address during the run")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load Configuration first (before setting up logger)
	cfg, err := config.Load(*configPath)
	if err != nil {
		// Fall back to default logger for config load errors
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(
		&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})

	if *subject == "" {
		slog.Error("A research subject is required (-subject)")
		os.Exit(1)
	}
	if *steps < 1 || *steps > cfg.Research.MaxSteps {
		slog.Error("Step count out of range", "steps", *steps, "max", cfg.Research.MaxSteps)
		os.Exit(1)
	}

	// SIGINT/SIGTERM cancels the run, including mid-backoff waits.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional metrics endpoint for long runs
	if *metricsAddr != "" {
		srv := metrics.NewServer(*metricsAddr)
		go func() {
			if err := srv.Start(); err != nil && ctx.Err() == nil {
				slog.Warn("Metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				slog.Warn("Error stopping metrics server", "error", err)
			}
		}()
		slog.Info("Metrics server listening", "addr", *metricsAddr)
	}

	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.APIKey, cfg.Backend.Timeout)
	runner, err := research.NewRunner(client, cfg.Retry.Policy())
	if err != nil {
		slog.Error("Failed to initialize runner", "error", err)
		os.Exit(1)
	}

	session, runErr := runner.Run(ctx, *subject, *steps)
	if session == nil {
		slog.Error("Research run failed", "error", runErr)
		os.Exit(1)
	}

	slog.Info("Session finished",
		"session", session.ID,
		"steps", len(session.Steps),
		"termination", string(session.Termination),
	)

	// Export whatever completed, even after an abort.
	dir := cfg.Research.OutputDir
	if *outDir != "" {
		dir = *outDir
	}
	if len(session.Steps) > 0 {
		writer, err := export.NewWriter(dir)
		if err != nil {
			slog.Error("Failed to create output directory", "error", err)
			os.Exit(1)
		}
		reportPath, err := writer.Write(session)
		if err != nil {
			slog.Error("Failed to export session", "error", err)
			os.Exit(1)
		}
		slog.Info("Session exported", "report", reportPath)
	}

	if runErr != nil {
		slog.Error("Session aborted", "error", runErr)
		os.Exit(1)
	}
}
