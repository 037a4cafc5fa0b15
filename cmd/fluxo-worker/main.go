package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fluxo/internal/amqp"
	"fluxo/internal/config"
	applog "fluxo/internal/log"
	"fluxo/internal/sheets"
	"fluxo/internal/sheets/csvfile"
	gsheet "fluxo/internal/sheets/google"
	"fluxo/internal/storage"
	"fluxo/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker).
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting fluxo-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	csvWriter, err := csvfile.NewWriter(cfg.CSVExportDir)
	if err != nil {
		logger.Error("Failed to initialize CSV export", "error", err, "dir", cfg.CSVExportDir)
		os.Exit(1)
	}
	targets := []sheets.SnapshotWriter{csvWriter}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleLedgerSheet, cfg.GoogleExpensesSheet)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		targets = append(targets, sheetsClient)
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(repo, targets...)

	// Catch up on anything that changed while the worker was down.
	if err := exportWorker.Export(ctx); err != nil {
		logger.Error("Startup export failed", "error", err)
		// Keep running; the next sync message retries.
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			err := amqpClient.ConsumeLedgerSync(ctx, func(msg *amqp.LedgerSyncMessage) error {
				return exportWorker.HandleSyncMessage(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Error("Consumer stopped, retrying", "error", err, "retry_in", cfg.ConsumeRetryInterval)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(cfg.ConsumeRetryInterval):
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
