// Command sales-import loads sale rows into the database without going
// through the HTTP API. It reads either a local spreadsheet file or a
// Google Sheets range and runs the same import pipeline as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/huyhoang1996vn/zinc-assignment/internal/amqp"
	"github.com/huyhoang1996vn/zinc-assignment/internal/config"
	applog "github.com/huyhoang1996vn/zinc-assignment/internal/log"
	"github.com/huyhoang1996vn/zinc-assignment/internal/services"
	"github.com/huyhoang1996vn/zinc-assignment/internal/sheets"
	"github.com/huyhoang1996vn/zinc-assignment/internal/storage"
)

func main() {
	var (
		filePath   = flag.String("file", "", "path to a .csv or .xlsx sales file")
		sheetRange = flag.String("range", "", "Google Sheets A1 range to import (default GOOGLE_SHEET_RANGE)")
	)
	flag.Parse()

	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentImporter)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	if *filePath == "" && *sheetRange == "" && cfg.GoogleSpreadsheetID == "" {
		fmt.Fprintln(os.Stderr, "usage: sales-import -file <path> | -range <A1 range>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// The CLI always migrates first: a one-shot import against a stale
	// schema has nothing to fall back to.
	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Migrations failed", applog.FieldOperation, applog.OpMigrate, applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP broker unavailable, continuing without import events", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	svc := services.NewImportService(repo, publisher)
	ctx := context.Background()

	var total int64
	if *filePath != "" {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			logger.Error("Failed to read file", applog.FieldError, err, applog.FieldFilename, *filePath)
			os.Exit(1)
		}
		total, err = svc.ImportFile(ctx, filepath.Base(*filePath), data)
		if err != nil {
			logger.Error("Import failed", applog.FieldError, err, applog.FieldFilename, *filePath)
			os.Exit(1)
		}
	} else {
		readRange := *sheetRange
		if readRange == "" {
			readRange = cfg.GoogleSheetRange
		}

		client, err := sheets.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		table, err := client.FetchTable(ctx, readRange)
		if err != nil {
			logger.Error("Failed to fetch sheet range", applog.FieldError, err, "range", readRange)
			os.Exit(1)
		}
		total, err = svc.ImportTable(ctx, readRange, table)
		if err != nil {
			logger.Error("Import failed", applog.FieldError, err, "range", readRange)
			os.Exit(1)
		}
	}

	fmt.Printf("imported_rows: %d\n", total)
}
