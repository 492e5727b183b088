package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Migration startup policies. fail-open logs a migration error and keeps
// serving; fail-fast refuses to start.
const (
	MigrateFailOpen = "fail-open"
	MigrateFailFast = "fail-fast"
)

type Config struct {
	// HTTP server
	Port           string
	MaxUploadBytes int64

	// Database
	SQLiteDBPath  string
	MigratePolicy string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets import source (CLI importer)
	GoogleSpreadsheetID string
	GoogleSheetRange    string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 32<<20),

		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/sales.db"),
		MigratePolicy: getEnv("MIGRATE_POLICY", MigrateFailOpen),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "sales"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "import_events"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:    getEnv("GOOGLE_SHEET_RANGE", "Sales!A1:Z"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.MaxUploadBytes < 1 {
		errs = append(errs, fmt.Sprintf("invalid max upload bytes %d: must be at least 1", c.MaxUploadBytes))
	}

	if c.MigratePolicy != MigrateFailOpen && c.MigratePolicy != MigrateFailFast {
		errs = append(errs, fmt.Sprintf("invalid migrate policy '%s': must be '%s' or '%s'",
			c.MigratePolicy, MigrateFailOpen, MigrateFailFast))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
