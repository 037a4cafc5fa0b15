package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables the sync pipeline)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Snapshot export
	CSVExportDir string

	// Google Sheets export (optional)
	GoogleSpreadsheetID string
	GoogleLedgerSheet   string
	GoogleExpensesSheet string

	// Worker
	ConsumeRetryInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fluxo.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fluxo"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_sync"),

		CSVExportDir: getEnv("CSV_EXPORT_DIR", "./data"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleLedgerSheet:   getEnv("GOOGLE_LEDGER_SHEET", "Transações"),
		GoogleExpensesSheet: getEnv("GOOGLE_EXPENSES_SHEET", "Gastos Fixos"),

		ConsumeRetryInterval: getEnvDuration("CONSUME_RETRY_INTERVAL", 5*time.Second),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
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
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CSVExportDir == "" {
		errs = append(errs, "CSV export directory cannot be empty")
	}

	if c.GoogleSpreadsheetID != "" {
		if c.GoogleLedgerSheet == "" {
			errs = append(errs, "Google ledger sheet name cannot be empty when a spreadsheet ID is provided")
		}
		if c.GoogleExpensesSheet == "" {
			errs = append(errs, "Google expenses sheet name cannot be empty when a spreadsheet ID is provided")
		}
	}

	if c.ConsumeRetryInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid consume retry interval %v: must be at least 1 second", c.ConsumeRetryInterval))
	} else if c.ConsumeRetryInterval > time.Hour {
		errs = append(errs, fmt.Sprintf("invalid consume retry interval %v: must be at most 1 hour", c.ConsumeRetryInterval))
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
