package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Storage
	DataBackend  string
	SQLiteDBPath string

	// AMQP; an empty URL disables event publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Workers
	ExportBatchSize   int
	ExportInterval    time.Duration
	RecurringInterval time.Duration
	// MetricsAddr is where the background workers serve /metrics.
	MetricsAddr string

	LogLevel string
	// Timezone names the IANA location used for calendar boundaries.
	Timezone string
}

var validBackends = []string{"memory", "sqlite"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8081")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("DATA_BACKEND", "memory")
	v.SetDefault("SQLITE_DB_PATH", "./data/portfolio.db")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "portfolio")
	v.SetDefault("AMQP_QUEUE", "expense_events")
	v.SetDefault("GOOGLE_SPREADSHEET_ID", "")
	v.SetDefault("GOOGLE_SHEET_NAME", "Expenses")
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	v.SetDefault("EXPORT_BATCH_SIZE", 20)
	v.SetDefault("EXPORT_INTERVAL", "1m")
	v.SetDefault("RECURRING_INTERVAL", "1h")
	v.SetDefault("METRICS_ADDR", ":9091")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Local")
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Port:               v.GetString("PORT"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),

		DataBackend:  strings.ToLower(strings.TrimSpace(v.GetString("DATA_BACKEND"))),
		SQLiteDBPath: v.GetString("SQLITE_DB_PATH"),

		AMQPURL:      v.GetString("AMQP_URL"),
		AMQPExchange: v.GetString("AMQP_EXCHANGE"),
		AMQPQueue:    v.GetString("AMQP_QUEUE"),

		GoogleSpreadsheetID:      v.GetString("GOOGLE_SPREADSHEET_ID"),
		GoogleSheetName:          v.GetString("GOOGLE_SHEET_NAME"),
		GoogleServiceAccountFile: v.GetString("GOOGLE_SERVICE_ACCOUNT_FILE"),
		GoogleServiceAccountJSON: v.GetString("GOOGLE_SERVICE_ACCOUNT_JSON"),

		ExportBatchSize:   v.GetInt("EXPORT_BATCH_SIZE"),
		ExportInterval:    v.GetDuration("EXPORT_INTERVAL"),
		RecurringInterval: v.GetDuration("RECURRING_INTERVAL"),
		MetricsAddr:       v.GetString("METRICS_ADDR"),

		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		Timezone: v.GetString("TIMEZONE"),
	}
}

// Location resolves Timezone; callers should run Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimitPerMinute))
	}

	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}

	if c.ExportBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid export batch size %d: must be at least 1", c.ExportBatchSize))
	} else if c.ExportBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid export batch size %d: must be at most 1000", c.ExportBatchSize))
	}

	for name, d := range map[string]time.Duration{"export": c.ExportInterval, "recurring": c.RecurringInterval} {
		if d < time.Second {
			errors = append(errors, fmt.Sprintf("invalid %s interval %v: must be at least 1 second", name, d))
		} else if d > 24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid %s interval %v: must be at most 24 hours", name, d))
		}
	}

	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid metrics address '%s': %v", c.MetricsAddr, err))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateExport checks the settings the export worker cannot run without.
func (c *Config) ValidateExport() error {
	var missing []string
	if c.GoogleSpreadsheetID == "" {
		missing = append(missing, "GOOGLE_SPREADSHEET_ID")
	}
	if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON")
	}
	if len(missing) > 0 {
		return fmt.Errorf("export worker requires %s", strings.Join(missing, ", "))
	}
	return nil
}
