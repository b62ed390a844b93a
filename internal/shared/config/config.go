package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env      string
	LogLevel string

	// Database
	DBDriver    string // "sqlite" or "postgres"
	DatabaseURL string // postgres connection string
	SQLitePath  string
	DBLogMode   bool

	// Reconciliation
	VATRate           decimal.Decimal
	DefaultPostalCode string
	DefaultCountry    string
	DefaultCardTier   string
	PlaceholderSeed   uint64

	// Background intake
	ReceiptQueue       string
	WorkerConcurrency  int
	WorkerPollInterval time.Duration
	JobTimeout         time.Duration
	JobRetention       time.Duration
	JobCleanupSchedule string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Env:                os.Getenv("ENV"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		DBDriver:           strings.ToLower(os.Getenv("DB_DRIVER")),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         os.Getenv("SQLITE_PATH"),
		DBLogMode:          os.Getenv("DB_LOG_MODE") == "true",
		DefaultPostalCode:  os.Getenv("DEFAULT_POSTAL_CODE"),
		DefaultCountry:     os.Getenv("DEFAULT_COUNTRY"),
		DefaultCardTier:    strings.ToLower(os.Getenv("DEFAULT_CARD_TIER")),
		ReceiptQueue:       os.Getenv("RECEIPT_QUEUE"),
		JobCleanupSchedule: os.Getenv("JOB_CLEANUP_SCHEDULE"),
	}

	// Default values
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DBDriver == "" {
		// A postgres URL wins over the embedded database
		if cfg.DatabaseURL != "" {
			cfg.DBDriver = "postgres"
		} else {
			cfg.DBDriver = "sqlite"
		}
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "data/loyalty.db"
	}
	if cfg.DefaultPostalCode == "" {
		cfg.DefaultPostalCode = "75000"
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = "France"
	}

	cfg.VATRate = decimal.NewFromFloat(0.20)
	if raw := os.Getenv("VAT_RATE"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() {
			log.Printf("⚠️ Invalid VAT_RATE %q, keeping %s", raw, cfg.VATRate)
		} else {
			cfg.VATRate = rate
		}
	}

	if raw := os.Getenv("PLACEHOLDER_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			log.Printf("⚠️ Invalid PLACEHOLDER_SEED %q, using a random seed", raw)
		} else {
			cfg.PlaceholderSeed = seed
		}
	}

	if cfg.DefaultCardTier == "" {
		cfg.DefaultCardTier = "bronze"
	}
	if cfg.ReceiptQueue == "" {
		cfg.ReceiptQueue = "receipts"
	}
	if cfg.JobCleanupSchedule == "" {
		cfg.JobCleanupSchedule = "0 0 3 * * *"
	}

	cfg.WorkerConcurrency = 4
	if raw := os.Getenv("WORKER_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Printf("⚠️ Invalid WORKER_CONCURRENCY %q, keeping %d", raw, cfg.WorkerConcurrency)
		} else {
			cfg.WorkerConcurrency = n
		}
	}

	cfg.WorkerPollInterval = durationEnv("WORKER_POLL_INTERVAL", time.Second)
	cfg.JobTimeout = durationEnv("JOB_TIMEOUT", 2*time.Minute)
	cfg.JobRetention = durationEnv("JOB_RETENTION", 7*24*time.Hour)

	return cfg
}

// durationEnv reads a Go duration ("1s", "168h"); bad or non-positive values
// fall back to def.
func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("⚠️ Invalid %s %q, keeping %s", key, raw, def)
		return def
	}
	return d
}

// IsSQLite reports whether the embedded database is selected.
func (c *Config) IsSQLite() bool {
	return c.DBDriver == "sqlite"
}
