package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/migrations"
)

// DB wraps both GORM and sql.DB
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// Open connects to the configured database. Foreign keys are always enforced.
func Open(cfg *config.Config) (*DB, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.DBLogMode {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dialector = sqlite.New(sqlite.Config{
			DriverName: "sqlite", // modernc.org/sqlite
			DSN:        SQLiteDSN(cfg.SQLitePath),
		})
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is empty")
		}
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		// SQLite compares timestamps as text; one zone keeps the order right
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("✅ Database connected (GORM)!")
	return &DB{DB: sqlDB, GORM: gormDB}, nil
}

// SQLiteDSN builds a modernc DSN with the pragmas every connection needs.
// _txlock=immediate takes the write lock at BEGIN so busy_timeout applies
// instead of failing on lock upgrade.
func SQLiteDSN(path string) string {
	return "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_txlock=immediate"
}

func (db *DB) Close() error {
	log.Info().Msg("🔌 Closing database connection...")
	return db.DB.Close()
}

// MigrationURL returns the golang-migrate database URL for cfg.
func MigrationURL(cfg *config.Config) (string, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return "sqlite://" + cfg.SQLitePath, nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return "", errors.New("DATABASE_URL is empty")
		}
		return cfg.DatabaseURL, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
}

// NewMigrator builds a migrate instance over the embedded migrations for the
// configured driver. Callers must Close it.
func NewMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}

	url, err := MigrationURL(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.IsSQLite() {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// Migrate applies every pending up migration.
func Migrate(cfg *config.Config) error {
	m, err := NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}
