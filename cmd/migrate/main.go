package main

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/utils"
)

func main() {
	var command string

	flag.StringVar(&command, "cmd", "up", "Migration command (up, down, steps, version, force)")
	flag.Parse()

	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel)

	target := cfg.SQLitePath
	if !cfg.IsSQLite() {
		target = maskDatabaseURL(cfg.DatabaseURL)
	}
	utils.LogInfo("🔄 Running loyalty migrations", map[string]interface{}{
		"driver":   cfg.DBDriver,
		"database": target,
	})

	m, err := database.NewMigrator(cfg)
	if err != nil {
		fatal("❌ Failed to create migrate instance", err)
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatal("❌ Migration UP failed", err)
		}
		utils.LogInfo("✅ Migrations UP completed!", nil)

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatal("❌ Migration DOWN failed", err)
		}
		utils.LogInfo("✅ Migrations DOWN completed!", nil)

	case "steps":
		n, err := intArg()
		if err != nil {
			fatal("❌ Please provide a step count for steps command", err)
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fatal("❌ Migration steps failed", err)
		}
		utils.LogInfo("✅ Migration steps applied", map[string]interface{}{"steps": n})

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			fatal("❌ Failed to get version", err)
		}
		fields := map[string]interface{}{"version": version, "dirty": dirty}
		if dirty {
			utils.LogWarn("⚠️ Schema is dirty, fix it then run -cmd force", fields)
		} else {
			utils.LogInfo("📌 Current version", fields)
		}

	case "force":
		v, err := intArg()
		if err != nil {
			fatal("❌ Please provide version number for force command", err)
		}
		if err := m.Force(v); err != nil {
			fatal("❌ Force failed", err)
		}
		utils.LogInfo("✅ Forced version", map[string]interface{}{"version": v})

	default:
		fatal("❌ Unknown command (use: up, down, steps, version, force)", errors.New(command))
	}
}

func intArg() (int, error) {
	if flag.NArg() < 1 {
		return 0, errors.New("missing argument")
	}
	return strconv.Atoi(flag.Arg(0))
}

func fatal(msg string, err error) {
	utils.LogError(msg, err, nil)
	os.Exit(1)
}

// maskDatabaseURL hides password in database URL for logging
func maskDatabaseURL(url string) string {
	if len(url) < 30 {
		return "***"
	}
	return url[:20] + "***" + url[len(url)-10:]
}
