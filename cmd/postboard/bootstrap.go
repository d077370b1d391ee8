package main

import (
	"fmt"

	"github.com/xzzpig/postboard/internal/core/config"
	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/logger"
)

// loadConfig loads and validates the config, then initializes the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.InitLogger(logger.Environment(cfg.App.Environment), logger.LogLevel(cfg.Log.Level), cfg.Log.Levels)
	return cfg, nil
}

// openDB opens the configured database with the given migration mode.
func openDB(cfg *config.Config, mode db.MigrationMode) (*db.DB, error) {
	dialect := db.ParseDialect(cfg.Database.Driver)
	dsn := cfg.Database.DSN
	if dialect == db.SQLite {
		dsn = db.FileSDN(cfg.Database.Path)
	}
	return db.InitDB(db.InitDBOptions{
		Dialect:       dialect,
		DSN:           dsn,
		MigrationMode: mode,
		EnableDebug:   cfg.IsDevelopment(),
		Environment:   cfg.App.Environment,
		MaxOpenConns:  cfg.Database.MaxOpenConns,
	})
}
