package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/sqlite3/*.sql migrations/postgres/*.sql
var migrations embed.FS

// MigrationMode represents the database migration mode.
type MigrationMode string

const (
	// MigrationModeVersioned applies the embedded versioned migrations on startup.
	MigrationModeVersioned MigrationMode = "versioned"
	// MigrationModeSkip leaves the schema alone; run `postboard migrate up` separately.
	MigrationModeSkip MigrationMode = "skip"
)

// ParseMigrationMode parses a string to MigrationMode.
// Returns MigrationModeVersioned for unknown values.
func ParseMigrationMode(s string) MigrationMode {
	switch s {
	case "skip":
		return MigrationModeSkip
	default:
		return MigrationModeVersioned
	}
}

// migrateLogger implements migrate.Logger interface for golang-migrate.
type migrateLogger struct {
	environment string
}

// Printf logs migration messages.
func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log().Info(fmt.Sprintf(format, v...))
}

// Verbose returns true if verbose logging is enabled.
func (l *migrateLogger) Verbose() bool {
	return l.environment == "development"
}

// newMigrate builds a migrate instance over the embedded files for d's dialect.
// The returned instance must not be closed: closing it closes d's pool.
func newMigrate(d *DB) (*migrate.Migrate, source.Driver, error) {
	src, err := iofs.New(migrations, d.dialect.migrationsDir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	var (
		driver database.Driver
		name   string
	)
	switch d.dialect {
	case Postgres:
		driver, err = migratepgx.WithInstance(d.sql, &migratepgx.Config{})
		name = "pgx5"
	default:
		driver, err = sqlite3.WithInstance(d.sql, &sqlite3.Config{})
		name = "sqlite3"
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, src, nil
}

// Migrate executes database migrations from embedded SQL files.
// The environment parameter is used for logging verbosity control.
func Migrate(d *DB, environment string) error {
	m, _, err := newMigrate(d)
	if err != nil {
		return err
	}
	m.Log = &migrateLogger{environment: environment}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log().Info("No pending migrations")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	log().Info("Migrations completed successfully")
	return nil
}

// MigrationStatus represents the current migration status.
type MigrationStatus struct {
	Version uint   // Current migration version
	Dirty   bool   // Whether the database is in a dirty state
	Pending []uint // Versions available but not applied
}

// GetMigrationStatus returns the current version and the pending versions.
func GetMigrationStatus(d *DB) (*MigrationStatus, error) {
	m, src, err := newMigrate(d)
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{}
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		// No migrations have been applied yet
	case err != nil:
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	default:
		status.Version, status.Dirty = version, dirty
	}

	next, err := src.First()
	for err == nil {
		if next > status.Version {
			status.Pending = append(status.Pending, next)
		}
		next, err = src.Next(next)
	}

	return status, nil
}

// LogMigrationStatus logs the current migration status.
func LogMigrationStatus(d *DB) {
	status, err := GetMigrationStatus(d)
	if err != nil {
		log().Warn("Failed to get migration status", zap.Error(err))
		return
	}

	log().Info("Database migration status",
		zap.Uint("current_version", status.Version),
		zap.Bool("dirty", status.Dirty),
		zap.Int("pending_count", len(status.Pending)),
	)
}
