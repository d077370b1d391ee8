// Package db provides database initialization and connection management.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql, registered as "pgx"
	_ "github.com/mattn/go-sqlite3"    // SQLite driver for database/sql
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/logger"
)

// log returns a named logger for the db package.
func log() *zap.Logger {
	return logger.Named("core.db")
}

// Executor is the narrow query surface the store depends on.
// Statements use "?" placeholders; implementations rebind them for the active dialect.
// Values are always passed positionally, never interpolated.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InitDBOptions contains options for database initialization.
type InitDBOptions struct {
	Dialect       Dialect       // SQLite or Postgres
	DSN           string        // e.g. FileSDN("postboard.db") or a postgres:// URL
	MigrationMode MigrationMode // Migration mode (versioned or skip)
	EnableDebug   bool          // Log every statement at debug level under core.db.query
	Environment   string        // Application environment (for migrations)
	MaxOpenConns  int
}

// DB is a *sql.DB bound to a dialect.
type DB struct {
	sql     *sql.DB
	dialect Dialect
	debug   bool
}

var _ Executor = (*DB)(nil)

// InitDB opens the database, verifies the connection and runs migrations.
func InitDB(opts InitDBOptions) (*DB, error) {
	sqlDB, err := sql.Open(opts.Dialect.DriverName(), opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", opts.Dialect, err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to reach %s: %w", opts.Dialect, err)
	}

	d := &DB{sql: sqlDB, dialect: opts.Dialect, debug: opts.EnableDebug}

	switch opts.MigrationMode {
	case MigrationModeSkip:
		log().Info("Skipping migrations", zap.String("mode", string(opts.MigrationMode)))
	default:
		log().Info("Using versioned migration mode", zap.String("dialect", string(opts.Dialect)))
		if err := Migrate(d, opts.Environment); err != nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				log().Warn("Failed to close database after migration error", zap.Error(closeErr))
			}
			return nil, fmt.Errorf("failed to run versioned migrations: %w", err)
		}
		LogMigrationStatus(d)
	}

	if opts.EnableDebug {
		log().Info("Database initialized with SQL query logging enabled")
	}

	return d, nil
}

// CloseDB closes the database connection.
func CloseDB(d *DB) {
	if d != nil {
		_ = d.sql.Close()
	}
}

// Dialect reports the SQL dialect the handle speaks.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// SQL exposes the underlying pool, for migrations and health checks.
func (d *DB) SQL() *sql.DB {
	return d.sql
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = d.prepare(query, args)
	return d.sql.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = d.prepare(query, args)
	return d.sql.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = d.prepare(query, args)
	return d.sql.QueryRowContext(ctx, query, args...)
}

func (d *DB) prepare(query string, args []any) string {
	query = d.dialect.Rebind(query)
	if d.debug {
		logger.Named("core.db.query").Debug("exec", zap.String("sql", query), zap.Int("args", len(args)))
	}
	return query
}

// Tx is a transaction bound to the same dialect as the DB that began it.
type Tx struct {
	tx *sql.Tx
	db *DB
}

var _ Executor = (*Tx)(nil)

func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.db.prepare(query, args), args...)
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.db.prepare(query, args), args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.db.prepare(query, args), args...)
}

// InTx runs fn inside a transaction, committing when fn returns nil and rolling back otherwise.
// A panic in fn rolls back and is re-raised.
func (d *DB) InTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	tx := &Tx{tx: sqlTx, db: d}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log().Warn("Failed to roll back transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// FileSDN constructs a SQLite DSN for a file-based database with common parameters.
// cache=shared is not used: its table-level locks return SQLITE_LOCKED, which busy_timeout does not retry.
// _txlock=immediate makes read-then-write transactions (the like toggle) wait on busy_timeout
// instead of failing with SQLITE_BUSY on lock upgrade.
func FileSDN(path string) string {
	return fmt.Sprintf("file:%s?_fk=1&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", path)
}

// InMemoryDSN returns the DSN for a named in-memory SQLite database.
// Connections opened with the same name share the database.
func InMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1&_busy_timeout=5000", name)
}
