// Package store holds the typed queries behind the GraphQL resolvers.
// Every method runs against a db.Executor, so the same Queries value works on
// the pool or inside a transaction.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/logger"
)

func log() *zap.Logger {
	return logger.Named("core.store")
}

// Queries runs the store's statements on an executor.
type Queries struct {
	exec db.Executor
	now  func() time.Time
}

// New returns Queries bound to exec (a *db.DB or *db.Tx).
func New(exec db.Executor) *Queries {
	return &Queries{exec: exec, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock returns a copy of q that stamps created_at with now.
func (q *Queries) WithClock(now func() time.Time) *Queries {
	return &Queries{exec: q.exec, now: now}
}

// ConflictError names the columns whose uniqueness was violated.
type ConflictError struct {
	Columns string
}

func (e *ConflictError) Error() string {
	return "unique constraint violated on " + e.Columns
}

// AsConflict extracts the ConflictError from err.
func AsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// wrap maps driver errors onto the errs sentinels.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Join(errs.ErrNotFound, err)
	}
	if cols, ok := db.UniqueViolation(err); ok {
		return errors.Join(errs.ErrAlreadyExists, &ConflictError{Columns: cols})
	}
	log().Debug("store operation failed", zap.String("op", op), zap.Error(err))
	return errors.Join(errs.ErrSystem, fmt.Errorf("%s: %w", op, err))
}

// placeholders returns "?, ?, ?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// collect drains rows with scan, closing them.
func collect[T any](rows *sql.Rows, scan func(scanner) (*T, error)) ([]*T, error) {
	defer rows.Close()
	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
