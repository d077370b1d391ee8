package db

import (
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour of the store.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// ParseDialect maps a config driver name to a Dialect. Unknown names map to SQLite.
func ParseDialect(s string) Dialect {
	switch strings.ToLower(s) {
	case "postgres", "postgresql", "pgx":
		return Postgres
	default:
		return SQLite
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite3"
}

// migrationsDir is the embedded directory holding the dialect's migrations.
func (d Dialect) migrationsDir() string {
	if d == Postgres {
		return "migrations/postgres"
	}
	return "migrations/sqlite3"
}

// Rebind rewrites "?" placeholders to "$1, $2, ..." for Postgres.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
