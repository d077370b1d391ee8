package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// UniqueViolation reports whether err is a unique constraint failure and, if so,
// which columns collided, normalised as "username" or "user_id,post_id".
func UniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique &&
			sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
			return "", false
		}
		// "UNIQUE constraint failed: likes.user_id, likes.post_id"
		msg := sqliteErr.Error()
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
		return normaliseColumns(msg, true), true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		// "Key (user_id, post_id)=(1, 2) already exists."
		detail := pgErr.Detail
		start, end := strings.Index(detail, "("), strings.Index(detail, ")")
		if start < 0 || end <= start {
			return pgErr.ConstraintName, true
		}
		return normaliseColumns(detail[start+1:end], false), true
	}

	return "", false
}

func normaliseColumns(list string, stripTable bool) string {
	parts := strings.Split(list, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if stripTable {
			if dot := strings.LastIndex(p, "."); dot >= 0 {
				p = p[dot+1:]
			}
		}
		parts[i] = p
	}
	return strings.Join(parts, ",")
}
