package store

import (
	"context"
	"time"

	"github.com/xzzpig/postboard/internal/core/db"
)

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
}

const userColumns = "id, username, email, password, created_at"

func scanUser(s scanner) (*User, error) {
	var (
		u         User
		createdAt db.Time
	)
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Time
	return &u, nil
}

// CreateUser inserts a user. A taken username or email returns errs.ErrAlreadyExists
// joined with a *ConflictError naming the column.
func (q *Queries) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	u := &User{Username: username, Email: email, Password: passwordHash, CreatedAt: q.now()}
	err := q.exec.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?) RETURNING id",
		u.Username, u.Email, u.Password, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return nil, wrap("create user", err)
	}
	return u, nil
}

// GetUserByID returns errs.ErrNotFound when no user has the id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (*User, error) {
	u, err := scanUser(q.exec.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, wrap("get user", err)
	}
	return u, nil
}

// GetUserByUsername returns errs.ErrNotFound when the username is unknown.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(q.exec.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if err != nil {
		return nil, wrap("get user by username", err)
	}
	return u, nil
}

// UsernameExists reports whether the username is already registered.
func (q *Queries) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := q.exec.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&n)
	if err != nil {
		return false, wrap("check username", err)
	}
	return n > 0, nil
}

// GetUsersByIDs returns the users that exist among ids, in no particular order.
func (q *Queries) GetUsersByIDs(ctx context.Context, ids []int64) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.exec.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders(len(ids))+")",
		int64Args(ids)...)
	if err != nil {
		return nil, wrap("get users", err)
	}
	users, err := collect(rows, scanUser)
	return users, wrap("get users", err)
}
