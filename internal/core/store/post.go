package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/xzzpig/postboard/internal/core/db"
)

// Post is a post row joined with its owner's username.
type Post struct {
	ID        int64
	Body      string
	UserID    int64
	Username  string
	CreatedAt time.Time
}

const postSelect = `SELECT p.id, p.body, p.user_id, u.username, p.created_at
FROM posts p JOIN users u ON u.id = p.user_id`

func scanPost(s scanner) (*Post, error) {
	var (
		p         Post
		createdAt db.Time
	)
	if err := s.Scan(&p.ID, &p.Body, &p.UserID, &p.Username, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.Time
	return &p, nil
}

// ListPosts returns at most limit posts, newest first.
func (q *Queries) ListPosts(ctx context.Context, limit int) ([]*Post, error) {
	rows, err := q.exec.QueryContext(ctx,
		postSelect+" ORDER BY p.created_at DESC, p.id DESC LIMIT ?", limit)
	if err != nil {
		return nil, wrap("list posts", err)
	}
	posts, err := collect(rows, scanPost)
	return posts, wrap("list posts", err)
}

// GetPost returns errs.ErrNotFound when the post does not exist.
func (q *Queries) GetPost(ctx context.Context, id int64) (*Post, error) {
	p, err := scanPost(q.exec.QueryRowContext(ctx, postSelect+" WHERE p.id = ?", id))
	if err != nil {
		return nil, wrap("get post", err)
	}
	return p, nil
}

// GetPostsByIDs returns the posts that exist among ids, in no particular order.
func (q *Queries) GetPostsByIDs(ctx context.Context, ids []int64) ([]*Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.exec.QueryContext(ctx,
		postSelect+" WHERE p.id IN ("+placeholders(len(ids))+")", int64Args(ids)...)
	if err != nil {
		return nil, wrap("get posts", err)
	}
	posts, err := collect(rows, scanPost)
	return posts, wrap("get posts", err)
}

// CreatePost inserts a post and returns its id.
func (q *Queries) CreatePost(ctx context.Context, userID int64, body string) (int64, error) {
	var id int64
	err := q.exec.QueryRowContext(ctx,
		"INSERT INTO posts (body, user_id, created_at) VALUES (?, ?, ?) RETURNING id",
		body, userID, q.now()).Scan(&id)
	if err != nil {
		return 0, wrap("create post", err)
	}
	return id, nil
}

// DeletePost removes the post; comments and likes cascade.
// It returns errs.ErrNotFound when no row was deleted.
func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "delete post", "DELETE FROM posts WHERE id = ?", id)
}

func (q *Queries) deleteByID(ctx context.Context, op, stmt string, id int64) error {
	res, err := q.exec.ExecContext(ctx, stmt, id)
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return wrap(op, sql.ErrNoRows)
	}
	return nil
}
