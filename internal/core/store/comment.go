package store

import (
	"context"
	"time"

	"github.com/xzzpig/postboard/internal/core/db"
)

// Comment is a comment row.
type Comment struct {
	ID        int64
	Body      string
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

const commentColumns = "id, body, user_id, post_id, created_at"

func scanComment(s scanner) (*Comment, error) {
	var (
		c         Comment
		createdAt db.Time
	)
	if err := s.Scan(&c.ID, &c.Body, &c.UserID, &c.PostID, &createdAt); err != nil {
		return nil, err
	}
	c.CreatedAt = createdAt.Time
	return &c, nil
}

// ListCommentsByPost returns every comment of the post, newest first.
func (q *Queries) ListCommentsByPost(ctx context.Context, postID int64) ([]*Comment, error) {
	rows, err := q.exec.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE post_id = ? ORDER BY created_at DESC, id DESC",
		postID)
	if err != nil {
		return nil, wrap("list comments", err)
	}
	comments, err := collect(rows, scanComment)
	return comments, wrap("list comments", err)
}

// ListRecentCommentsByPosts returns up to perPost newest comments for each post in postIDs,
// ordered by post then newest first.
func (q *Queries) ListRecentCommentsByPosts(ctx context.Context, postIDs []int64, perPost int) ([]*Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	args := append(int64Args(postIDs), perPost)
	rows, err := q.exec.QueryContext(ctx, `SELECT `+commentColumns+` FROM (
	SELECT `+commentColumns+`,
		ROW_NUMBER() OVER (PARTITION BY post_id ORDER BY created_at DESC, id DESC) AS rn
	FROM comments WHERE post_id IN (`+placeholders(len(postIDs))+`)
) ranked WHERE rn <= ? ORDER BY post_id, created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, wrap("list recent comments", err)
	}
	comments, err := collect(rows, scanComment)
	return comments, wrap("list recent comments", err)
}

// GetComment returns the comment only if it belongs to postID; otherwise errs.ErrNotFound.
func (q *Queries) GetComment(ctx context.Context, id, postID int64) (*Comment, error) {
	c, err := scanComment(q.exec.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id = ? AND post_id = ?", id, postID))
	if err != nil {
		return nil, wrap("get comment", err)
	}
	return c, nil
}

// CreateComment inserts a comment and returns the stored row.
func (q *Queries) CreateComment(ctx context.Context, userID, postID int64, body string) (*Comment, error) {
	c := &Comment{Body: body, UserID: userID, PostID: postID, CreatedAt: q.now()}
	err := q.exec.QueryRowContext(ctx,
		"INSERT INTO comments (body, user_id, post_id, created_at) VALUES (?, ?, ?, ?) RETURNING id",
		c.Body, c.UserID, c.PostID, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return nil, wrap("create comment", err)
	}
	return c, nil
}

// DeleteComment removes the comment, returning errs.ErrNotFound when it is absent.
func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "delete comment", "DELETE FROM comments WHERE id = ?", id)
}
