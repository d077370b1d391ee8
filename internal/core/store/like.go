package store

import (
	"context"
	"time"

	"github.com/xzzpig/postboard/internal/core/db"
)

// Like records that a user likes a post. (user_id, post_id) is unique.
type Like struct {
	ID        int64
	Username  string
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}

const likeColumns = "id, username, user_id, post_id, created_at"

func scanLike(s scanner) (*Like, error) {
	var (
		l         Like
		createdAt db.Time
	)
	if err := s.Scan(&l.ID, &l.Username, &l.UserID, &l.PostID, &createdAt); err != nil {
		return nil, err
	}
	l.CreatedAt = createdAt.Time
	return &l, nil
}

// FindLike returns the user's like on the post, or errs.ErrNotFound.
func (q *Queries) FindLike(ctx context.Context, userID, postID int64) (*Like, error) {
	l, err := scanLike(q.exec.QueryRowContext(ctx,
		"SELECT "+likeColumns+" FROM likes WHERE user_id = ? AND post_id = ?", userID, postID))
	if err != nil {
		return nil, wrap("find like", err)
	}
	return l, nil
}

// CreateLike inserts a like. A duplicate (user, post) returns errs.ErrAlreadyExists.
func (q *Queries) CreateLike(ctx context.Context, userID int64, username string, postID int64) (*Like, error) {
	l := &Like{Username: username, UserID: userID, PostID: postID, CreatedAt: q.now()}
	err := q.exec.QueryRowContext(ctx,
		"INSERT INTO likes (username, user_id, post_id, created_at) VALUES (?, ?, ?, ?) RETURNING id",
		l.Username, l.UserID, l.PostID, l.CreatedAt).Scan(&l.ID)
	if err != nil {
		return nil, wrap("create like", err)
	}
	return l, nil
}

// DeleteLike removes a like by id, returning errs.ErrNotFound when it is absent.
func (q *Queries) DeleteLike(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "delete like", "DELETE FROM likes WHERE id = ?", id)
}

// ListLikesByPost returns every like of the post, newest first.
func (q *Queries) ListLikesByPost(ctx context.Context, postID int64) ([]*Like, error) {
	rows, err := q.exec.QueryContext(ctx,
		"SELECT "+likeColumns+" FROM likes WHERE post_id = ? ORDER BY created_at DESC, id DESC", postID)
	if err != nil {
		return nil, wrap("list likes", err)
	}
	likes, err := collect(rows, scanLike)
	return likes, wrap("list likes", err)
}

// ListRecentLikesByPosts returns up to perPost newest likes for each post in postIDs.
func (q *Queries) ListRecentLikesByPosts(ctx context.Context, postIDs []int64, perPost int) ([]*Like, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	args := append(int64Args(postIDs), perPost)
	rows, err := q.exec.QueryContext(ctx, `SELECT `+likeColumns+` FROM (
	SELECT `+likeColumns+`,
		ROW_NUMBER() OVER (PARTITION BY post_id ORDER BY created_at DESC, id DESC) AS rn
	FROM likes WHERE post_id IN (`+placeholders(len(postIDs))+`)
) ranked WHERE rn <= ? ORDER BY post_id, created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, wrap("list recent likes", err)
	}
	likes, err := collect(rows, scanLike)
	return likes, wrap("list recent likes", err)
}
