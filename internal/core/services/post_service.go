package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/core/store"
	"github.com/xzzpig/postboard/internal/core/validation"
	"github.com/xzzpig/postboard/internal/i18n"
)

// ComposedPost is a post with its comments and likes fetched eagerly.
type ComposedPost struct {
	Post     *store.Post
	Comments []*store.Comment
	Likes    []*store.Like
}

// PostService provides operations for posts.
type PostService struct {
	db     *db.DB
	logger *zap.Logger
}

// NewPostService creates a new PostService instance.
func NewPostService(d *db.DB) *PostService {
	return &PostService{
		db:     d,
		logger: logger.Named("service.post"),
	}
}

// ListPosts returns the newest FeedLimit posts.
func (s *PostService) ListPosts(ctx context.Context) ([]*store.Post, error) {
	posts, err := store.New(s.db).ListPosts(ctx, FeedLimit)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return posts, nil
}

// GetPost returns a post or a NOT_FOUND error.
func (s *PostService) GetPost(ctx context.Context, id int64) (*store.Post, error) {
	p, err := store.New(s.db).GetPost(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, i18n.ErrPostNotFound, "post", id)
	}
	return p, nil
}

// CreatePost inserts a post and re-reads it with its likes and comments in one transaction.
func (s *PostService) CreatePost(ctx context.Context, caller auth.Identity, body string) (*ComposedPost, error) {
	if res := validation.Body(body); !res.Valid {
		return nil, errs.Validation(errs.ReasonEmptyBody, i18n.ErrEmptyPostBody, res.Errors)
	}

	var composed ComposedPost
	err := s.db.InTx(ctx, func(tx *db.Tx) error {
		q := store.New(tx)
		id, err := q.CreatePost(ctx, caller.ID, body)
		if err != nil {
			return err
		}
		if composed.Post, err = q.GetPost(ctx, id); err != nil {
			return err
		}
		if composed.Likes, err = q.ListLikesByPost(ctx, id); err != nil {
			return err
		}
		composed.Comments, err = q.ListCommentsByPost(ctx, id)
		return err
	})
	if err != nil {
		return nil, errs.Internal(err)
	}

	s.logger.Info("Post created", zap.Int64("post_id", composed.Post.ID), zap.Int64("user_id", caller.ID))
	return &composed, nil
}

// DeletePost removes a post owned by caller.
func (s *PostService) DeletePost(ctx context.Context, caller auth.Identity, id int64) error {
	err := s.db.InTx(ctx, func(tx *db.Tx) error {
		q := store.New(tx)
		p, err := q.GetPost(ctx, id)
		if err != nil {
			return notFoundOr(err, i18n.ErrPostNotFound, "post", id)
		}
		if p.UserID != caller.ID {
			return errs.Forbidden(i18n.ErrDeletePostDenied)
		}
		if err := q.DeletePost(ctx, id); err != nil {
			return errs.Internal(err)
		}
		return nil
	})
	if err != nil {
		if _, ok := errs.As(err); ok {
			return err
		}
		return errs.Internal(err)
	}

	s.logger.Info("Post deleted", zap.Int64("post_id", id), zap.Int64("user_id", caller.ID))
	return nil
}
