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

// CommentService provides operations for comments.
type CommentService struct {
	db     *db.DB
	logger *zap.Logger
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(d *db.DB) *CommentService {
	return &CommentService{
		db:     d,
		logger: logger.Named("service.comment"),
	}
}

// ListComments returns every comment of the post. An unknown post yields an empty list.
func (s *CommentService) ListComments(ctx context.Context, postID int64) ([]*store.Comment, error) {
	comments, err := store.New(s.db).ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return comments, nil
}

// CreateComment adds a comment by caller to an existing post.
func (s *CommentService) CreateComment(ctx context.Context, caller auth.Identity, postID int64, body string) (*store.Comment, error) {
	if res := validation.Body(body); !res.Valid {
		return nil, errs.Validation(errs.ReasonEmptyBody, i18n.ErrEmptyCommentBody, res.Errors)
	}

	q := store.New(s.db)
	if _, err := q.GetPost(ctx, postID); err != nil {
		return nil, notFoundOr(err, i18n.ErrPostNotFound, "post", postID)
	}

	c, err := q.CreateComment(ctx, caller.ID, postID, body)
	if err != nil {
		return nil, errs.Internal(err)
	}

	s.logger.Info("Comment created", zap.Int64("comment_id", c.ID), zap.Int64("post_id", postID))
	return c, nil
}

// DeleteComment removes a comment that belongs to postID and was written by caller.
func (s *CommentService) DeleteComment(ctx context.Context, caller auth.Identity, postID, commentID int64) error {
	err := s.db.InTx(ctx, func(tx *db.Tx) error {
		q := store.New(tx)
		c, err := q.GetComment(ctx, commentID, postID)
		if err != nil {
			return notFoundOr(err, i18n.ErrCommentNotFound, "comment", commentID)
		}
		if c.UserID != caller.ID {
			return errs.Forbidden(i18n.ErrDeleteCommentDenied)
		}
		if err := q.DeleteComment(ctx, commentID); err != nil {
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

	s.logger.Info("Comment deleted", zap.Int64("comment_id", commentID), zap.Int64("post_id", postID))
	return nil
}
