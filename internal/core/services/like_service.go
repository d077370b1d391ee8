package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/core/store"
	"github.com/xzzpig/postboard/internal/i18n"
)

const (
	// errLikeRaced aborts the toggle transaction when a concurrent like won the insert.
	errLikeRaced = errs.ConstError("like inserted concurrently")
	// errUnlikeRaced aborts it when a concurrent unlike deleted the row first.
	errUnlikeRaced = errs.ConstError("like deleted concurrently")
)

// LikedBy is a like with its author resolved.
type LikedBy struct {
	Like *store.Like
	User *store.User
}

// LikedPost is the post returned by a toggle, with every like resolved.
type LikedPost struct {
	Post  *store.Post
	Likes []LikedBy
	// Liked reports whether the toggle added the caller's like.
	Liked bool
}

// LikeService toggles likes.
type LikeService struct {
	db     *db.DB
	logger *zap.Logger
}

// NewLikeService creates a new LikeService instance.
func NewLikeService(d *db.DB) *LikeService {
	return &LikeService{
		db:     d,
		logger: logger.Named("service.like"),
	}
}

// ToggleLike removes caller's like on the post if present and adds it otherwise.
// Losing a race to a concurrent toggle of the same like makes the call a no-op.
func (s *LikeService) ToggleLike(ctx context.Context, caller auth.Identity, postID int64) (*LikedPost, error) {
	var liked bool
	err := s.db.InTx(ctx, func(tx *db.Tx) error {
		q := store.New(tx)
		if _, err := q.GetPost(ctx, postID); err != nil {
			return notFoundOr(err, i18n.ErrPostNotFound, "post", postID)
		}

		existing, err := q.FindLike(ctx, caller.ID, postID)
		switch {
		case err == nil:
			return unlike(ctx, q, existing)
		case !errors.Is(err, errs.ErrNotFound):
			return err
		}

		if _, err := q.CreateLike(ctx, caller.ID, caller.Username, postID); err != nil {
			if errors.Is(err, errs.ErrAlreadyExists) {
				return errLikeRaced
			}
			return err
		}
		liked = true
		return nil
	})
	switch {
	case errors.Is(err, errLikeRaced):
		s.logger.Debug("Concurrent like detected, keeping existing row", zap.Int64("post_id", postID))
		liked = true
	case errors.Is(err, errUnlikeRaced):
		s.logger.Debug("Concurrent unlike detected, row already gone", zap.Int64("post_id", postID))
	case err != nil:
		if _, ok := errs.As(err); ok {
			return nil, err
		}
		return nil, errs.Internal(err)
	}

	result, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	result.Liked = liked

	s.logger.Info("Like toggled",
		zap.Int64("post_id", postID),
		zap.Int64("user_id", caller.ID),
		zap.Bool("liked", liked),
		zap.Int("likes", len(result.Likes)))
	return result, nil
}

// unlike deletes l. Under READ COMMITTED two unlikes can both read the row;
// the one whose DELETE finds nothing reports errUnlikeRaced.
func unlike(ctx context.Context, q *store.Queries, l *store.Like) error {
	err := q.DeleteLike(ctx, l.ID)
	if errors.Is(err, errs.ErrNotFound) {
		return errUnlikeRaced
	}
	return err
}

// load re-reads the post and resolves the author of every like concurrently.
func (s *LikeService) load(ctx context.Context, postID int64) (*LikedPost, error) {
	q := store.New(s.db)
	p, err := q.GetPost(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, i18n.ErrPostNotFound, "post", postID)
	}
	likes, err := q.ListLikesByPost(ctx, postID)
	if err != nil {
		return nil, errs.Internal(err)
	}

	resolved := make([]LikedBy, len(likes))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range likes {
		g.Go(func() error {
			u, err := q.GetUserByID(gctx, l.UserID)
			if err != nil {
				return notFoundOr(err, i18n.ErrEntityNotFound, "user", l.UserID)
			}
			resolved[i] = LikedBy{Like: l, User: u}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &LikedPost{Post: p, Likes: resolved}, nil
}
