// Package dataloader provides dataloaders for efficient batch loading of data.
package dataloader

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/services"
	"github.com/xzzpig/postboard/internal/core/store"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders holds all dataloaders for a request.
type Loaders struct {
	UserLoader     *UserLoader
	PostLoader     *PostLoader
	CommentsLoader *CommentsLoader
	LikesLoader    *LikesLoader
}

// NewLoaders creates a new Loaders instance for the request.
func NewLoaders(exec db.Executor) *Loaders {
	q := store.New(exec)
	return &Loaders{
		UserLoader:     NewUserLoader(q),
		PostLoader:     NewPostLoader(q),
		CommentsLoader: NewCommentsLoader(q, services.NestedLimit),
		LikesLoader:    NewLikesLoader(q, services.NestedLimit),
	}
}

// WithLoaders stores loaders in ctx.
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Middleware injects dataloaders into the request context.
func Middleware(exec db.Executor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithLoaders(c.Request.Context(), NewLoaders(exec))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Forget drops everything cached for postID, so fields resolved after a write
// in the same request read fresh rows. It is a no-op without loaders in ctx.
func Forget(ctx context.Context, postID int64) {
	loaders, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok {
		return
	}
	loaders.PostLoader.Clear(postID)
	loaders.CommentsLoader.Clear(postID)
	loaders.LikesLoader.Clear(postID)
}

// For retrieves the dataloaders from context.
func For(ctx context.Context) *Loaders {
	loaders, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok {
		panic("dataloader: loaders not found in context - did you forget to add dataloader.Middleware?")
	}
	return loaders
}
