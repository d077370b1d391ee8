package dataloader

import (
	"context"

	"github.com/vikstrous/dataloadgen"

	"github.com/xzzpig/postboard/internal/core/store"
)

// PostLoader batches and caches Post loads.
type PostLoader = dataloadgen.Loader[int64, *store.Post]

// NewPostLoader creates a new PostLoader.
func NewPostLoader(q *store.Queries) *PostLoader {
	return NewGenericLoader(q.GetPostsByIDs, func(p *store.Post) int64 { return p.ID }, "post")
}

// CommentsLoader loads the newest comments of each post, keyed by post id.
type CommentsLoader = dataloadgen.Loader[int64, []*store.Comment]

// NewCommentsLoader creates a CommentsLoader returning at most perPost comments per post.
func NewCommentsLoader(q *store.Queries, perPost int) *CommentsLoader {
	return NewGroupedLoader(
		func(ctx context.Context, ids []int64) ([]*store.Comment, error) {
			return q.ListRecentCommentsByPosts(ctx, ids, perPost)
		},
		func(c *store.Comment) int64 { return c.PostID },
	)
}

// LikesLoader loads the newest likes of each post, keyed by post id.
type LikesLoader = dataloadgen.Loader[int64, []*store.Like]

// NewLikesLoader creates a LikesLoader returning at most perPost likes per post.
func NewLikesLoader(q *store.Queries, perPost int) *LikesLoader {
	return NewGroupedLoader(
		func(ctx context.Context, ids []int64) ([]*store.Like, error) {
			return q.ListRecentLikesByPosts(ctx, ids, perPost)
		},
		func(l *store.Like) int64 { return l.PostID },
	)
}
