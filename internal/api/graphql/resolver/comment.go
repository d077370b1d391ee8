package resolver

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/xzzpig/postboard/internal/api/graphql/dataloader"
	"github.com/xzzpig/postboard/internal/core/store"
)

// CommentResolver resolves a Comment.
type CommentResolver struct {
	comment *store.Comment
	// user is set when the author is already known, as for createComment.
	user *store.User
	// stubPost returns Post as an id-only stub instead of looking it up.
	stubPost bool
}

func newComment(c *store.Comment) *CommentResolver {
	return &CommentResolver{comment: c}
}

func (r *CommentResolver) ID() graphql.ID {
	return toID(r.comment.ID)
}

func (r *CommentResolver) Body() string {
	return r.comment.Body
}

func (r *CommentResolver) CreatedAt() string {
	return formatTime(r.comment.CreatedAt)
}

func (r *CommentResolver) User(ctx context.Context) (*UserResolver, error) {
	if r.user != nil {
		return newUser(r.user, ""), nil
	}
	u, err := dataloader.For(ctx).UserLoader.Load(ctx, r.comment.UserID)
	if err != nil {
		return nil, err
	}
	return newUser(u, ""), nil
}

func (r *CommentResolver) Post(ctx context.Context) (*PostResolver, error) {
	if r.stubPost {
		return postStub(r.comment.PostID), nil
	}
	p, err := dataloader.For(ctx).PostLoader.Load(ctx, r.comment.PostID)
	if err != nil {
		return nil, err
	}
	return newPost(p), nil
}
