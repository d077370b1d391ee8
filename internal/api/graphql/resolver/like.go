package resolver

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/xzzpig/postboard/internal/api/graphql/dataloader"
	"github.com/xzzpig/postboard/internal/core/store"
)

// LikeResolver resolves a Like.
type LikeResolver struct {
	like *store.Like
	user *store.User
}

// newLike wraps l. user may be nil, in which case it is loaded on demand.
func newLike(l *store.Like, user *store.User) *LikeResolver {
	return &LikeResolver{like: l, user: user}
}

func (r *LikeResolver) ID() graphql.ID {
	return toID(r.like.ID)
}

func (r *LikeResolver) CreatedAt() string {
	return formatTime(r.like.CreatedAt)
}

func (r *LikeResolver) User(ctx context.Context) (*UserResolver, error) {
	if r.user != nil {
		return newUser(r.user, ""), nil
	}
	u, err := dataloader.For(ctx).UserLoader.Load(ctx, r.like.UserID)
	if err != nil {
		return nil, err
	}
	return newUser(u, ""), nil
}

func (r *LikeResolver) Post(ctx context.Context) (*PostResolver, error) {
	p, err := dataloader.For(ctx).PostLoader.Load(ctx, r.like.PostID)
	if err != nil {
		return nil, err
	}
	return newPost(p), nil
}
