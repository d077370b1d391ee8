package resolver

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/xzzpig/postboard/internal/api/graphql/dataloader"
	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/store"
)

// UserResolver resolves a User. The password hash is never exposed.
type UserResolver struct {
	user  *store.User
	token string
}

func newUser(u *store.User, token string) *UserResolver {
	return &UserResolver{user: u, token: token}
}

// identityUser builds a User from token claims; created_at is loaded on demand.
func identityUser(id auth.Identity) *store.User {
	return &store.User{ID: id.ID, Username: id.Username, Email: id.Email}
}

func (r *UserResolver) ID() graphql.ID {
	return toID(r.user.ID)
}

func (r *UserResolver) Username() string {
	return r.user.Username
}

func (r *UserResolver) Email() string {
	return r.user.Email
}

func (r *UserResolver) CreatedAt(ctx context.Context) (string, error) {
	if !r.user.CreatedAt.IsZero() {
		return formatTime(r.user.CreatedAt), nil
	}
	u, err := dataloader.For(ctx).UserLoader.Load(ctx, r.user.ID)
	if err != nil {
		return "", err
	}
	return formatTime(u.CreatedAt), nil
}

func (r *UserResolver) Token() string {
	return r.token
}
