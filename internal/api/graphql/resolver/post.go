package resolver

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/xzzpig/postboard/internal/api/graphql/dataloader"
	"github.com/xzzpig/postboard/internal/core/services"
	"github.com/xzzpig/postboard/internal/core/store"
)

// PostResolver resolves a Post.
// A resolver built from an id alone loads the row on first use.
// When comments or likes are set they are returned as-is instead of the capped lazy fetch.
type PostResolver struct {
	id       int64
	post     *store.Post
	comments []*CommentResolver
	likes    []*LikeResolver
}

func newPost(p *store.Post) *PostResolver {
	return &PostResolver{id: p.ID, post: p}
}

func postStub(id int64) *PostResolver {
	return &PostResolver{id: id}
}

func composedPost(c *services.ComposedPost) *PostResolver {
	r := newPost(c.Post)
	r.comments = make([]*CommentResolver, len(c.Comments))
	for i, comment := range c.Comments {
		r.comments[i] = newComment(comment)
	}
	r.likes = make([]*LikeResolver, len(c.Likes))
	for i, like := range c.Likes {
		r.likes[i] = newLike(like, nil)
	}
	return r
}

func likedPost(l *services.LikedPost) *PostResolver {
	r := newPost(l.Post)
	r.likes = make([]*LikeResolver, len(l.Likes))
	for i, like := range l.Likes {
		r.likes[i] = newLike(like.Like, like.User)
	}
	return r
}

func (r *PostResolver) load(ctx context.Context) (*store.Post, error) {
	if r.post != nil {
		return r.post, nil
	}
	return dataloader.For(ctx).PostLoader.Load(ctx, r.id)
}

func (r *PostResolver) ID() graphql.ID {
	return toID(r.id)
}

func (r *PostResolver) Body(ctx context.Context) (string, error) {
	p, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	return p.Body, nil
}

func (r *PostResolver) CreatedAt(ctx context.Context) (string, error) {
	p, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	return formatTime(p.CreatedAt), nil
}

func (r *PostResolver) Username(ctx context.Context) (string, error) {
	p, err := r.load(ctx)
	if err != nil {
		return "", err
	}
	return p.Username, nil
}

func (r *PostResolver) Comments(ctx context.Context) ([]*CommentResolver, error) {
	if r.comments != nil {
		return r.comments, nil
	}
	comments, err := dataloader.For(ctx).CommentsLoader.Load(ctx, r.id)
	if err != nil {
		return nil, err
	}
	out := make([]*CommentResolver, len(comments))
	for i, c := range comments {
		out[i] = newComment(c)
	}
	return out, nil
}

func (r *PostResolver) Likes(ctx context.Context) ([]*LikeResolver, error) {
	if r.likes != nil {
		return r.likes, nil
	}
	likes, err := dataloader.For(ctx).LikesLoader.Load(ctx, r.id)
	if err != nil {
		return nil, err
	}
	out := make([]*LikeResolver, len(likes))
	for i, l := range likes {
		out[i] = newLike(l, nil)
	}
	return out, nil
}
