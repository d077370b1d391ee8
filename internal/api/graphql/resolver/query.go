package resolver

import (
	"context"

	"github.com/graph-gophers/graphql-go"
)

// GetPosts returns the newest posts.
func (r *Resolver) GetPosts(ctx context.Context) ([]*PostResolver, error) {
	posts, err := r.deps.PostService.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*PostResolver, len(posts))
	for i, p := range posts {
		out[i] = newPost(p)
	}
	return out, nil
}

// GetPost returns one post.
func (r *Resolver) GetPost(ctx context.Context, args struct{ PostID graphql.ID }) (*PostResolver, error) {
	id, err := parseID(args.PostID)
	if err != nil {
		return nil, err
	}
	p, err := r.deps.PostService.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return newPost(p), nil
}

// GetComments returns every comment of a post.
func (r *Resolver) GetComments(ctx context.Context, args struct{ PostID graphql.ID }) ([]*CommentResolver, error) {
	id, err := parseID(args.PostID)
	if err != nil {
		return nil, err
	}
	comments, err := r.deps.CommentService.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*CommentResolver, len(comments))
	for i, c := range comments {
		out[i] = newComment(c)
	}
	return out, nil
}
