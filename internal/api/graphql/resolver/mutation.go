package resolver

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	apicontext "github.com/xzzpig/postboard/internal/api/context"
	"github.com/xzzpig/postboard/internal/api/graphql/dataloader"
	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/services"
	"github.com/xzzpig/postboard/internal/i18n"
)

// RegisterInput mirrors the RegisterInput input type.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// caller authenticates the request through the gate bound to its scope.
func (r *Resolver) caller(ctx context.Context) (auth.Identity, error) {
	return apicontext.Authenticate(ctx, r.deps.Gate)
}

// Register creates an account.
func (r *Resolver) Register(ctx context.Context, args struct{ RegisterInput *RegisterInput }) (*UserResolver, error) {
	in := args.RegisterInput
	if in == nil {
		return nil, errs.Validation(errs.ReasonInvalidInput, i18n.ErrMissingInput, nil)
	}
	res, err := r.deps.UserService.Register(ctx, services.RegisterInput{
		Username:        in.Username,
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	})
	if err != nil {
		return nil, err
	}
	return newUser(res.User, res.Token), nil
}

// Login exchanges credentials for a token.
func (r *Resolver) Login(ctx context.Context, args struct {
	Username string
	Password string
}) (*UserResolver, error) {
	res, err := r.deps.UserService.Login(ctx, args.Username, args.Password)
	if err != nil {
		return nil, err
	}
	return newUser(res.User, res.Token), nil
}

// CreatePost publishes a post as the caller.
func (r *Resolver) CreatePost(ctx context.Context, args struct{ Body string }) (*PostResolver, error) {
	id, err := r.caller(ctx)
	if err != nil {
		return nil, err
	}
	composed, err := r.deps.PostService.CreatePost(ctx, id, args.Body)
	if err != nil {
		return nil, err
	}
	return composedPost(composed), nil
}

// DeletePost removes one of the caller's posts.
func (r *Resolver) DeletePost(ctx context.Context, args struct{ PostID graphql.ID }) (string, error) {
	id, err := r.caller(ctx)
	if err != nil {
		return "", err
	}
	postID, err := parseID(args.PostID)
	if err != nil {
		return "", err
	}
	if err := r.deps.PostService.DeletePost(ctx, id, postID); err != nil {
		return "", err
	}
	dataloader.Forget(ctx, postID)
	return i18n.Ctx(ctx, i18n.SuccessPostDeleted), nil
}

// CreateComment comments on a post as the caller.
func (r *Resolver) CreateComment(ctx context.Context, args struct {
	PostID string
	Body   string
}) (*CommentResolver, error) {
	id, err := r.caller(ctx)
	if err != nil {
		return nil, err
	}
	postID, err := parseIDString(args.PostID)
	if err != nil {
		return nil, err
	}
	c, err := r.deps.CommentService.CreateComment(ctx, id, postID, args.Body)
	if err != nil {
		return nil, err
	}
	dataloader.Forget(ctx, postID)
	return &CommentResolver{comment: c, user: identityUser(id), stubPost: true}, nil
}

// DeleteComment removes one of the caller's comments and returns the post stub.
func (r *Resolver) DeleteComment(ctx context.Context, args struct {
	PostID    graphql.ID
	CommentID graphql.ID
}) (*PostResolver, error) {
	id, err := r.caller(ctx)
	if err != nil {
		return nil, err
	}
	postID, err := parseID(args.PostID)
	if err != nil {
		return nil, err
	}
	commentID, err := parseID(args.CommentID)
	if err != nil {
		return nil, err
	}
	if err := r.deps.CommentService.DeleteComment(ctx, id, postID, commentID); err != nil {
		return nil, err
	}
	dataloader.Forget(ctx, postID)
	return postStub(postID), nil
}

// LikePost toggles the caller's like on a post.
func (r *Resolver) LikePost(ctx context.Context, args struct{ PostID graphql.ID }) (*PostResolver, error) {
	id, err := r.caller(ctx)
	if err != nil {
		return nil, err
	}
	postID, err := parseID(args.PostID)
	if err != nil {
		return nil, err
	}
	liked, err := r.deps.LikeService.ToggleLike(ctx, id, postID)
	if err != nil {
		return nil, err
	}
	dataloader.Forget(ctx, postID)
	return likedPost(liked), nil
}
