// Package resolver provides GraphQL resolver implementations.
package resolver

import (
	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/services"
)

// Dependencies holds all dependencies required by resolvers.
type Dependencies struct {
	Gate           *auth.Gate
	UserService    *services.UserService
	PostService    *services.PostService
	CommentService *services.CommentService
	LikeService    *services.LikeService
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	deps *Dependencies
}

// New creates a new Resolver with the given dependencies.
func New(deps *Dependencies) *Resolver {
	return &Resolver{deps: deps}
}
