// Package api provides HTTP API routes and server setup.
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/api/context"
	"github.com/xzzpig/postboard/internal/api/graphql"
	"github.com/xzzpig/postboard/internal/api/graphql/dataloader"
	"github.com/xzzpig/postboard/internal/api/graphql/resolver"
	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/config"
	"github.com/xzzpig/postboard/internal/core/crypto"
	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/core/services"
)

// RouterDeps contains all dependencies required for setting up API routes.
type RouterDeps struct {
	DB     *db.DB
	Config *config.Config
	Hasher *crypto.PasswordHasher
	Tokens *auth.TokenCodec
	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *Metrics
}

// routesLog returns a named logger for the api.routes package.
func routesLog() *zap.Logger {
	return logger.Named("api.routes")
}

// NewResolverDependencies wires the services behind the GraphQL resolvers.
func NewResolverDependencies(deps RouterDeps) *resolver.Dependencies {
	return &resolver.Dependencies{
		Gate:           auth.NewGate(deps.Tokens),
		UserService:    services.NewUserService(deps.DB, deps.Hasher, deps.Tokens),
		PostService:    services.NewPostService(deps.DB),
		CommentService: services.NewCommentService(deps.DB),
		LikeService:    services.NewLikeService(deps.DB),
	}
}

// RegisterRoutes registers the GraphQL endpoint and the admin routes.
func RegisterRoutes(r *gin.Engine, deps RouterDeps) error {
	opts := graphql.Options{
		ComplexityLimit: deps.Config.GraphQL.ComplexityLimit,
		MaxDepth:        deps.Config.GraphQL.MaxDepth,
		MaxParallelism:  deps.Config.GraphQL.MaxParallelism,
	}
	if deps.Metrics != nil {
		opts.Observer = deps.Metrics
	}

	h, err := graphql.NewHandler(resolver.New(NewResolverDependencies(deps)), opts)
	if err != nil {
		routesLog().Error("Failed to build GraphQL handler", zap.Error(err))
		return fmt.Errorf("failed to build graphql handler: %w", err)
	}

	// GraphQL endpoint
	gql := r.Group("/graphql", context.ScopeMiddleware(), dataloader.Middleware(deps.DB))
	{
		gql.POST("", graphql.GinHandler(h))
		gql.GET("", graphql.GinHandler(h))
	}

	// Admin routes, behind basic auth when configured
	admin := r.Group("", context.AdminGuard(deps.Config))
	if deps.Config.Server.Playground {
		admin.GET("/playground", graphql.PlaygroundHandler("/graphql"))
	}
	if deps.Config.Server.Metrics && deps.Metrics != nil {
		admin.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	routesLog().Info("Routes registered",
		zap.Bool("playground", deps.Config.Server.Playground),
		zap.Bool("metrics", deps.Config.Server.Metrics && deps.Metrics != nil),
	)
	return nil
}
