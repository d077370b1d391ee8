package context

import (
	"context"
	"net/http"
	"sync"

	"github.com/xzzpig/postboard/internal/core/auth"
)

type scopeKey struct{}

// Scope is the per-request state read by resolvers. Headers are copied at
// creation and the identity is bound at most once.
type Scope struct {
	headers http.Header

	once     sync.Once
	bound    bool
	identity auth.Identity
	err      error
}

// NewScope creates a Scope over a copy of headers.
func NewScope(headers http.Header) *Scope {
	return &Scope{headers: headers.Clone()}
}

// Header returns the named request header.
func (s *Scope) Header(name string) string {
	return s.headers.Get(name)
}

// Identity returns the identity bound to the request, if a resolver
// authenticated it successfully. Call it only after the request finished.
func (s *Scope) Identity() (auth.Identity, bool) {
	if !s.bound || s.err != nil {
		return auth.Identity{}, false
	}
	return s.identity, true
}

// WithScope stores scope in ctx.
func WithScope(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the Scope stored in ctx, or nil.
func ScopeFromContext(ctx context.Context) *Scope {
	scope, _ := ctx.Value(scopeKey{}).(*Scope)
	return scope
}

// Authenticate runs gate against the request headers the first time it is
// called for a request and returns the same result afterwards.
// Without a scope the request is treated as carrying no headers.
func Authenticate(ctx context.Context, gate *auth.Gate) (auth.Identity, error) {
	scope := ScopeFromContext(ctx)
	if scope == nil {
		return gate.Authenticate(http.Header{})
	}
	scope.once.Do(func() {
		scope.identity, scope.err = gate.Authenticate(scope.headers)
		scope.bound = true
	})
	return scope.identity, scope.err
}
