package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/i18n"
)

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Gate turns request headers into an Identity.
type Gate struct {
	verifier Verifier
}

// NewGate creates a Gate over v.
func NewGate(v Verifier) *Gate {
	return &Gate{verifier: v}
}

// Authenticate reads the Authorization header. Failures are typed
// KindAuthentication errors with reasons MISSING_AUTH_HEADER,
// MALFORMED_AUTH_HEADER or INVALID_OR_EXPIRED_TOKEN.
func (g *Gate) Authenticate(headers http.Header) (Identity, error) {
	header := headers.Get("Authorization")
	if header == "" {
		return Identity{}, errs.Unauthenticated(errs.ReasonMissingAuthHeader, i18n.ErrMissingAuthHeader, nil)
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
		return Identity{}, errs.Unauthenticated(errs.ReasonMalformedAuthHeader, i18n.ErrMalformedAuth, nil)
	}

	id, err := g.verifier.Verify(strings.TrimSpace(token))
	if err != nil {
		logger.Named("core.auth").Debug("Rejected bearer token", zap.Error(err))
		return Identity{}, errs.Unauthenticated(errs.ReasonInvalidOrExpiredToken, i18n.ErrInvalidToken, nil).WithCause(err)
	}
	return id, nil
}
