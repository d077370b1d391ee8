// Package context provides request context utilities for the API.
package context

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/config"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/i18n"
)

// AdminRealm is announced in WWW-Authenticate on the admin routes.
const AdminRealm = `Basic realm="postboard admin"`

// authLog returns the logger for admin authentication.
func authLog() *zap.Logger {
	return logger.Named("api.auth")
}

// adminDigest is what credentials are compared by, so comparisons take the
// same time whatever the submitted lengths.
func adminDigest(user, pass string) [sha256.Size]byte {
	return sha256.Sum256([]byte(user + "\x00" + pass))
}

// AdminGuard protects /metrics and /playground. With no admin credentials
// configured the routes are open.
// A rejected request is reported through c.Error and rendered by ErrorMiddleware.
// GraphQL callers authenticate with bearer tokens instead, see Authenticate.
func AdminGuard(cfg *config.Config) gin.HandlerFunc {
	if !cfg.IsAdminAuthEnabled() {
		return func(c *gin.Context) { c.Next() }
	}

	want := adminDigest(cfg.Server.AdminUsername, cfg.Server.AdminPassword)
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		got := adminDigest(user, pass)
		if ok && subtle.ConstantTimeCompare(got[:], want[:]) == 1 {
			c.Set(gin.AuthUserKey, user)
			c.Next()
			return
		}

		authLog().Warn("Admin authentication failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("username", user),
			zap.Bool("credentials_sent", ok),
			zap.String("request_id", GetRequestID(c)),
		)
		c.Header("WWW-Authenticate", AdminRealm)
		_ = c.Error(errs.Unauthenticated(errs.ReasonAdminCredentials, i18n.ErrAdminCredentials, nil))
		c.Abort()
	}
}
