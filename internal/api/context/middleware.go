package context

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/logger"
)

// RequestIDMiddleware reuses an incoming X-Request-ID or generates a new one,
// and echoes it on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLogMiddleware logs one line per request under api.access, with the
// caller's user id when the request authenticated.
func AccessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logger.Named("api.access")
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
		}
		if scope, err := GetScope(c); err == nil {
			if id, ok := scope.Identity(); ok {
				fields = append(fields, zap.Int64("user_id", id.ID))
			}
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// ScopeMiddleware attaches a fresh Scope holding the request headers.
func ScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := NewScope(c.Request.Header)
		c.Set(ContextKeyScope, scope)
		c.Request = c.Request.WithContext(WithScope(c.Request.Context(), scope))
		c.Next()
	}
}
