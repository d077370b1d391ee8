package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/api/context"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/i18n"
)

// SetupRouter builds the gin engine with middleware and every route.
func SetupRouter(deps RouterDeps) (*gin.Engine, error) {
	if deps.Config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Middleware
	r.Use(gin.CustomRecovery(recoveryHandler))
	r.Use(context.RequestIDMiddleware())
	r.Use(context.AccessLogMiddleware())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(deps.Config.Server.CORSOrigins)))
	r.Use(context.LocaleMiddleware())
	r.Use(context.ErrorMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := deps.DB.SQL().PingContext(c.Request.Context()); err != nil {
			routesLog().Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := RegisterRoutes(r, deps); err != nil {
		return nil, err
	}
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", context.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", context.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	// 通配符不能和 credentials 一起用
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func recoveryHandler(c *gin.Context, recovered any) {
	logger.Named("api.recovery").Error("HTTP handler panic recovered",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", context.GetRequestID(c)),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": i18n.T(context.GetLocalizer(c), i18n.ErrGeneric),
		"code":  "INTERNAL_SERVER_ERROR",
	})
}
