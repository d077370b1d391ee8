package context

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/xzzpig/postboard/internal/core/errs"
	i18npkg "github.com/xzzpig/postboard/internal/i18n"
)

// LocaleMiddleware parses Accept-Language header and stores Localizer in both contexts
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		locale := i18npkg.ParseLocale(lang)
		localizer := i18npkg.NewLocalizer(locale)

		// 1. Store in Gin context (for handlers)
		c.Set(ContextKeyLocale, locale)
		c.Set(ContextKeyLocalizer, localizer)

		// 2. Store in context.Context (for resolvers)
		// 通过修改 c.Request 的 Context 来传递到 GraphQL 层
		ctx := c.Request.Context()
		ctx = i18npkg.WithLocalizer(ctx, localizer)
		ctx = i18npkg.WithLocale(ctx, locale)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetLocalizer retrieves the Localizer from Gin context
func GetLocalizer(c *gin.Context) *i18n.Localizer {
	if localizer, exists := c.Get(ContextKeyLocalizer); exists {
		return localizer.(*i18n.Localizer)
	}
	// Fallback: try to get from request context
	return i18npkg.LocalizerFromContext(c.Request.Context())
}

// StatusFor maps an error kind to the HTTP status used outside GraphQL responses.
func StatusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindAuthentication:
		return http.StatusUnauthorized
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMiddleware 自动处理通过 c.Error(err) 上报的错误
// 类型化错误按 Kind 翻译后返回，其余错误统一为通用错误
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 检查是否有错误
		lastErr := c.Errors.Last()
		if lastErr == nil || c.Writer.Written() {
			return
		}

		localizer := GetLocalizer(c)

		if typed, ok := errs.As(lastErr.Err); ok && typed.Kind != errs.KindInternal {
			status := StatusFor(typed.Kind)
			if typed.Reason == errs.ReasonForbidden {
				status = http.StatusForbidden
			}
			c.JSON(status, gin.H{
				"error":  i18npkg.TWithData(localizer, typed.MsgID, typed.Data),
				"code":   typed.Code(),
				"reason": typed.Reason,
				"errors": i18npkg.TFields(localizer, typed.Fields),
			})
			return
		}

		// 非类型化错误，返回通用错误
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": i18npkg.T(localizer, i18npkg.ErrGeneric),
			"code":  "INTERNAL_SERVER_ERROR",
		})
	}
}
