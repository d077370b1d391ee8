package context

import (
	"errors"

	"github.com/gin-gonic/gin"
)

func getContextValue[T any](c *gin.Context, key string) (T, error) {
	var zero T
	val, exists := c.Get(key)
	if !exists {
		return zero, errors.New(key + " not initialized")
	}
	return val.(T), nil
}

// GetScope retrieves the request Scope from the gin context
// Returns an error if ScopeMiddleware did not run
func GetScope(c *gin.Context) (*Scope, error) {
	return getContextValue[*Scope](c, ContextKeyScope)
}

// GetRequestID returns the request id, or "" before RequestIDMiddleware ran
func GetRequestID(c *gin.Context) string {
	id, err := getContextValue[string](c, ContextKeyRequestID)
	if err != nil {
		return ""
	}
	return id
}
