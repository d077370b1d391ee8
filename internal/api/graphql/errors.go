package graphql

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/i18n"
)

const (
	// CodeInternal is the extensions.code of every masked error.
	CodeInternal = "INTERNAL_SERVER_ERROR"
	// CodeComplexityLimitExceeded is returned for operations above the complexity limit.
	CodeComplexityLimitExceeded = "COMPLEXITY_LIMIT_EXCEEDED"
	// CodeMethodNotAllowed is returned for mutations sent over GET.
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// panicPrefix is how graphql-go words a recovered resolver panic.
const panicPrefix = "panic occurred"

// errorsLog returns a named logger for the graphql errors package.
func errorsLog() *zap.Logger {
	return logger.Named("api.graphql.errors")
}

// PresentErrors rewrites resolver errors in place for the client.
// Typed errors are translated with the request localizer; everything else is masked.
func PresentErrors(ctx context.Context, list []*gqlerrors.QueryError) []*gqlerrors.QueryError {
	for _, qe := range list {
		presentError(ctx, qe)
	}
	return list
}

func presentError(ctx context.Context, qe *gqlerrors.QueryError) {
	if qe == nil {
		return
	}
	if qe.ResolverError == nil {
		// Query syntax and validation errors are safe to show; recovered panics are not.
		if strings.HasPrefix(qe.Message, panicPrefix) {
			mask(ctx, qe)
		}
		return
	}

	if typed, ok := errs.As(qe.ResolverError); ok && typed.Kind != errs.KindInternal {
		localizer := i18n.LocalizerFromContext(ctx)
		qe.Message = i18n.TWithData(localizer, typed.MsgID, typed.Data)
		ext := map[string]any{
			"code":   typed.Code(),
			"reason": string(typed.Reason),
		}
		if fields := i18n.TFields(localizer, typed.Fields); fields != nil {
			ext["errors"] = fields
		}
		qe.Extensions = ext
		return
	}

	errorsLog().Error("GraphQL resolver failed",
		zap.Any("path", qe.Path),
		zap.Error(qe.ResolverError),
	)
	mask(ctx, qe)
}

func mask(ctx context.Context, qe *gqlerrors.QueryError) {
	qe.Message = i18n.Ctx(ctx, i18n.ErrGeneric)
	qe.Extensions = map[string]any{"code": CodeInternal}
}

// requestError builds a top-level error that never reached execution.
func requestError(ctx context.Context, code, msgID string, data map[string]any) *gqlerrors.QueryError {
	return &gqlerrors.QueryError{
		Message:    i18n.CtxWithData(ctx, msgID, data),
		Extensions: map[string]any{"code": code},
	}
}

// panicLogger records resolver panics recovered by graphql-go.
// It logs the panic details including stack trace for debugging purposes.
type panicLogger struct{}

// LogPanic implements graphql-go's log.Logger.
func (panicLogger) LogPanic(_ context.Context, value interface{}) {
	errorsLog().Error("GraphQL resolver panic recovered",
		zap.String("panic", fmt.Sprintf("%v", value)),
		zap.String("stack", string(debug.Stack())),
	)
}
