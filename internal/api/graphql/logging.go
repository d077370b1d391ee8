package graphql

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xzzpig/postboard/internal/core/logger"
)

// Observer receives one call per executed operation.
type Observer interface {
	ObserveOperation(operation, name string, latency time.Duration, errCount int)
}

// operationLog describes one executed operation.
type operationLog struct {
	name      string
	operation string
	query     string
	variables map[string]any
	latency   time.Duration
	errors    []*gqlerrors.QueryError
}

// OperationLogger logs GraphQL operations.
type OperationLogger struct {
	Logger *zap.Logger
}

// NewOperationLogger creates a new operation logger.
func NewOperationLogger() *OperationLogger {
	return &OperationLogger{
		Logger: logger.Named("api.graphql"),
	}
}

func (l *OperationLogger) log(entry operationLog) {
	// 基础日志字段
	fields := []zap.Field{
		zap.String("operationName", entry.name),
		zap.Duration("latency", entry.latency),
	}
	if entry.operation != "" {
		fields = append(fields, zap.String("operation", entry.operation))
	}

	// DEBUG 级别：记录查询和变量，密码类参数先抹掉
	if l.Logger.Core().Enabled(zapcore.DebugLevel) {
		if query, ok := redactQuery(entry.query); ok {
			fields = append(fields, zap.String("rawQuery", query))
		} else {
			sum := sha256.Sum256([]byte(entry.query))
			fields = append(fields, zap.String("queryHash", hex.EncodeToString(sum[:])))
		}
		fields = append(fields, zap.Any("variables", redact(entry.variables)))
	}

	if len(entry.errors) == 0 {
		l.Logger.Info("GraphQL operation completed", fields...)
		return
	}

	msgs := make([]string, len(entry.errors))
	for i, err := range entry.errors {
		msgs[i] = err.Message
	}
	fields = append(fields, zap.Strings("errors", msgs))
	l.Logger.Warn("GraphQL operation completed with errors", fields...)
}

// sensitiveVariables name the variables, arguments and input fields that are never
// written to the log, even at debug level.
var sensitiveVariables = map[string]struct{}{
	"password":         {},
	"confirm_password": {},
	"token":            {},
}

func redact(vars map[string]any) map[string]any {
	if len(vars) == 0 {
		return vars
	}
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		if _, ok := sensitiveVariables[k]; ok {
			out[k] = redacted
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = redact(nested)
			continue
		}
		out[k] = v
	}
	return out
}

const redacted = "[REDACTED]"

// redactQuery reprints query with sensitive literal arguments replaced.
// A query that does not parse is reported as not ok and must not be logged verbatim.
func redactQuery(query string) (string, bool) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return "", false
	}
	for _, op := range doc.Operations {
		redactSelections(op.SelectionSet)
	}
	for _, frag := range doc.Fragments {
		redactSelections(frag.SelectionSet)
	}

	var b strings.Builder
	formatter.NewFormatter(&b, formatter.WithCompacted()).FormatQueryDocument(doc)
	return strings.TrimSpace(b.String()), true
}

func redactSelections(set ast.SelectionSet) {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *ast.Field:
			for _, arg := range sel.Arguments {
				redactValue(arg.Name, arg.Value)
			}
			redactSelections(sel.SelectionSet)
		case *ast.InlineFragment:
			redactSelections(sel.SelectionSet)
		}
	}
}

func redactValue(name string, v *ast.Value) {
	if v == nil || v.Kind == ast.Variable {
		return
	}
	if _, ok := sensitiveVariables[name]; ok {
		v.Kind, v.Raw, v.Children = ast.StringValue, redacted, nil
		return
	}
	for _, child := range v.Children {
		if v.Kind == ast.ListValue {
			redactValue(name, child.Value)
			continue
		}
		redactValue(child.Name, child.Value)
	}
}
