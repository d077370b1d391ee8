package graphql

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	gqlgo "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/xzzpig/postboard/internal/api/graphql/resolver"
	"github.com/xzzpig/postboard/internal/api/graphql/schema"
	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/i18n"
)

// ErrEmptyQuery is returned for requests without a query document.
const ErrEmptyQuery ConstError = "query must not be empty"

// ConstError is an alias to errs.ConstError for defining sentinel errors in this package.
type ConstError = errs.ConstError

// Options configures the GraphQL handler. Zero values use the package defaults.
type Options struct {
	ComplexityLimit int
	MaxDepth        int
	MaxParallelism  int
	Observer        Observer
}

// Request is a GraphQL request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler executes GraphQL operations against the postboard schema.
type Handler struct {
	schema   *gqlgo.Schema
	inspect  *ast.Schema
	limit    int
	logger   *OperationLogger
	observer Observer
}

// NewHandler parses the schema and binds it to root.
func NewHandler(root *resolver.Resolver, opts Options) (*Handler, error) {
	if opts.ComplexityLimit <= 0 {
		opts.ComplexityLimit = DefaultComplexityLimit
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxParallelism <= 0 {
		opts.MaxParallelism = DefaultMaxParallelism
	}

	s, err := gqlgo.ParseSchema(schema.SDL, root,
		gqlgo.UseStringDescriptions(),
		gqlgo.MaxDepth(opts.MaxDepth),
		gqlgo.MaxParallelism(opts.MaxParallelism),
		gqlgo.Logger(panicLogger{}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	// graphql-go does not expose the parsed operation, so a second copy of the
	// schema is kept for inspecting requests before execution.
	inspect, loadErr := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schema.SDL})
	if loadErr != nil {
		return nil, fmt.Errorf("failed to load schema for inspection: %w", loadErr)
	}

	return &Handler{
		schema:   s,
		inspect:  inspect,
		limit:    opts.ComplexityLimit,
		logger:   NewOperationLogger(),
		observer: opts.Observer,
	}, nil
}

// GinHandler wraps the GraphQL handler for Gin compatibility.
// POST takes a JSON body; GET takes query, operationName and variables as query parameters.
func GinHandler(h *Handler) gin.HandlerFunc {
	return h.serve
}

func (h *Handler) serve(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	req, err := decodeRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, &gqlgo.Response{
			Errors: []*gqlerrors.QueryError{{
				Message:    err.Error(),
				Extensions: map[string]any{"code": "BAD_REQUEST"},
			}},
		})
		return
	}

	entry := operationLog{name: req.OperationName, query: req.Query, variables: req.Variables}

	// A document gqlparser rejects is passed through so graphql-go reports its own errors.
	if doc, list := gqlparser.LoadQuery(h.inspect, req.Query); len(list) == 0 {
		if op := doc.Operations.ForName(req.OperationName); op != nil {
			entry.operation = string(op.Operation)
			if entry.name == "" {
				entry.name = op.Name
			}

			if c.Request.Method == http.MethodGet && op.Operation == ast.Mutation {
				h.reject(c, http.StatusMethodNotAllowed, entry, start,
					requestError(ctx, CodeMethodNotAllowed, i18n.ErrMutationOverGet, nil))
				return
			}

			if complexity := OperationComplexity(op, doc.Fragments); complexity > h.limit {
				h.reject(c, http.StatusUnprocessableEntity, entry, start,
					requestError(ctx, CodeComplexityLimitExceeded, i18n.ErrComplexityExceeded, map[string]any{
						"Complexity": complexity,
						"Limit":      h.limit,
					}))
				return
			}
		}
	}

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	resp.Errors = PresentErrors(ctx, resp.Errors)

	entry.latency = time.Since(start)
	entry.errors = resp.Errors
	h.record(entry)

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) reject(c *gin.Context, status int, entry operationLog, start time.Time, qe *gqlerrors.QueryError) {
	entry.latency = time.Since(start)
	entry.errors = []*gqlerrors.QueryError{qe}
	h.record(entry)
	c.JSON(status, &gqlgo.Response{Errors: entry.errors})
}

func (h *Handler) record(entry operationLog) {
	h.logger.log(entry)
	if h.observer != nil {
		h.observer.ObserveOperation(entry.operation, entry.name, entry.latency, len(entry.errors))
	}
}

func decodeRequest(c *gin.Context) (*Request, error) {
	req := &Request{}
	switch c.Request.Method {
	case http.MethodGet:
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return nil, fmt.Errorf("invalid variables: %w", err)
			}
		}
	default:
		if err := c.ShouldBindJSON(req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
	}
	if req.Query == "" {
		return nil, ErrEmptyQuery
	}
	return req, nil
}

// PlaygroundHandler returns a handler for GraphiQL playground.
func PlaygroundHandler(endpoint string) gin.HandlerFunc {
	h := playground.Handler("GraphQL Playground", endpoint)
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
