package resolver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"

	apicontext "github.com/xzzpig/postboard/internal/api/context"
	"github.com/xzzpig/postboard/internal/api/graphql"
	"github.com/xzzpig/postboard/internal/api/graphql/dataloader"
	"github.com/xzzpig/postboard/internal/api/graphql/resolver"
	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/crypto"
	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/logger"
	"github.com/xzzpig/postboard/internal/core/services"
	"github.com/xzzpig/postboard/internal/i18n"
)

// TestEnv holds the components for GraphQL resolver testing.
type TestEnv struct {
	DB     *db.DB
	Codec  *auth.TokenCodec
	Router *gin.Engine
	Deps   *resolver.Dependencies
}

// NewTestEnv initializes a test environment with a file-based database and all services.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	logger.InitLogger(logger.EnvironmentDevelopment, logger.LogLevelDebug, nil)
	require.NoError(t, i18n.Init())

	// File-based database avoids shared-cache locking between concurrent resolvers
	d, err := db.InitDB(db.InitDBOptions{
		Dialect:       db.SQLite,
		DSN:           db.FileSDN(filepath.Join(t.TempDir(), "resolver.db")),
		MigrationMode: db.MigrationModeVersioned,
		Environment:   "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseDB(d) })

	hasher, err := crypto.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	codec := auth.NewTokenCodec([]byte("resolver-test-key"), time.Hour)

	deps := &resolver.Dependencies{
		Gate:           auth.NewGate(codec),
		UserService:    services.NewUserService(d, hasher, codec),
		PostService:    services.NewPostService(d),
		CommentService: services.NewCommentService(d),
		LikeService:    services.NewLikeService(d),
	}

	h, err := graphql.NewHandler(resolver.New(deps), graphql.Options{})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(apicontext.LocaleMiddleware())
	router.Use(apicontext.ScopeMiddleware())
	router.Use(dataloader.Middleware(d))
	router.POST("/graphql", graphql.GinHandler(h))

	return &TestEnv{DB: d, Codec: codec, Router: router, Deps: deps}
}

// GraphQLRequest represents a GraphQL request body.
type GraphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]any    `json:"variables,omitempty"`
	Headers   map[string]string `json:"-"`
}

// Execute posts req and returns the parsed response body.
func (e *TestEnv) Execute(t *testing.T, req GraphQLRequest) gjson.Result {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, "/graphql", bytes.NewBuffer(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.True(t, gjson.ValidBytes(w.Body.Bytes()), w.Body.String())

	return gjson.ParseBytes(w.Body.Bytes())
}

// Exec runs an anonymous request.
func (e *TestEnv) Exec(t *testing.T, query string, vars map[string]any) gjson.Result {
	t.Helper()
	return e.Execute(t, GraphQLRequest{Query: query, Variables: vars})
}

// ExecAs runs a request with a bearer token.
func (e *TestEnv) ExecAs(t *testing.T, token, query string, vars map[string]any) gjson.Result {
	t.Helper()
	return e.Execute(t, GraphQLRequest{
		Query:     query,
		Variables: vars,
		Headers:   map[string]string{"Authorization": "Bearer " + token},
	})
}

const registerMutation = `mutation Register($in: RegisterInput) {
	register(registerInput: $in) { id username email created_at token }
}`

// Register signs up username with a valid password and returns its token and id.
func (e *TestEnv) Register(t *testing.T, username string) (token, id string) {
	t.Helper()
	res := e.Exec(t, registerMutation, map[string]any{"in": map[string]any{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "Abcdef1!",
		"confirm_password": "Abcdef1!",
	}})
	require.False(t, res.Get("errors").Exists(), res.Raw)
	return res.Get("data.register.token").String(), res.Get("data.register.id").String()
}

// CreatePost publishes body as the token's owner and returns the post id.
func (e *TestEnv) CreatePost(t *testing.T, token, body string) string {
	t.Helper()
	res := e.ExecAs(t, token, `mutation($body: String!) { createPost(body: $body) { id } }`, map[string]any{"body": body})
	require.False(t, res.Get("errors").Exists(), res.Raw)
	return res.Get("data.createPost.id").String()
}

// CreateComment comments on postID and returns the comment id.
func (e *TestEnv) CreateComment(t *testing.T, token, postID, body string) string {
	t.Helper()
	res := e.ExecAs(t, token, `mutation($postId: String!, $body: String!) {
		createComment(postId: $postId, body: $body) { id }
	}`, map[string]any{"postId": postID, "body": body})
	require.False(t, res.Get("errors").Exists(), res.Raw)
	return res.Get("data.createComment.id").String()
}

// ResolverTestSuite is a base test suite for resolver tests.
type ResolverTestSuite struct {
	suite.Suite
	Env *TestEnv
}

// SetupTest runs before each test in the suite.
func (s *ResolverTestSuite) SetupTest() {
	s.Env = NewTestEnv(s.T())
}

// requireError asserts the response carries exactly one error with the given code and reason.
func (s *ResolverTestSuite) requireError(res gjson.Result, code, reason string) gjson.Result {
	s.T().Helper()
	s.Require().Equal(int64(1), res.Get("errors.#").Int(), res.Raw)
	e := res.Get("errors.0")
	s.Equal(code, e.Get("extensions.code").String(), res.Raw)
	if reason != "" {
		s.Equal(reason, e.Get("extensions.reason").String(), res.Raw)
	}
	return e
}

func (s *ResolverTestSuite) count(table string) int {
	var n int
	s.Require().NoError(s.Env.DB.SQL().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n))
	return n
}
