package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xzzpig/postboard/internal/core/auth"
	"github.com/xzzpig/postboard/internal/core/crypto"
	"github.com/xzzpig/postboard/internal/core/db"
)

type testEnv struct {
	DB       *db.DB
	Codec    *auth.TokenCodec
	Users    *UserService
	Posts    *PostService
	Comments *CommentService
	Likes    *LikeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	d, err := db.InitDB(db.InitDBOptions{
		Dialect:       db.SQLite,
		DSN:           db.FileSDN(filepath.Join(t.TempDir(), "services.db")),
		MigrationMode: db.MigrationModeVersioned,
		Environment:   "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseDB(d) })

	return newTestEnvOn(t, d)
}

// newTestEnvOn wires the services over an already migrated database.
func newTestEnvOn(t *testing.T, d *db.DB) *testEnv {
	t.Helper()

	hasher, err := crypto.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	codec := auth.NewTokenCodec([]byte("services-test-key"), time.Hour)

	return &testEnv{
		DB:       d,
		Codec:    codec,
		Users:    NewUserService(d, hasher, codec),
		Posts:    NewPostService(d),
		Comments: NewCommentService(d),
		Likes:    NewLikeService(d),
	}
}

// register creates a user with a valid password and returns its identity.
func (e *testEnv) register(t *testing.T, username string) auth.Identity {
	t.Helper()
	res, err := e.Users.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
	})
	require.NoError(t, err)
	return auth.Identity{ID: res.User.ID, Email: res.User.Email, Username: res.User.Username}
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.DB.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
