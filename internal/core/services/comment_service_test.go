package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzzpig/postboard/internal/core/errs"
)

func TestCommentService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	post, err := env.Posts.CreatePost(ctx, alice, "hello")
	require.NoError(t, err)
	postID := post.Post.ID

	t.Run("CreateComment", func(t *testing.T) {
		c, err := env.Comments.CreateComment(ctx, bob, postID, "nice")
		require.NoError(t, err)
		assert.Equal(t, "nice", c.Body)
		assert.Equal(t, bob.ID, c.UserID)
		assert.Equal(t, postID, c.PostID)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		_, err := env.Comments.CreateComment(ctx, bob, postID, " ")
		requireReason(t, err, errs.KindValidation, errs.ReasonEmptyBody)
	})

	t.Run("MissingPost", func(t *testing.T) {
		_, err := env.Comments.CreateComment(ctx, bob, 9999, "orphan")
		requireReason(t, err, errs.KindNotFound, errs.ReasonNotFound)
	})

	t.Run("ListCommentsUncapped", func(t *testing.T) {
		for _, body := range []string{"two", "three"} {
			_, err := env.Comments.CreateComment(ctx, alice, postID, body)
			require.NoError(t, err)
		}
		comments, err := env.Comments.ListComments(ctx, postID)
		require.NoError(t, err)
		assert.Len(t, comments, 3)

		comments, err = env.Comments.ListComments(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("DeleteComment", func(t *testing.T) {
		c, err := env.Comments.CreateComment(ctx, bob, postID, "mine")
		require.NoError(t, err)

		t.Run("ForbiddenForNonAuthor", func(t *testing.T) {
			before := env.count(t, "comments")
			err := env.Comments.DeleteComment(ctx, alice, postID, c.ID)
			requireReason(t, err, errs.KindAuthentication, errs.ReasonForbidden)
			assert.Equal(t, before, env.count(t, "comments"))
		})

		t.Run("WrongPost", func(t *testing.T) {
			other, err := env.Posts.CreatePost(ctx, bob, "other")
			require.NoError(t, err)
			err = env.Comments.DeleteComment(ctx, bob, other.Post.ID, c.ID)
			requireReason(t, err, errs.KindNotFound, errs.ReasonNotFound)
		})

		t.Run("Author", func(t *testing.T) {
			before := env.count(t, "comments")
			require.NoError(t, env.Comments.DeleteComment(ctx, bob, postID, c.ID))
			assert.Equal(t, before-1, env.count(t, "comments"))
		})
	})
}
