package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/xzzpig/postboard/internal/core/db"
	"github.com/xzzpig/postboard/internal/core/errs"
)

// StoreSuite exercises Queries against whatever database Open returns.
type StoreSuite struct {
	suite.Suite
	Open func() *db.DB

	db  *db.DB
	q   *Queries
	ctx context.Context
}

// stepClock hands out strictly increasing timestamps one second apart.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func (s *StoreSuite) SetupTest() {
	s.db = s.Open()
	clock := &stepClock{cur: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.q = New(s.db).WithClock(clock.Now)
	s.ctx = context.Background()
}

func (s *StoreSuite) user(name string) *User {
	u, err := s.q.CreateUser(s.ctx, name, name+"@example.com", "hash")
	s.Require().NoError(err)
	return u
}

func (s *StoreSuite) post(u *User, body string) int64 {
	id, err := s.q.CreatePost(s.ctx, u.ID, body)
	s.Require().NoError(err)
	return id
}

func (s *StoreSuite) TestCreateAndGetUser() {
	u := s.user("alice")
	s.Positive(u.ID)

	byName, err := s.q.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(u.ID, byName.ID)
	s.Equal("alice@example.com", byName.Email)
	s.Equal("hash", byName.Password)
	s.True(u.CreatedAt.Equal(byName.CreatedAt), "created_at round-trips")

	byID, err := s.q.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	exists, err := s.q.UsernameExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.q.UsernameExists(s.ctx, "bob")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StoreSuite) TestGetUser_NotFound() {
	_, err := s.q.GetUserByUsername(s.ctx, "ghost")
	s.ErrorIs(err, errs.ErrNotFound)
	_, err = s.q.GetUserByID(s.ctx, 999)
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *StoreSuite) TestCreateUser_Conflicts() {
	s.user("alice")

	_, err := s.q.CreateUser(s.ctx, "alice", "other@example.com", "hash")
	s.ErrorIs(err, errs.ErrAlreadyExists)
	conflict, ok := AsConflict(err)
	s.Require().True(ok)
	s.Equal("username", conflict.Columns)

	_, err = s.q.CreateUser(s.ctx, "alice2", "alice@example.com", "hash")
	s.ErrorIs(err, errs.ErrAlreadyExists)
	conflict, ok = AsConflict(err)
	s.Require().True(ok)
	s.Equal("email", conflict.Columns)
}

func (s *StoreSuite) TestGetUsersByIDs() {
	a, b := s.user("alice"), s.user("bob")

	users, err := s.q.GetUsersByIDs(s.ctx, []int64{a.ID, b.ID, 999})
	s.Require().NoError(err)
	s.Len(users, 2)

	users, err = s.q.GetUsersByIDs(s.ctx, nil)
	s.NoError(err)
	s.Empty(users)
}

func (s *StoreSuite) TestListPosts_NewestFirstWithLimit() {
	u := s.user("alice")
	for i := 0; i < 5; i++ {
		s.post(u, fmt.Sprintf("post %d", i))
	}

	posts, err := s.q.ListPosts(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
	s.Equal("post 4", posts[0].Body)
	s.Equal("post 3", posts[1].Body)
	s.Equal("post 2", posts[2].Body)
	for _, p := range posts {
		s.Equal("alice", p.Username)
		s.Equal(u.ID, p.UserID)
	}
}

func (s *StoreSuite) TestGetPost() {
	u := s.user("alice")
	id := s.post(u, "hello")

	p, err := s.q.GetPost(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("hello", p.Body)
	s.Equal("alice", p.Username)

	_, err = s.q.GetPost(s.ctx, id+100)
	s.ErrorIs(err, errs.ErrNotFound)

	posts, err := s.q.GetPostsByIDs(s.ctx, []int64{id, id + 100})
	s.Require().NoError(err)
	s.Len(posts, 1)
}

func (s *StoreSuite) TestDeletePost_Cascades() {
	u := s.user("alice")
	id := s.post(u, "hello")
	_, err := s.q.CreateComment(s.ctx, u.ID, id, "nice")
	s.Require().NoError(err)
	_, err = s.q.CreateLike(s.ctx, u.ID, u.Username, id)
	s.Require().NoError(err)

	s.Require().NoError(s.q.DeletePost(s.ctx, id))

	comments, err := s.q.ListCommentsByPost(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(comments)
	likes, err := s.q.ListLikesByPost(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(likes)

	s.ErrorIs(s.q.DeletePost(s.ctx, id), errs.ErrNotFound)
}

func (s *StoreSuite) TestComments() {
	u := s.user("alice")
	first, second := s.post(u, "first"), s.post(u, "second")

	c1, err := s.q.CreateComment(s.ctx, u.ID, first, "one")
	s.Require().NoError(err)
	_, err = s.q.CreateComment(s.ctx, u.ID, first, "two")
	s.Require().NoError(err)

	all, err := s.q.ListCommentsByPost(s.ctx, first)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("two", all[0].Body)

	got, err := s.q.GetComment(s.ctx, c1.ID, first)
	s.Require().NoError(err)
	s.Equal("one", got.Body)

	_, err = s.q.GetComment(s.ctx, c1.ID, second)
	s.ErrorIs(err, errs.ErrNotFound, "comment lookups are scoped to the post")

	s.Require().NoError(s.q.DeleteComment(s.ctx, c1.ID))
	s.ErrorIs(s.q.DeleteComment(s.ctx, c1.ID), errs.ErrNotFound)
}

func (s *StoreSuite) TestListRecentCommentsByPosts() {
	u := s.user("alice")
	first, second, empty := s.post(u, "first"), s.post(u, "second"), s.post(u, "empty")
	for i := 0; i < 4; i++ {
		_, err := s.q.CreateComment(s.ctx, u.ID, first, fmt.Sprintf("f%d", i))
		s.Require().NoError(err)
	}
	_, err := s.q.CreateComment(s.ctx, u.ID, second, "s0")
	s.Require().NoError(err)

	comments, err := s.q.ListRecentCommentsByPosts(s.ctx, []int64{first, second, empty}, 2)
	s.Require().NoError(err)

	byPost := map[int64][]string{}
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c.Body)
		s.False(c.CreatedAt.IsZero())
	}
	s.Equal([]string{"f3", "f2"}, byPost[first])
	s.Equal([]string{"s0"}, byPost[second])
	s.Empty(byPost[empty])
}

func (s *StoreSuite) TestLikes() {
	a, b := s.user("alice"), s.user("bob")
	id := s.post(a, "hello")

	_, err := s.q.FindLike(s.ctx, a.ID, id)
	s.ErrorIs(err, errs.ErrNotFound)

	like, err := s.q.CreateLike(s.ctx, a.ID, a.Username, id)
	s.Require().NoError(err)
	s.Equal("alice", like.Username)

	_, err = s.q.CreateLike(s.ctx, a.ID, a.Username, id)
	s.ErrorIs(err, errs.ErrAlreadyExists)
	conflict, ok := AsConflict(err)
	s.Require().True(ok)
	s.Equal("user_id,post_id", conflict.Columns)

	_, err = s.q.CreateLike(s.ctx, b.ID, b.Username, id)
	s.Require().NoError(err)

	likes, err := s.q.ListLikesByPost(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(likes, 2)
	s.Equal("bob", likes[0].Username)

	found, err := s.q.FindLike(s.ctx, a.ID, id)
	s.Require().NoError(err)
	s.Equal(like.ID, found.ID)

	s.Require().NoError(s.q.DeleteLike(s.ctx, like.ID))
	_, err = s.q.FindLike(s.ctx, a.ID, id)
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *StoreSuite) TestListRecentLikesByPosts() {
	u := s.user("alice")
	id := s.post(u, "hello")
	for _, name := range []string{"bob", "carol", "dave"} {
		liker := s.user(name)
		_, err := s.q.CreateLike(s.ctx, liker.ID, liker.Username, id)
		s.Require().NoError(err)
	}

	likes, err := s.q.ListRecentLikesByPosts(s.ctx, []int64{id}, 2)
	s.Require().NoError(err)
	s.Require().Len(likes, 2)
	s.Equal("dave", likes[0].Username)
	s.Equal("carol", likes[1].Username)

	likes, err = s.q.ListRecentLikesByPosts(s.ctx, nil, 2)
	s.NoError(err)
	s.Empty(likes)
}

func (s *StoreSuite) TestQueriesInsideTransaction() {
	u := s.user("alice")

	err := s.db.InTx(s.ctx, func(tx *db.Tx) error {
		if _, err := New(tx).CreatePost(s.ctx, u.ID, "rolled back"); err != nil {
			return err
		}
		return errs.ErrSystem
	})
	s.ErrorIs(err, errs.ErrSystem)

	posts, err := s.q.ListPosts(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(posts)
}
