package dataloader

import (
	"github.com/vikstrous/dataloadgen"

	"github.com/xzzpig/postboard/internal/core/store"
)

// UserLoader batches and caches User loads.
type UserLoader = dataloadgen.Loader[int64, *store.User]

// NewUserLoader creates a new UserLoader.
func NewUserLoader(q *store.Queries) *UserLoader {
	return NewGenericLoader(q.GetUsersByIDs, func(u *store.User) int64 { return u.ID }, "user")
}
