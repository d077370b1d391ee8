// Package services provides business logic services for the application.
package services

import (
	"errors"

	"github.com/xzzpig/postboard/internal/core/errs"
)

const (
	// FeedLimit caps getPosts.
	FeedLimit = 2
	// NestedLimit caps Post.comments and Post.likes.
	NestedLimit = 2
)

// notFoundOr maps a store ErrNotFound to a typed NotFound error and anything else to Internal.
func notFoundOr(err error, msgID, entity string, id int64) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound(msgID, entity, id).WithCause(err)
	}
	return errs.Internal(err)
}
