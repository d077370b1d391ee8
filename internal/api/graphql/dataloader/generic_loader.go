package dataloader

import (
	"context"

	"github.com/vikstrous/dataloadgen"

	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/i18n"
)

// QueryFunc is the batch query function type.
type QueryFunc[T any] func(ctx context.Context, ids []int64) ([]*T, error)

// IDFunc is the function type for getting the key an entity is loaded by.
type IDFunc[T any] func(*T) int64

// fail returns len(ids) copies of err.
func fail(ids []int64, err error) []error {
	errs := make([]error, len(ids))
	for i := range errs {
		errs[i] = err
	}
	return errs
}

// NewGenericLoader creates a dataloader for any entity type loaded by id.
// A missing id resolves to a NOT_FOUND error naming entityName.
func NewGenericLoader[T any](
	queryFunc QueryFunc[T],
	idFunc IDFunc[T],
	entityName string,
) *dataloadgen.Loader[int64, *T] {
	fetch := func(ctx context.Context, ids []int64) ([]*T, []error) {
		entities, err := queryFunc(ctx, ids)
		if err != nil {
			return nil, fail(ids, errs.Internal(err))
		}

		// Build a map for O(1) lookup
		entityMap := make(map[int64]*T, len(entities))
		for _, e := range entities {
			entityMap[idFunc(e)] = e
		}

		// Return results in the same order as requested IDs
		result := make([]*T, len(ids))
		loadErrs := make([]error, len(ids))
		for i, id := range ids {
			if e, ok := entityMap[id]; ok {
				result[i] = e
			} else {
				loadErrs[i] = errs.NotFound(i18n.ErrEntityNotFound, entityName, id)
			}
		}

		return result, loadErrs
	}

	return dataloadgen.NewLoader(fetch)
}

// NewGroupedLoader creates a dataloader returning every entity whose group key matches.
// Keys with no entities resolve to an empty slice.
func NewGroupedLoader[T any](
	queryFunc QueryFunc[T],
	groupFunc IDFunc[T],
) *dataloadgen.Loader[int64, []*T] {
	fetch := func(ctx context.Context, ids []int64) ([][]*T, []error) {
		entities, err := queryFunc(ctx, ids)
		if err != nil {
			return nil, fail(ids, errs.Internal(err))
		}

		groups := make(map[int64][]*T, len(ids))
		for _, e := range entities {
			key := groupFunc(e)
			groups[key] = append(groups[key], e)
		}

		result := make([][]*T, len(ids))
		for i, id := range ids {
			if group, ok := groups[id]; ok {
				result[i] = group
			} else {
				result[i] = []*T{}
			}
		}
		return result, nil
	}

	return dataloadgen.NewLoader(fetch)
}
