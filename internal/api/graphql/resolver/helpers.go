package resolver

import (
	"strconv"
	"strings"
	"time"

	"github.com/graph-gophers/graphql-go"

	"github.com/xzzpig/postboard/internal/core/errs"
	"github.com/xzzpig/postboard/internal/i18n"
)

// parseID converts a GraphQL ID into a store id.
func parseID(id graphql.ID) (int64, error) {
	return parseIDString(string(id))
}

func parseIDString(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		e := errs.Validation(errs.ReasonInvalidInput, i18n.ErrInvalidIDFormat, nil)
		e.Data = map[string]any{"ID": raw}
		return 0, e
	}
	return n, nil
}

func toID(id int64) graphql.ID {
	return graphql.ID(strconv.FormatInt(id, 10))
}

// formatTime renders created_at values.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
