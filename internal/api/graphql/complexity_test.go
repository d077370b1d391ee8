package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/xzzpig/postboard/internal/api/graphql/schema"
)

func TestOperationComplexity(t *testing.T) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schema.SDL})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"single field", `{ getPosts { id } }`, 2},
		{"nested", `{ getPosts { id comments { id user { username } } } }`, 6},
		{"aliases count separately", `{ a: getPosts { id } b: getPosts { id } }`, 4},
		{"fragment spread", `
			query { getPosts { ...P } }
			fragment P on Post { id body likes { id } }`, 5},
		{"inline fragment", `{ getPosts { ... on Post { id body } } }`, 3},
		{"nested fragments", `
			query { getPosts { ...P } }
			fragment P on Post { id comments { ...C } }
			fragment C on Comment { id body }`, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, list := gqlparser.LoadQuery(s, tt.query)
			require.Empty(t, list)
			assert.Equal(t, tt.want, OperationComplexity(doc.Operations[0], doc.Fragments))
		})
	}

	assert.Zero(t, OperationComplexity(nil, nil))
}
