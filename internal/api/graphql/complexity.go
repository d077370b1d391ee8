// Package graphql serves the GraphQL endpoint and the playground.
package graphql

import (
	"github.com/vektah/gqlparser/v2/ast"
)

const (
	// DefaultComplexityLimit is the default maximum complexity allowed for a query.
	// Each field has a cost of 1, so this limits the total number of fields.
	DefaultComplexityLimit = 200

	// DefaultMaxDepth bounds selection nesting; enforced by graphql-go.
	DefaultMaxDepth = 10

	// DefaultMaxParallelism bounds concurrently resolved fields per request.
	DefaultMaxParallelism = 10
)

// maxFragmentDepth stops the walk on pathological fragment chains.
const maxFragmentDepth = 32

// OperationComplexity counts the fields an operation selects, expanding fragments.
func OperationComplexity(op *ast.OperationDefinition, fragments ast.FragmentDefinitionList) int {
	if op == nil {
		return 0
	}
	return selectionComplexity(op.SelectionSet, fragments, 0)
}

func selectionComplexity(set ast.SelectionSet, fragments ast.FragmentDefinitionList, depth int) int {
	if depth > maxFragmentDepth {
		return 0
	}
	total := 0
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			total += 1 + selectionComplexity(s.SelectionSet, fragments, depth)
		case *ast.InlineFragment:
			total += selectionComplexity(s.SelectionSet, fragments, depth)
		case *ast.FragmentSpread:
			def := s.Definition
			if def == nil {
				def = fragments.ForName(s.Name)
			}
			if def != nil {
				total += selectionComplexity(def.SelectionSet, fragments, depth+1)
			}
		}
	}
	return total
}
