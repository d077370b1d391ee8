// Package schema embeds the GraphQL schema served at /graphql.
package schema

import _ "embed"

// SDL is the schema definition.
//
//go:embed schema.graphql
var SDL string
