// Package graphql assembles the root query schema from the per-domain
// modules.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/graphql/modules/compliance"
)

var db database.DBConnection

// InitDB stores the database connection for the resolvers.
func InitDB(database database.DBConnection) {
	db = database
}

// CreateSchema builds the root GraphQL schema. InitDB must be called first.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}

	for name, field := range compliance.GetQueryFields(db) {
		fields[name] = field
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}
