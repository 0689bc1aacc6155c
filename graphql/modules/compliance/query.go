// Package compliance defines the GraphQL queries for violation reporting.
package compliance

import (
	"github.com/graphql-go/graphql"
	"github.com/assetgraph/govcat/database"
)

func filterArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"severity": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		"team":     &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		"system":   &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
	}
}

// GetQueryFields returns the compliance queries to be mounted in the root schema
func GetQueryFields(db database.DBConnection) graphql.Fields {
	return graphql.Fields{
		// Full license evaluation: violations plus severity summary
		"licenseViolations": &graphql.Field{
			Type: LicenseReportType,
			Args: func() graphql.FieldConfigArgument {
				args := filterArgs()
				args["license"] = &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""}
				return args
			}(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveLicenseViolations(p, db)
			},
		},
		// Full version-constraint evaluation: violations plus severity summary
		"versionViolations": &graphql.Field{
			Type: VersionReportType,
			Args: filterArgs(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveVersionViolations(p, db)
			},
		},
		// Summary-only variants for dashboard cards
		"licenseViolationSummary": &graphql.Field{
			Type: ViolationSummaryType,
			Args: filterArgs(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveLicenseViolationSummary(p, db)
			},
		},
		"versionViolationSummary": &graphql.Field{
			Type: ViolationSummaryType,
			Args: filterArgs(),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveVersionViolationSummary(p, db)
			},
		},
		// Catalog coverage metrics
		"componentCount": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveComponentCount(p, db)
			},
		},
		"unmappedComponents": &graphql.Field{
			Type: graphql.NewList(ComponentType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveUnmappedComponents(p, db)
			},
		},
	}
}
