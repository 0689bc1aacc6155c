// Package compliance defines the GraphQL types for violation reporting.
package compliance

import (
	"github.com/graphql-go/graphql"
)

// ViolationSummaryType represents violation counts grouped by severity
var ViolationSummaryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ViolationSummary",
	Fields: graphql.Fields{
		"critical": &graphql.Field{Type: graphql.Int},
		"error":    &graphql.Field{Type: graphql.Int},
		"warning":  &graphql.Field{Type: graphql.Int},
		"info":     &graphql.Field{Type: graphql.Int},
	},
})

// LicenseViolationType represents one component/license pair breaching a policy
var LicenseViolationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LicenseViolation",
	Fields: graphql.Fields{
		"team":        &graphql.Field{Type: graphql.String},
		"system":      &graphql.Field{Type: graphql.String},
		"component":   &graphql.Field{Type: graphql.String},
		"version":     &graphql.Field{Type: graphql.String},
		"license":     &graphql.Field{Type: graphql.String},
		"policy_name": &graphql.Field{Type: graphql.String},
		"rule_type":   &graphql.Field{Type: graphql.String},
		"severity":    &graphql.Field{Type: graphql.String},
	},
})

// VersionViolationType represents one component version outside a constraint range
var VersionViolationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VersionViolation",
	Fields: graphql.Fields{
		"team":            &graphql.Field{Type: graphql.String},
		"system":          &graphql.Field{Type: graphql.String},
		"component":       &graphql.Field{Type: graphql.String},
		"version":         &graphql.Field{Type: graphql.String},
		"technology":      &graphql.Field{Type: graphql.String},
		"constraint_name": &graphql.Field{Type: graphql.String},
		"range":           &graphql.Field{Type: graphql.String},
		"severity":        &graphql.Field{Type: graphql.String},
	},
})

// LicenseReportType represents the full license evaluation result
var LicenseReportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LicenseViolationReport",
	Fields: graphql.Fields{
		"violations": &graphql.Field{Type: graphql.NewList(LicenseViolationType)},
		"summary":    &graphql.Field{Type: ViolationSummaryType},
	},
})

// VersionReportType represents the full version-constraint evaluation result
var VersionReportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VersionViolationReport",
	Fields: graphql.Fields{
		"violations": &graphql.Field{Type: graphql.NewList(VersionViolationType)},
		"summary":    &graphql.Field{Type: ViolationSummaryType},
	},
})

// ComponentType represents a cataloged component
var ComponentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Component",
	Fields: graphql.Fields{
		"_key":            &graphql.Field{Type: graphql.String},
		"name":            &graphql.Field{Type: graphql.String},
		"version":         &graphql.Field{Type: graphql.String},
		"purl":            &graphql.Field{Type: graphql.String},
		"package_manager": &graphql.Field{Type: graphql.String},
	},
})
