// Package compliance implements the resolvers for violation reporting.
package compliance

import (
	"github.com/graphql-go/graphql"
	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/internal/services"
	"github.com/assetgraph/govcat/model"
)

func filtersFromArgs(p graphql.ResolveParams) model.ViolationFilters {
	filters := model.ViolationFilters{}
	if v, ok := p.Args["severity"].(string); ok {
		filters.Severity = v
	}
	if v, ok := p.Args["team"].(string); ok {
		filters.Team = v
	}
	if v, ok := p.Args["system"].(string); ok {
		filters.System = v
	}
	if v, ok := p.Args["license"].(string); ok {
		filters.License = v
	}
	return filters
}

// ResolveLicenseViolations evaluates active license policies against current usage
func ResolveLicenseViolations(p graphql.ResolveParams, db database.DBConnection) (interface{}, error) {
	evaluator := &services.LicenseEvaluator{Reader: database.NewGraphStore(db)}
	return evaluator.Evaluate(p.Context, filtersFromArgs(p))
}

// ResolveVersionViolations evaluates active version constraints against current usage
func ResolveVersionViolations(p graphql.ResolveParams, db database.DBConnection) (interface{}, error) {
	evaluator := &services.VersionEvaluator{Reader: database.NewGraphStore(db)}
	return evaluator.Evaluate(p.Context, filtersFromArgs(p))
}

// ResolveLicenseViolationSummary returns only the severity counts for license violations
func ResolveLicenseViolationSummary(p graphql.ResolveParams, db database.DBConnection) (interface{}, error) {
	evaluator := &services.LicenseEvaluator{Reader: database.NewGraphStore(db)}
	report, err := evaluator.Evaluate(p.Context, filtersFromArgs(p))
	if err != nil {
		return nil, err
	}
	return report.Summary, nil
}

// ResolveVersionViolationSummary returns only the severity counts for version violations
func ResolveVersionViolationSummary(p graphql.ResolveParams, db database.DBConnection) (interface{}, error) {
	evaluator := &services.VersionEvaluator{Reader: database.NewGraphStore(db)}
	report, err := evaluator.Evaluate(p.Context, filtersFromArgs(p))
	if err != nil {
		return nil, err
	}
	return report.Summary, nil
}

// ResolveComponentCount returns the total number of cataloged components
func ResolveComponentCount(p graphql.ResolveParams, db database.DBConnection) (interface{}, error) {
	return database.NewGraphStore(db).ComponentCount(p.Context)
}

// ResolveUnmappedComponents returns components with no is-version-of relation
// to any curated technology
func ResolveUnmappedComponents(p graphql.ResolveParams, db database.DBConnection) (interface{}, error) {
	return database.NewGraphStore(db).UnmappedComponents(p.Context)
}
