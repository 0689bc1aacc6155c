// Package services - version constraint evaluator. Joins
// component->technology usage against active version constraints and checks
// semantic-version range satisfaction.
package services

import (
	"context"
	"fmt"

	"github.com/assetgraph/govcat/model"
	"github.com/assetgraph/govcat/util"
)

// VersionEvaluator computes version-constraint violations from current graph
// state.
type VersionEvaluator struct {
	Reader GraphReader
}

// Evaluate returns the severity-ordered violation set with its summary.
//
// A candidate row is a violation only when the constraint declares a non-empty
// range, the component declares a version, and the version — coerced to the
// nearest valid semver — does not satisfy the range. Rows whose version cannot
// be coerced are excluded entirely, counted neither as violations nor passes.
func (ev *VersionEvaluator) Evaluate(ctx context.Context, filters model.ViolationFilters) (*model.VersionViolationReport, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	rows, err := ev.Reader.VersionUsageRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("technology usage traversal failed: %w", err)
	}

	constraints, err := ev.Reader.ActiveVersionConstraints(ctx)
	if err != nil {
		return nil, fmt.Errorf("constraint lookup failed: %w", err)
	}

	violations := []model.VersionViolation{}
	seen := make(map[string]bool)

	for _, row := range rows {
		if util.IsEmpty(row.Version) {
			continue
		}

		for _, constraint := range constraints {
			if constraint.Technology != row.Technology {
				continue
			}
			if util.IsEmpty(constraint.Range) {
				continue
			}
			if !policyAppliesToTeam(constraint.Scope, constraint.SubjectTeams, row.Team) {
				continue
			}

			version := util.CanonicalEcosystemVersion(row.Version, row.Ecosystem)
			satisfied, comparable, err := util.SatisfiesRange(version, constraint.Range)
			if err != nil {
				return nil, err
			}
			if !comparable || satisfied {
				continue
			}

			violation := model.VersionViolation{
				Team:           row.Team,
				System:         row.System,
				Component:      row.Component,
				Version:        row.Version,
				Technology:     row.Technology,
				ConstraintName: constraint.Name,
				Range:          constraint.Range,
				Severity:       constraint.Severity,
			}

			if !matchVersionFilters(violation, filters) {
				continue
			}

			key := violation.Team + "\x00" + violation.System + "\x00" + violation.Component + "\x00" + violation.Technology + "\x00" + violation.ConstraintName
			if seen[key] {
				continue
			}
			seen[key] = true

			violations = append(violations, violation)
		}
	}

	sortVersionViolations(violations)

	severities := make([]string, len(violations))
	for i, violation := range violations {
		severities[i] = violation.Severity
	}

	return &model.VersionViolationReport{
		Violations: violations,
		Summary:    summarizeSeverities(severities),
	}, nil
}

func matchVersionFilters(v model.VersionViolation, filters model.ViolationFilters) bool {
	if filters.Severity != "" && v.Severity != filters.Severity {
		return false
	}
	if filters.Team != "" && v.Team != filters.Team {
		return false
	}
	if filters.System != "" && v.System != filters.System {
		return false
	}
	return true
}
