// Package services - license violation evaluator. Joins component->license
// usage against the materialized allow-sets of active license-compliance
// policies. Evaluation is always allow-set based: denylist policies were
// collapsed to an effective allow-set on the write path, so a usage row
// violates a policy iff its license is not in the policy's allow-set.
package services

import (
	"context"
	"fmt"

	"github.com/assetgraph/govcat/model"
)

// LicenseEvaluator computes license violations from current graph state.
// Results are derived per request and never cached.
type LicenseEvaluator struct {
	Reader GraphReader
}

// Evaluate returns the severity-ordered violation set with its summary.
// Filters are conjunctive; an empty result is success, not an error.
func (ev *LicenseEvaluator) Evaluate(ctx context.Context, filters model.ViolationFilters) (*model.LicenseViolationReport, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	rows, err := ev.Reader.LicenseUsageRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("license usage traversal failed: %w", err)
	}

	policies, err := ev.Reader.ActiveLicensePolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy lookup failed: %w", err)
	}

	violations := []model.LicenseViolation{}
	seen := make(map[string]bool)

	for _, row := range rows {
		for _, policy := range policies {
			if !policyAppliesToTeam(policy.Scope, policy.SubjectTeams, row.Team) {
				continue
			}
			if policy.Allowed[row.License] {
				continue
			}

			violation := model.LicenseViolation{
				Team:       row.Team,
				System:     row.System,
				Component:  row.Component,
				Version:    row.Version,
				License:    row.License,
				PolicyName: policy.Name,
				RuleType:   model.RuleTypeLicenseCompliance,
				Severity:   policy.Severity,
			}

			if !matchLicenseFilters(violation, filters) {
				continue
			}

			// The traversal may return the same tuple through multiple owning
			// teams' paths; keep the result set distinct.
			key := violation.Team + "\x00" + violation.System + "\x00" + violation.Component + "\x00" + violation.License + "\x00" + violation.PolicyName
			if seen[key] {
				continue
			}
			seen[key] = true

			violations = append(violations, violation)
		}
	}

	sortLicenseViolations(violations)

	severities := make([]string, len(violations))
	for i, violation := range violations {
		severities[i] = violation.Severity
	}

	return &model.LicenseViolationReport{
		Violations: violations,
		Summary:    summarizeSeverities(severities),
	}, nil
}

func matchLicenseFilters(v model.LicenseViolation, filters model.ViolationFilters) bool {
	if filters.Severity != "" && v.Severity != filters.Severity {
		return false
	}
	if filters.Team != "" && v.Team != filters.Team {
		return false
	}
	if filters.System != "" && v.System != filters.System {
		return false
	}
	if filters.License != "" && v.License != filters.License {
		return false
	}
	return true
}
