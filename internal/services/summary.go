// Package services - violation summarization and ordering shared by both
// evaluators.
package services

import (
	"sort"

	"github.com/assetgraph/govcat/model"
)

// summarizeSeverities counts one severity occurrence per violation. The input
// is the filtered set actually returned to the caller.
func summarizeSeverities(severities []string) model.ViolationSummary {
	var summary model.ViolationSummary
	for _, severity := range severities {
		switch severity {
		case model.SeverityCritical:
			summary.Critical++
		case model.SeverityError:
			summary.Error++
		case model.SeverityWarning:
			summary.Warning++
		case model.SeverityInfo:
			summary.Info++
		}
	}
	return summary
}

// sortLicenseViolations orders by severity rank, then team, system and
// component name, ascending.
func sortLicenseViolations(violations []model.LicenseViolation) {
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if ra, rb := model.SeverityRank(a.Severity), model.SeverityRank(b.Severity); ra != rb {
			return ra < rb
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.System != b.System {
			return a.System < b.System
		}
		return a.Component < b.Component
	})
}

func sortVersionViolations(violations []model.VersionViolation) {
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if ra, rb := model.SeverityRank(a.Severity), model.SeverityRank(b.Severity); ra != rb {
			return ra < rb
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.System != b.System {
			return a.System < b.System
		}
		return a.Component < b.Component
	})
}

// validateFilters rejects unrecognized filter vocabulary up front.
func validateFilters(filters model.ViolationFilters) error {
	if filters.Severity != "" && !model.ValidSeverity(filters.Severity) {
		return &model.ValidationError{Field: "severity", Value: filters.Severity, Reason: "unrecognized severity"}
	}
	return nil
}

// policyAppliesToTeam implements rule scoping: organization-scope rules apply
// to every team, team-scope rules only to their subject teams.
func policyAppliesToTeam(scope string, subjectTeams []string, team string) bool {
	if scope == model.ScopeOrganization {
		return true
	}
	for _, subject := range subjectTeams {
		if subject == team {
			return true
		}
	}
	return false
}
