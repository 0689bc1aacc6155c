package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/assetgraph/govcat/model"
)

func TestLicenseEvaluatorFlagsDisallowedLicenses(t *testing.T) {
	reader := &fakeGraphReader{
		licenseRows: []LicenseUsageRow{
			{Team: "payments", System: "shop-web", Component: "react", Version: "18.2.0", License: "MIT"},
			{Team: "payments", System: "shop-web", Component: "readline", Version: "8.1.0", License: "GPL-3.0-only"},
		},
		policies: []LicensePolicyRow{{
			Name:     "approved-licenses",
			Severity: model.SeverityError,
			Scope:    model.ScopeOrganization,
			Allowed:  map[string]bool{"MIT": true, "Apache-2.0": true},
		}},
	}

	report, err := (&LicenseEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, "readline", v.Component)
	assert.Equal(t, "GPL-3.0-only", v.License)
	assert.Equal(t, "approved-licenses", v.PolicyName)
	assert.Equal(t, model.RuleTypeLicenseCompliance, v.RuleType)
	assert.Equal(t, model.ViolationSummary{Error: 1}, report.Summary)
}

func TestLicenseEvaluatorTeamScope(t *testing.T) {
	reader := &fakeGraphReader{
		licenseRows: []LicenseUsageRow{
			{Team: "payments", System: "shop-web", Component: "readline", License: "GPL-3.0-only"},
			{Team: "platform", System: "infra-tools", Component: "readline", License: "GPL-3.0-only"},
		},
		policies: []LicensePolicyRow{{
			Name:         "payments-licenses",
			Severity:     model.SeverityCritical,
			Scope:        model.ScopeTeam,
			SubjectTeams: []string{"payments"},
			Allowed:      map[string]bool{"MIT": true},
		}},
	}

	report, err := (&LicenseEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)

	require.Len(t, report.Violations, 1, "team-scoped policy must not reach other teams")
	assert.Equal(t, "payments", report.Violations[0].Team)
}

func TestLicenseEvaluatorOrdering(t *testing.T) {
	reader := &fakeGraphReader{
		licenseRows: []LicenseUsageRow{
			{Team: "zeta", System: "z-svc", Component: "pkg-a", License: "GPL-3.0-only"},
			{Team: "alpha", System: "a-svc", Component: "pkg-b", License: "AGPL-3.0-only"},
			{Team: "alpha", System: "a-svc", Component: "pkg-a", License: "GPL-3.0-only"},
		},
		policies: []LicensePolicyRow{
			{Name: "warn-gpl", Severity: model.SeverityWarning, Scope: model.ScopeOrganization,
				Allowed: map[string]bool{"AGPL-3.0-only": true}},
			{Name: "block-agpl", Severity: model.SeverityCritical, Scope: model.ScopeOrganization,
				Allowed: map[string]bool{"GPL-3.0-only": true}},
		},
	}

	report, err := (&LicenseEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)
	require.Len(t, report.Violations, 3)

	// severity first, then team, system, component
	assert.Equal(t, model.SeverityCritical, report.Violations[0].Severity)
	assert.Equal(t, "pkg-b", report.Violations[0].Component)
	assert.Equal(t, model.SeverityWarning, report.Violations[1].Severity)
	assert.Equal(t, "alpha", report.Violations[1].Team)
	assert.Equal(t, "zeta", report.Violations[2].Team)

	assert.Equal(t, model.ViolationSummary{Critical: 1, Warning: 2}, report.Summary)
}

func TestLicenseEvaluatorFiltersConjunctively(t *testing.T) {
	reader := &fakeGraphReader{
		licenseRows: []LicenseUsageRow{
			{Team: "payments", System: "shop-web", Component: "pkg-a", License: "GPL-3.0-only"},
			{Team: "payments", System: "billing", Component: "pkg-b", License: "GPL-3.0-only"},
			{Team: "platform", System: "infra-tools", Component: "pkg-c", License: "AGPL-3.0-only"},
		},
		policies: []LicensePolicyRow{{
			Name:     "approved-licenses",
			Severity: model.SeverityError,
			Scope:    model.ScopeOrganization,
			Allowed:  map[string]bool{"MIT": true},
		}},
	}

	evaluator := &LicenseEvaluator{Reader: reader}

	report, err := evaluator.Evaluate(context.Background(), model.ViolationFilters{
		Team:   "payments",
		System: "shop-web",
	})
	require.NoError(t, err)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "pkg-a", report.Violations[0].Component)
	assert.Equal(t, 1, report.Summary.Total(), "summary reflects the filtered set")

	report, err = evaluator.Evaluate(context.Background(), model.ViolationFilters{
		License: "AGPL-3.0-only",
	})
	require.NoError(t, err)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "pkg-c", report.Violations[0].Component)
}

func TestLicenseEvaluatorRejectsUnknownSeverityFilter(t *testing.T) {
	evaluator := &LicenseEvaluator{Reader: &fakeGraphReader{}}

	_, err := evaluator.Evaluate(context.Background(), model.ViolationFilters{Severity: "urgent"})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestLicenseEvaluatorDeduplicatesTraversalRows(t *testing.T) {
	row := LicenseUsageRow{Team: "payments", System: "shop-web", Component: "readline", License: "GPL-3.0-only"}
	reader := &fakeGraphReader{
		licenseRows: []LicenseUsageRow{row, row},
		policies: []LicensePolicyRow{{
			Name:     "approved-licenses",
			Severity: model.SeverityError,
			Scope:    model.ScopeOrganization,
			Allowed:  map[string]bool{},
		}},
	}

	report, err := (&LicenseEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)
	assert.Len(t, report.Violations, 1)
}

func TestLicenseEvaluatorEmptyGraph(t *testing.T) {
	report, err := (&LicenseEvaluator{Reader: &fakeGraphReader{}}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
	assert.Equal(t, 0, report.Summary.Total())
}
