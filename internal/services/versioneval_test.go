package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/assetgraph/govcat/model"
)

func reactConstraint(severity string) ConstraintRow {
	return ConstraintRow{
		Name:       "react-18-only",
		Technology: "React",
		Range:      ">=18.0.0 <19.0.0",
		Severity:   severity,
		Scope:      model.ScopeOrganization,
	}
}

func TestVersionEvaluatorFlagsOutOfRangeVersions(t *testing.T) {
	reader := &fakeGraphReader{
		versionRows: []VersionUsageRow{
			{Team: "payments", System: "shop-web", Component: "react", Version: "17.0.0", Ecosystem: "npm", Technology: "React"},
			{Team: "payments", System: "shop-web", Component: "react", Version: "18.2.0", Ecosystem: "npm", Technology: "React"},
		},
		constraints: []ConstraintRow{reactConstraint(model.SeverityError)},
	}

	report, err := (&VersionEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, "17.0.0", v.Version)
	assert.Equal(t, "React", v.Technology)
	assert.Equal(t, "react-18-only", v.ConstraintName)
	assert.Equal(t, ">=18.0.0 <19.0.0", v.Range)
	assert.Equal(t, model.ViolationSummary{Error: 1}, report.Summary)
}

func TestVersionEvaluatorExcludesUncoercibleVersions(t *testing.T) {
	reader := &fakeGraphReader{
		versionRows: []VersionUsageRow{
			{Team: "payments", System: "shop-web", Component: "react", Version: "latest", Ecosystem: "npm", Technology: "React"},
			{Team: "payments", System: "shop-web", Component: "react", Version: "", Ecosystem: "npm", Technology: "React"},
		},
		constraints: []ConstraintRow{reactConstraint(model.SeverityCritical)},
	}

	report, err := (&VersionEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)

	// neither a violation nor a pass: the row simply drops out
	assert.Empty(t, report.Violations)
	assert.Equal(t, 0, report.Summary.Total())
}

func TestVersionEvaluatorCoercesLooseVersions(t *testing.T) {
	reader := &fakeGraphReader{
		versionRows: []VersionUsageRow{
			{Team: "payments", System: "shop-web", Component: "react", Version: "v17.0", Ecosystem: "npm", Technology: "React"},
			{Team: "payments", System: "shop-web", Component: "react", Version: "18.2", Ecosystem: "npm", Technology: "React"},
		},
		constraints: []ConstraintRow{reactConstraint(model.SeverityError)},
	}

	report, err := (&VersionEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, "v17.0", report.Violations[0].Version, "the raw version string is reported")
}

func TestVersionEvaluatorMatchesTechnologyExactly(t *testing.T) {
	reader := &fakeGraphReader{
		versionRows: []VersionUsageRow{
			{Team: "payments", System: "shop-web", Component: "vue", Version: "2.7.0", Ecosystem: "npm", Technology: "Vue"},
		},
		constraints: []ConstraintRow{reactConstraint(model.SeverityError)},
	}

	report, err := (&VersionEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
}

func TestVersionEvaluatorSkipsEmptyRange(t *testing.T) {
	constraint := reactConstraint(model.SeverityError)
	constraint.Range = ""

	reader := &fakeGraphReader{
		versionRows: []VersionUsageRow{
			{Team: "payments", System: "shop-web", Component: "react", Version: "17.0.0", Ecosystem: "npm", Technology: "React"},
		},
		constraints: []ConstraintRow{constraint},
	}

	report, err := (&VersionEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
}

func TestVersionEvaluatorTeamScope(t *testing.T) {
	constraint := reactConstraint(model.SeverityError)
	constraint.Scope = model.ScopeTeam
	constraint.SubjectTeams = []string{"payments"}

	reader := &fakeGraphReader{
		versionRows: []VersionUsageRow{
			{Team: "payments", System: "shop-web", Component: "react", Version: "17.0.0", Ecosystem: "npm", Technology: "React"},
			{Team: "platform", System: "infra-tools", Component: "react", Version: "17.0.0", Ecosystem: "npm", Technology: "React"},
		},
		constraints: []ConstraintRow{constraint},
	}

	report, err := (&VersionEvaluator{Reader: reader}).Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, "payments", report.Violations[0].Team)
}

func TestVersionEvaluatorOrderingAndFilters(t *testing.T) {
	info := reactConstraint(model.SeverityInfo)
	info.Name = "react-18-advisory"

	critical := ConstraintRow{
		Name:       "node-lts",
		Technology: "Node.js",
		Range:      ">=20.0.0",
		Severity:   model.SeverityCritical,
		Scope:      model.ScopeOrganization,
	}

	reader := &fakeGraphReader{
		versionRows: []VersionUsageRow{
			{Team: "payments", System: "shop-web", Component: "react", Version: "17.0.0", Ecosystem: "npm", Technology: "React"},
			{Team: "payments", System: "shop-web", Component: "node", Version: "18.19.0", Technology: "Node.js"},
		},
		constraints: []ConstraintRow{info, critical},
	}

	evaluator := &VersionEvaluator{Reader: reader}

	report, err := evaluator.Evaluate(context.Background(), model.ViolationFilters{})
	require.NoError(t, err)
	require.Len(t, report.Violations, 2)
	assert.Equal(t, model.SeverityCritical, report.Violations[0].Severity)
	assert.Equal(t, model.SeverityInfo, report.Violations[1].Severity)

	filtered, err := evaluator.Evaluate(context.Background(), model.ViolationFilters{Severity: model.SeverityCritical})
	require.NoError(t, err)
	require.Len(t, filtered.Violations, 1)
	assert.Equal(t, "node-lts", filtered.Violations[0].ConstraintName)
	assert.Equal(t, model.ViolationSummary{Critical: 1}, filtered.Summary)
}

func TestVersionEvaluatorRejectsUnknownSeverityFilter(t *testing.T) {
	_, err := (&VersionEvaluator{Reader: &fakeGraphReader{}}).Evaluate(context.Background(),
		model.ViolationFilters{Severity: "sev1"})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}
