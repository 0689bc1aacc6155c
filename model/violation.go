// Package model - Violation records are derived, never persisted. Both
// evaluators share the summary shape and the severity-first ordering.
package model

// LicenseViolation is one (team, system, component, license) tuple breaching an
// active license-compliance policy the team is subject to.
type LicenseViolation struct {
	Team       string `json:"team"`
	System     string `json:"system"`
	Component  string `json:"component"`
	Version    string `json:"version,omitempty"`
	License    string `json:"license"`
	PolicyName string `json:"policy_name"`
	RuleType   string `json:"rule_type"`
	Severity   string `json:"severity"`
}

// VersionViolation is one (team, system, component, technology, constraint)
// tuple where the in-use version falls outside the constraint's range.
type VersionViolation struct {
	Team           string `json:"team"`
	System         string `json:"system"`
	Component      string `json:"component"`
	Version        string `json:"version"`
	Technology     string `json:"technology"`
	ConstraintName string `json:"constraint_name"`
	Range          string `json:"range"`
	Severity       string `json:"severity"`
}

// ViolationSummary counts violations by severity. It reflects the filtered
// result set actually returned, not the unfiltered graph state.
type ViolationSummary struct {
	Critical int `json:"critical"`
	Error    int `json:"error"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Total returns the summed violation count across severities.
func (s ViolationSummary) Total() int {
	return s.Critical + s.Error + s.Warning + s.Info
}

// ViolationFilters restrict an evaluation result set. Empty fields do not
// filter; populated fields are combined conjunctively.
type ViolationFilters struct {
	Severity string `json:"severity,omitempty"`
	Team     string `json:"team,omitempty"`
	System   string `json:"system,omitempty"`
	License  string `json:"license,omitempty"`
}

// LicenseViolationReport is the result of a license evaluation request.
type LicenseViolationReport struct {
	Violations []LicenseViolation `json:"violations"`
	Summary    ViolationSummary   `json:"summary"`
}

// VersionViolationReport is the result of a version-constraint evaluation request.
type VersionViolationReport struct {
	Violations []VersionViolation `json:"violations"`
	Summary    ViolationSummary   `json:"summary"`
}
