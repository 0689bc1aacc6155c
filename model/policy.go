// Package model - Policy and VersionConstraint define the governance rules the
// evaluators run against, together with their severity, scope and status
// vocabularies.
package model

import (
	"fmt"
	"time"
)

// Rule severities, ranked. Critical sorts first in violation reports.
const (
	SeverityCritical = "critical"
	SeverityError    = "error"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Rule scopes.
const (
	ScopeOrganization = "organization"
	ScopeTeam         = "team"
)

// Rule statuses. Only active rules are visible to the evaluators.
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// License policy modes.
const (
	LicenseModeAllowlist = "allowlist"
	LicenseModeDenylist  = "denylist"
)

// RuleTypeLicenseCompliance is the rule type of license allow/deny policies.
const RuleTypeLicenseCompliance = "license-compliance"

// SeverityRank returns the sort rank for a severity (critical=1 .. info=4).
// Unknown severities rank last.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 1
	case SeverityError:
		return 2
	case SeverityWarning:
		return 3
	case SeverityInfo:
		return 4
	}
	return 5
}

// ValidSeverity reports whether severity is one of the recognized values.
func ValidSeverity(severity string) bool {
	return SeverityRank(severity) < 5
}

// ValidStatusTransition reports whether a rule may move from one status to
// another: draft <-> active, active -> archived. Archived is terminal for
// evaluation but administrative reactivation is not blocked here.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case StatusDraft:
		return to == StatusActive
	case StatusActive:
		return to == StatusDraft || to == StatusArchived
	case StatusArchived:
		return to == StatusActive
	}
	return false
}

// Policy represents a governance rule stored in the database. For
// license-compliance policies the referenced licenses are kept on the policy
// document as declared; the effective allow-set is materialized as
// policy2license edges at write time.
type Policy struct {
	Key         string    `json:"_key,omitempty"`
	ObjType     string    `json:"objtype,omitempty"`
	Name        string    `json:"name"`
	RuleType    string    `json:"rule_type"`
	Severity    string    `json:"severity"`
	Scope       string    `json:"scope"`
	Status      string    `json:"status"`
	LicenseMode string    `json:"license_mode,omitempty"`
	LicenseIDs  []string  `json:"license_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// VersionConstraint is a governance rule pinning a single technology to a
// semantic version range. Same scope/status/severity shape as Policy, stored
// and evaluated separately.
type VersionConstraint struct {
	Key        string    `json:"_key,omitempty"`
	ObjType    string    `json:"objtype,omitempty"`
	Name       string    `json:"name"`
	Technology string    `json:"technology"`
	Range      string    `json:"range"`
	Severity   string    `json:"severity"`
	Scope      string    `json:"scope"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// Validate checks the policy's vocabulary fields.
func (p *Policy) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Value: "", Reason: "policy name is required"}
	}
	if !ValidSeverity(p.Severity) {
		return &ValidationError{Field: "severity", Value: p.Severity, Reason: "unrecognized severity"}
	}
	if p.Scope != ScopeOrganization && p.Scope != ScopeTeam {
		return &ValidationError{Field: "scope", Value: p.Scope, Reason: "unrecognized scope"}
	}
	if p.Status != StatusDraft && p.Status != StatusActive && p.Status != StatusArchived {
		return &ValidationError{Field: "status", Value: p.Status, Reason: "unrecognized status"}
	}
	if p.RuleType == RuleTypeLicenseCompliance {
		if p.LicenseMode != LicenseModeAllowlist && p.LicenseMode != LicenseModeDenylist {
			return &ValidationError{Field: "license_mode", Value: p.LicenseMode, Reason: "unrecognized license mode"}
		}
	}
	return nil
}

// Validate checks the constraint's vocabulary fields. Range syntax is checked
// by the caller against the semver parser so the error carries the parse detail.
func (v *VersionConstraint) Validate() error {
	if v.Name == "" {
		return &ValidationError{Field: "name", Value: "", Reason: "constraint name is required"}
	}
	if v.Technology == "" {
		return &ValidationError{Field: "technology", Value: "", Reason: "constraint technology is required"}
	}
	if !ValidSeverity(v.Severity) {
		return &ValidationError{Field: "severity", Value: v.Severity, Reason: "unrecognized severity"}
	}
	if v.Scope != ScopeOrganization && v.Scope != ScopeTeam {
		return &ValidationError{Field: "scope", Value: v.Scope, Reason: "unrecognized scope"}
	}
	if v.Status != StatusDraft && v.Status != StatusActive && v.Status != StatusArchived {
		return &ValidationError{Field: "status", Value: v.Status, Reason: "unrecognized status"}
	}
	return nil
}

// NewPolicy creates a Policy with default values.
func NewPolicy(name string) *Policy {
	now := time.Now().UTC()
	return &Policy{
		ObjType:   "Policy",
		Name:      name,
		Status:    StatusDraft,
		Scope:     ScopeOrganization,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewVersionConstraint creates a VersionConstraint with default values.
func NewVersionConstraint(name, technology, versionRange string) *VersionConstraint {
	now := time.Now().UTC()
	return &VersionConstraint{
		ObjType:    "VersionConstraint",
		Name:       name,
		Technology: technology,
		Range:      versionRange,
		Status:     StatusDraft,
		Scope:      ScopeOrganization,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// String implements fmt.Stringer for log output.
func (p *Policy) String() string {
	return fmt.Sprintf("%s (%s/%s/%s)", p.Name, p.RuleType, p.Severity, p.Status)
}
