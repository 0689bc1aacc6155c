// Package util - semantic version parsing, coercion and range satisfaction.
// Constraint evaluation coerces loose versions (v-prefix, two-part, ecosystem
// quirks) to the nearest valid semver; versions that cannot be coerced are
// excluded from evaluation entirely.
//
//revive:disable-next-line:var-naming
package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	npm "github.com/aquasecurity/go-npm-version/pkg"
	pep440 "github.com/aquasecurity/go-pep440-version"
)

// ParsedVersion holds parsed semantic version components
type ParsedVersion struct {
	Major *int
	Minor *int
	Patch *int
}

// ParseSemanticVersion parses a version string into numeric components
// Returns nil values for components that cannot be parsed
func ParseSemanticVersion(version string) *ParsedVersion {
	if version == "" {
		return &ParsedVersion{}
	}

	// Strip "go" prefix for Go stdlib versions (e.g., "go1.22.2") before semver
	// parsing since Masterminds/semver doesn't handle it
	cleanVersion := strings.TrimPrefix(version, "go")

	if v, err := semver.NewVersion(cleanVersion); err == nil {
		major := int(v.Major())
		minor := int(v.Minor())
		patch := int(v.Patch())

		return &ParsedVersion{
			Major: &major,
			Minor: &minor,
			Patch: &patch,
		}
	}

	// Fallback: try to parse manually for versions like "1.2" or "2"
	parts := strings.Split(cleanVersion, ".")
	result := &ParsedVersion{}

	if len(parts) >= 1 {
		if major, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			result.Major = &major
		}
	}
	if len(parts) >= 2 {
		if minor, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			result.Minor = &minor
		}
	}
	if len(parts) >= 3 {
		patchStr := strings.FieldsFunc(parts[2], func(r rune) bool {
			return r == '-' || r == '+'
		})[0]
		if patch, err := strconv.Atoi(strings.TrimSpace(patchStr)); err == nil {
			result.Patch = &patch
		}
	}

	return result
}

// CoerceSemver coerces a loose version string to the nearest valid semantic
// version. Returns false when no numeric components can be recovered at all
// (e.g. "latest").
func CoerceSemver(version string) (*semver.Version, bool) {
	if IsEmpty(version) {
		return nil, false
	}

	cleaned := strings.TrimSpace(version)
	cleaned = strings.TrimPrefix(cleaned, "v")
	cleaned = strings.TrimPrefix(cleaned, "go")

	if v, err := semver.NewVersion(cleaned); err == nil {
		return v, true
	}

	parsed := ParseSemanticVersion(cleaned)
	if parsed.Major == nil {
		return nil, false
	}

	minor := 0
	if parsed.Minor != nil {
		minor = *parsed.Minor
	}
	patch := 0
	if parsed.Patch != nil {
		patch = *parsed.Patch
	}

	v, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", *parsed.Major, minor, patch))
	if err != nil {
		return nil, false
	}
	return v, true
}

// ValidateRange checks a version-range expression for syntax errors.
func ValidateRange(rangeExpr string) error {
	if IsEmpty(rangeExpr) {
		return fmt.Errorf("empty version range")
	}
	_, err := semver.NewConstraint(rangeExpr)
	return err
}

// SatisfiesRange reports whether a version satisfies a range expression. The
// second return value is false when the version cannot be coerced to a
// semantic version, in which case the first value is meaningless.
func SatisfiesRange(version, rangeExpr string) (satisfied bool, comparable bool, err error) {
	constraint, err := semver.NewConstraint(rangeExpr)
	if err != nil {
		return false, false, fmt.Errorf("invalid version range %q: %w", rangeExpr, err)
	}

	v, ok := CoerceSemver(version)
	if !ok {
		return false, false, nil
	}

	return constraint.Check(v), true, nil
}

// CanonicalEcosystemVersion normalizes a raw version string using the
// ecosystem's own parser before semver coercion. npm and pypi have canonical
// forms (e.g. pep440 "1.0.post1") that plain semver parsing would mangle.
// Unknown ecosystems and unparseable versions pass through unchanged.
func CanonicalEcosystemVersion(version, ecosystem string) string {
	switch strings.ToLower(ecosystem) {
	case "npm":
		if v, err := npm.NewVersion(version); err == nil {
			return v.String()
		}
	case "pypi":
		if v, err := pep440.Parse(version); err == nil {
			return v.String()
		}
	}
	return version
}
