// Package util - PURL standardization helpers. The component identity key is
// purl-based, so every purl that enters the graph goes through CleanPURL first.
//
//revive:disable-next-line:var-naming
package util

import (
	"strings"

	"github.com/package-url/packageurl-go"
)

// CleanPURL removes qualifiers (after ?) but preserves the subpath (after #)
// to maintain module identity (e.g. #v2)
func CleanPURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	cleaned := packageurl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		Version:   parsed.Version,
		Subpath:   parsed.Subpath,
		// Qualifiers are intentionally omitted to clean the string
	}

	return strings.ToLower(cleaned.ToString()), nil
}

// GetBasePURL removes the version component from a PURL to create a base
// package identifier used for technology mapping.
// Example: pkg:npm/react@18.2.0 -> pkg:npm/react
func GetBasePURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}

	base := packageurl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		// Version, Qualifiers, Subpath intentionally omitted
	}

	return strings.ToLower(base.ToString()), nil
}

// ParsePURL parses a PURL string and returns the parsed PackageURL
func ParsePURL(purlStr string) (*packageurl.PackageURL, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ManagerFromPURL derives the package manager from the scheme segment of a purl
// (pkg:<manager>/...). Falls back to plain string slicing when the purl does
// not parse, since SPDX documents carry purls the strict parser rejects.
func ManagerFromPURL(purlStr string) string {
	if parsed, err := packageurl.FromString(purlStr); err == nil {
		return strings.ToLower(parsed.Type)
	}

	rest, ok := strings.CutPrefix(purlStr, "pkg:")
	if !ok {
		return ""
	}
	if idx := strings.IndexByte(rest, '/'); idx > 0 {
		return strings.ToLower(rest[:idx])
	}
	return ""
}

// NamespaceFromPURL derives the group/namespace from the path segment between
// the purl scheme and the package name, empty when absent.
// Example: pkg:maven/org.apache.commons/commons-lang3@3.12 -> org.apache.commons
func NamespaceFromPURL(purlStr string) string {
	if parsed, err := packageurl.FromString(purlStr); err == nil {
		return parsed.Namespace
	}

	rest, ok := strings.CutPrefix(purlStr, "pkg:")
	if !ok {
		return ""
	}
	if idx := strings.IndexByte(rest, '@'); idx > 0 {
		rest = rest[:idx]
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 3 {
		return ""
	}
	// pkg:<manager>/<namespace...>/<name>
	return strings.Join(parts[1:len(parts)-1], "/")
}
