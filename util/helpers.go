// Package util provides utility functions for working with Package URLs (PURLs),
// semantic version coercion and range checks, and extracting metadata from the
// environment.
//
//revive:disable-next-line:var-naming
package util

import (
	"os"
	"strings"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// Contains checks if a string slice contains an item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// GetStringOrDefault returns value or default if empty
func GetStringOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

// SanitizeKey ensures the database key is valid for ArangoDB
// ArangoDB keys cannot contain spaces, slashes, or brackets
func SanitizeKey(key string) string {
	key = strings.TrimSpace(key)

	replacer := strings.NewReplacer(
		" ", "-",
		"/", "-",
		"[", "",
		"]", "",
		"(", "",
		")", "",
	)

	return replacer.Replace(key)
}

// NormalizeName lowercases and trims a team/system name
// Use this function whenever accepting names from external sources
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
