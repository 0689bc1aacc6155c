package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips qualifiers",
			input:    "pkg:npm/react@18.2.0?arch=x64&os=linux",
			expected: "pkg:npm/react@18.2.0",
		},
		{
			name:     "keeps subpath",
			input:    "pkg:npm/lodash@4.17.21?foo=bar#fp",
			expected: "pkg:npm/lodash@4.17.21#fp",
		},
		{
			name:     "lowercases result",
			input:    "pkg:pypi/Django@4.2.0",
			expected: "pkg:pypi/django@4.2.0",
		},
		{
			name:     "keeps namespace",
			input:    "pkg:maven/org.apache.commons/commons-lang3@3.12.0",
			expected: "pkg:maven/org.apache.commons/commons-lang3@3.12.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := CleanPURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cleaned)
		})
	}
}

func TestCleanPURLRejectsGarbage(t *testing.T) {
	_, err := CleanPURL("not-a-purl")
	assert.Error(t, err)
}

func TestGetBasePURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pkg:npm/react@18.2.0", "pkg:npm/react"},
		{"pkg:npm/react", "pkg:npm/react"},
		{"pkg:maven/org.apache.commons/commons-lang3@3.12.0", "pkg:maven/org.apache.commons/commons-lang3"},
	}

	for _, tt := range tests {
		base, err := GetBasePURL(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, base)
	}
}

func TestManagerFromPURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pkg:npm/react@18.2.0", "npm"},
		{"pkg:pypi/django@4.2.0", "pypi"},
		{"pkg:maven/org.apache.commons/commons-lang3@3.12.0", "maven"},
		{"pkg:golang/github.com/gofiber/fiber/v2@v2.52.0", "golang"},
		// strict parser rejects these, slicing fallback recovers the manager
		{"pkg:npm/", "npm"},
		{"not-a-purl", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ManagerFromPURL(tt.input), "purl %q", tt.input)
	}
}

func TestNamespaceFromPURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"pkg:maven/org.apache.commons/commons-lang3@3.12.0", "org.apache.commons"},
		{"pkg:golang/github.com/gofiber/fiber@v2.52.0", "github.com/gofiber"},
		{"pkg:npm/react@18.2.0", ""},
		{"not-a-purl", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NamespaceFromPURL(tt.input), "purl %q", tt.input)
	}
}
