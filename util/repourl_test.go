package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already canonical",
			input:    "https://github.com/acme/shop",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "scp style ssh remote",
			input:    "git@github.com:Acme/Shop.git",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "ssh scheme remote",
			input:    "ssh://git@github.com/acme/shop.git",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "http upgraded and lowercased",
			input:    "http://GitHub.com/Acme/Shop",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "bare host path",
			input:    "github.com/acme/shop",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "trailing slash stripped",
			input:    "https://github.com/acme/shop/",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "git suffix and trailing slash",
			input:    "https://github.com/acme/shop.git/",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "surrounding whitespace",
			input:    "  https://github.com/acme/shop  ",
			expected: "https://github.com/acme/shop",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRepoURL(tt.input))
		})
	}
}

// All spellings of the same repository must resolve to one key, otherwise
// registration and ingestion disagree on repository identity.
func TestNormalizeRepoURLAgreement(t *testing.T) {
	spellings := []string{
		"https://github.com/acme/shop",
		"https://github.com/acme/shop.git",
		"git@github.com:acme/shop.git",
		"http://github.com/Acme/Shop/",
	}

	canonical := NormalizeRepoURL(spellings[0])
	for _, s := range spellings[1:] {
		assert.Equal(t, canonical, NormalizeRepoURL(s), "spelling %q", s)
	}
}
