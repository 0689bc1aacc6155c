package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityKeyPrefersPurl(t *testing.T) {
	withPurl := ExtractedComponent{Name: "react", Version: "18.2.0", PackageManager: "npm", Purl: "pkg:npm/react@18.2.0"}
	assert.Equal(t, "pkg:npm/react@18.2.0", withPurl.IdentityKey())

	// the tuple fallback folds name and manager case but not version
	tuple := ExtractedComponent{Name: "React", Version: "18.2.0", PackageManager: "NPM"}
	lower := ExtractedComponent{Name: "react", Version: "18.2.0", PackageManager: "npm"}
	assert.Equal(t, lower.IdentityKey(), tuple.IdentityKey())

	otherVersion := ExtractedComponent{Name: "react", Version: "18.2.0-rc.1", PackageManager: "npm"}
	assert.NotEqual(t, lower.IdentityKey(), otherVersion.IdentityKey())
}

func TestIdentityKeyDistinguishesManagers(t *testing.T) {
	npm := ExtractedComponent{Name: "commander", Version: "9.0.0", PackageManager: "npm"}
	pypi := ExtractedComponent{Name: "commander", Version: "9.0.0", PackageManager: "pypi"}
	assert.NotEqual(t, npm.IdentityKey(), pypi.IdentityKey())
}
