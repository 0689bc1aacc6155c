package bom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/assetgraph/govcat/model"
)

func TestNormalizeRejectsUnknownFormat(t *testing.T) {
	_, err := Normalize(json.RawMessage(`{}`), "swid")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

// The same package described in both formats must agree on the identity
// attributes, otherwise ingestion would split one dependency into two nodes
// depending on which scanner produced the BOM.
func TestNormalizeFormatEquivalence(t *testing.T) {
	cdxDoc := json.RawMessage(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"components": [{
			"type": "library",
			"name": "react",
			"version": "18.2.0",
			"purl": "pkg:npm/react@18.2.0"
		}]
	}`)

	spdxDoc := json.RawMessage(`{
		"spdxVersion": "SPDX-2.3",
		"SPDXID": "SPDXRef-DOCUMENT",
		"packages": [{
			"SPDXID": "SPDXRef-Package-react",
			"name": "react",
			"versionInfo": "18.2.0",
			"externalRefs": [
				{"referenceCategory": "PACKAGE-MANAGER", "referenceType": "purl", "referenceLocator": "pkg:npm/react@18.2.0"}
			]
		}]
	}`)

	fromCDX, err := Normalize(cdxDoc, model.FormatCycloneDX)
	require.NoError(t, err)
	require.Len(t, fromCDX, 1)

	fromSPDX, err := Normalize(spdxDoc, model.FormatSPDX)
	require.NoError(t, err)
	require.Len(t, fromSPDX, 1)

	assert.Equal(t, fromCDX[0].Name, fromSPDX[0].Name)
	assert.Equal(t, fromCDX[0].Version, fromSPDX[0].Version)
	assert.Equal(t, fromCDX[0].PackageManager, fromSPDX[0].PackageManager)
	assert.Equal(t, fromCDX[0].Purl, fromSPDX[0].Purl)
	assert.Equal(t, fromCDX[0].IdentityKey(), fromSPDX[0].IdentityKey())
}

func TestDropEmptyLicenses(t *testing.T) {
	claims := []model.LicenseClaim{
		{ID: "MIT"},
		{},
		{Name: "Custom"},
		{URL: "https://example.com/license"},
	}

	kept := dropEmptyLicenses(claims)
	require.Len(t, kept, 3)
	assert.Equal(t, "MIT", kept[0].ID)
}
