package bom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/assetgraph/govcat/model"
)

func TestExtractCycloneDXFlattening(t *testing.T) {
	doc := json.RawMessage(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"metadata": {
			"component": {"type": "application", "name": "shop-web", "version": "1.4.0"}
		},
		"components": [
			{
				"type": "library",
				"name": "react",
				"version": "18.2.0",
				"purl": "pkg:npm/react@18.2.0?download_url=https%3A%2F%2Fregistry.npmjs.org",
				"licenses": [{"license": {"id": "MIT"}}],
				"components": [
					{"type": "library", "name": "loose-envify", "version": "1.4.0", "purl": "pkg:npm/loose-envify@1.4.0"}
				]
			},
			{"type": "library", "name": "left-pad", "version": "1.3.0"}
		]
	}`)

	extracted, err := ExtractCycloneDX(doc)
	require.NoError(t, err)
	require.Len(t, extracted, 4)

	// metadata component first, then pre-order through nested trees
	names := make([]string, len(extracted))
	for i, c := range extracted {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"shop-web", "react", "loose-envify", "left-pad"}, names)

	react := extracted[1]
	assert.Equal(t, "pkg:npm/react@18.2.0", react.Purl, "qualifiers must be stripped")
	assert.Equal(t, "npm", react.PackageManager)
	assert.Equal(t, "library", react.Type)
	require.Len(t, react.Licenses, 1)
	assert.Equal(t, "MIT", react.Licenses[0].ID)
}

func TestExtractCycloneDXMetadataFields(t *testing.T) {
	doc := json.RawMessage(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"components": [{
			"type": "library",
			"name": "lodash",
			"version": "4.17.21",
			"purl": "pkg:npm/lodash@4.17.21",
			"author": "John-David Dalton",
			"copyright": "Copyright OpenJS Foundation",
			"supplier": {"name": "OpenJS Foundation"},
			"hashes": [
				{"alg": "SHA-256", "content": "abc123"},
				{"alg": "SHA-1", "content": ""}
			],
			"externalReferences": [
				{"type": "website", "url": "https://lodash.com"},
				{"type": "vcs", "url": "https://github.com/lodash/lodash"}
			]
		}]
	}`)

	extracted, err := ExtractCycloneDX(doc)
	require.NoError(t, err)
	require.Len(t, extracted, 1)

	lodash := extracted[0]
	assert.Equal(t, "John-David Dalton", lodash.Author)
	assert.Equal(t, "OpenJS Foundation", lodash.Supplier)
	assert.Equal(t, "Copyright OpenJS Foundation", lodash.Copyright)
	assert.Equal(t, "https://lodash.com", lodash.Homepage)
	assert.Len(t, lodash.ExternalRefs, 2)

	// hashes without a value are dropped
	require.Len(t, lodash.Hashes, 1)
	assert.Equal(t, model.HashEntry{Algorithm: "SHA-256", Value: "abc123"}, lodash.Hashes[0])
}

func TestExtractCycloneDXLicenseShapes(t *testing.T) {
	doc := json.RawMessage(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"components": [
			{"type": "library", "name": "dual", "version": "1.0.0",
			 "licenses": [{"expression": "MIT OR Apache-2.0"}]},
			{"type": "library", "name": "named", "version": "1.0.0",
			 "licenses": [{"license": {"name": "Custom EULA", "url": "https://example.com/eula"}}]},
			{"type": "library", "name": "bare", "version": "1.0.0",
			 "licenses": [{"license": {}}]}
		]
	}`)

	extracted, err := ExtractCycloneDX(doc)
	require.NoError(t, err)
	require.Len(t, extracted, 3)

	// an SPDX expression is kept whole as a single entry's id
	require.Len(t, extracted[0].Licenses, 1)
	assert.Equal(t, "MIT OR Apache-2.0", extracted[0].Licenses[0].ID)

	require.Len(t, extracted[1].Licenses, 1)
	assert.Equal(t, "Custom EULA", extracted[1].Licenses[0].Name)
	assert.Equal(t, "https://example.com/eula", extracted[1].Licenses[0].URL)

	// entries with no content at all are dropped
	assert.Empty(t, extracted[2].Licenses)
}

func TestExtractCycloneDXGroupFallsBackToNamespace(t *testing.T) {
	doc := json.RawMessage(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.5",
		"components": [{
			"type": "library",
			"name": "commons-lang3",
			"version": "3.12.0",
			"purl": "pkg:maven/org.apache.commons/commons-lang3@3.12.0"
		}]
	}`)

	extracted, err := ExtractCycloneDX(doc)
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	assert.Equal(t, "org.apache.commons", extracted[0].Group)
	assert.Equal(t, "maven", extracted[0].PackageManager)
}

func TestExtractCycloneDXRejectsMalformed(t *testing.T) {
	_, err := ExtractCycloneDX(json.RawMessage(`"just a string"`))
	assert.Error(t, err)
}
