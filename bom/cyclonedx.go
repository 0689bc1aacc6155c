// Package bom - CycloneDX extraction. The document's main component (when
// declared) comes first, then the top-level component list; nested component
// trees are flattened depth-first pre-order so nesting never affects identity
// resolution downstream.
package bom

import (
	"bytes"
	"encoding/json"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/assetgraph/govcat/model"
	"github.com/assetgraph/govcat/util"
)

// ExtractCycloneDX normalizes a CycloneDX JSON document.
func ExtractCycloneDX(content json.RawMessage) ([]model.ExtractedComponent, error) {
	var doc cdx.BOM
	decoder := cdx.NewBOMDecoder(bytes.NewReader(content), cdx.BOMFileFormatJSON)
	if err := decoder.Decode(&doc); err != nil {
		return nil, structuralError("CycloneDX", err)
	}

	var extracted []model.ExtractedComponent

	if doc.Metadata != nil && doc.Metadata.Component != nil {
		extracted = flattenCDXComponent(*doc.Metadata.Component, extracted)
	}

	if doc.Components != nil {
		for _, component := range *doc.Components {
			extracted = flattenCDXComponent(component, extracted)
		}
	}

	return extracted, nil
}

// flattenCDXComponent appends the component and then recurses into any nested
// component list (pre-order).
func flattenCDXComponent(component cdx.Component, out []model.ExtractedComponent) []model.ExtractedComponent {
	out = append(out, normalizeCDXComponent(component))

	if component.Components != nil {
		for _, nested := range *component.Components {
			out = flattenCDXComponent(nested, out)
		}
	}

	return out
}

func normalizeCDXComponent(component cdx.Component) model.ExtractedComponent {
	extracted := model.ExtractedComponent{
		Name:        component.Name,
		Version:     component.Version,
		Purl:        component.PackageURL,
		Cpe:         component.CPE,
		BomRef:      component.BOMRef,
		Type:        strings.ToLower(string(component.Type)),
		Group:       component.Group,
		Scope:       string(component.Scope),
		Copyright:   component.Copyright,
		Author:      component.Author,
		Publisher:   component.Publisher,
		Description: component.Description,
	}

	if component.Supplier != nil {
		extracted.Supplier = component.Supplier.Name
	}

	if extracted.Purl != "" {
		if cleaned, err := util.CleanPURL(extracted.Purl); err == nil {
			extracted.Purl = cleaned
		}
		extracted.PackageManager = util.ManagerFromPURL(extracted.Purl)
		if extracted.Group == "" {
			extracted.Group = util.NamespaceFromPURL(extracted.Purl)
		}
	}

	if component.Hashes != nil {
		for _, hash := range *component.Hashes {
			if hash.Value == "" {
				continue
			}
			extracted.Hashes = append(extracted.Hashes, model.HashEntry{
				Algorithm: string(hash.Algorithm),
				Value:     hash.Value,
			})
		}
	}

	extracted.Licenses = normalizeCDXLicenses(component.Licenses)

	if component.ExternalReferences != nil {
		for _, ref := range *component.ExternalReferences {
			if ref.URL == "" {
				continue
			}
			extracted.ExternalRefs = append(extracted.ExternalRefs, model.ExternalRef{
				Type: string(ref.Type),
				URL:  ref.URL,
			})
			if ref.Type == cdx.ERTypeWebsite && extracted.Homepage == "" {
				extracted.Homepage = ref.URL
			}
		}
	}

	return extracted
}

// normalizeCDXLicenses handles both CycloneDX license shapes: a single SPDX
// expression string (kept whole as the entry's id) and the structured
// {id|name, url, text} object. Entries with no content are dropped.
func normalizeCDXLicenses(licenses *cdx.Licenses) []model.LicenseClaim {
	if licenses == nil {
		return nil
	}

	var claims []model.LicenseClaim
	for _, choice := range *licenses {
		if choice.Expression != "" {
			claims = append(claims, model.LicenseClaim{ID: choice.Expression})
			continue
		}
		if choice.License == nil {
			continue
		}

		claim := model.LicenseClaim{
			ID:   choice.License.ID,
			Name: choice.License.Name,
			URL:  choice.License.URL,
		}
		if choice.License.Text != nil {
			claim.Text = choice.License.Text.Content
		}
		claims = append(claims, claim)
	}

	return dropEmptyLicenses(claims)
}
