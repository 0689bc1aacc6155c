// Package bom normalizes Bill-of-Materials documents into the canonical
// ExtractedComponent shape. Two formats are supported: CycloneDX
// (component-tree style) and SPDX (package-list style). Normalization is pure:
// no I/O, no store access, and optional fields that are absent or ill-typed
// normalize to empty values rather than failing. Only a document whose
// top-level shape is not a valid BOM of the requested format is rejected.
package bom

import (
	"encoding/json"
	"fmt"

	"github.com/assetgraph/govcat/model"
)

// Normalize converts a raw BOM document into a flat, order-preserving sequence
// of extracted components. format must be one of model.FormatCycloneDX or
// model.FormatSPDX.
func Normalize(content json.RawMessage, format string) ([]model.ExtractedComponent, error) {
	switch format {
	case model.FormatCycloneDX:
		return ExtractCycloneDX(content)
	case model.FormatSPDX:
		return ExtractSPDX(content)
	}
	return nil, &model.ValidationError{Field: "format", Value: format, Reason: "unsupported BOM format"}
}

// dropEmptyLicenses removes license entries that carry no content at all.
func dropEmptyLicenses(claims []model.LicenseClaim) []model.LicenseClaim {
	var kept []model.LicenseClaim
	for _, claim := range claims {
		if claim.ID == "" && claim.Name == "" && claim.URL == "" && claim.Text == "" {
			continue
		}
		kept = append(kept, claim)
	}
	return kept
}

func structuralError(format string, err error) error {
	return fmt.Errorf("not a valid %s document: %w", format, err)
}
