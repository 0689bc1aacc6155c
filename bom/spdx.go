// Package bom - SPDX extraction. SPDX documents are package lists: the purl is
// recovered by scanning each package's external references, and the package
// manager and namespace are derived from the recovered purl.
package bom

import (
	"encoding/json"
	"strings"

	"github.com/assetgraph/govcat/model"
	"github.com/assetgraph/govcat/util"
)

// spdxDocument is the subset of the SPDX JSON schema the extractor reads.
type spdxDocument struct {
	SPDXVersion string        `json:"spdxVersion"`
	SPDXID      string        `json:"SPDXID"`
	Name        string        `json:"name"`
	Packages    []spdxPackage `json:"packages"`
}

type spdxPackage struct {
	SPDXID                string         `json:"SPDXID"`
	Name                  string         `json:"name"`
	VersionInfo           string         `json:"versionInfo,omitempty"`
	PrimaryPackagePurpose string         `json:"primaryPackagePurpose,omitempty"`
	Supplier              string         `json:"supplier,omitempty"`
	Originator            string         `json:"originator,omitempty"`
	Homepage              string         `json:"homepage,omitempty"`
	Description           string         `json:"description,omitempty"`
	CopyrightText         string         `json:"copyrightText,omitempty"`
	LicenseConcluded      string         `json:"licenseConcluded,omitempty"`
	LicenseDeclared       string         `json:"licenseDeclared,omitempty"`
	Checksums             []spdxChecksum `json:"checksums,omitempty"`
	ExternalRefs          []spdxRef      `json:"externalRefs,omitempty"`
}

type spdxChecksum struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"checksumValue"`
}

type spdxRef struct {
	Category string `json:"referenceCategory"`
	Type     string `json:"referenceType"`
	Locator  string `json:"referenceLocator"`
}

// primaryPurposeTypes maps the SPDX primaryPackagePurpose vocabulary to the
// canonical component type. Unrecognized values pass through lower-cased.
var primaryPurposeTypes = map[string]string{
	"APPLICATION":      "application",
	"FRAMEWORK":        "framework",
	"LIBRARY":          "library",
	"CONTAINER":        "container",
	"OPERATING-SYSTEM": "operating-system",
	"OPERATING_SYSTEM": "operating-system",
	"DEVICE":           "device",
	"FIRMWARE":         "firmware",
	"SOURCE":           "source",
	"ARCHIVE":          "archive",
	"FILE":             "file",
	"INSTALL":          "install",
	"OTHER":            "other",
}

// ExtractSPDX normalizes an SPDX JSON document.
func ExtractSPDX(content json.RawMessage) ([]model.ExtractedComponent, error) {
	var doc spdxDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, structuralError("SPDX", err)
	}
	if doc.SPDXVersion == "" && doc.SPDXID == "" {
		return nil, &model.ValidationError{Field: "content", Reason: "document has no spdxVersion or SPDXID"}
	}

	extracted := make([]model.ExtractedComponent, 0, len(doc.Packages))
	for _, pkg := range doc.Packages {
		extracted = append(extracted, normalizeSPDXPackage(pkg))
	}

	return extracted, nil
}

func normalizeSPDXPackage(pkg spdxPackage) model.ExtractedComponent {
	extracted := model.ExtractedComponent{
		Name:        pkg.Name,
		Version:     pkg.VersionInfo,
		BomRef:      pkg.SPDXID,
		Type:        normalizePrimaryPurpose(pkg.PrimaryPackagePurpose),
		Supplier:    stripActorKind(pkg.Supplier),
		Author:      stripActorKind(pkg.Originator),
		Homepage:    spdxValue(pkg.Homepage),
		Description: pkg.Description,
		Copyright:   spdxValue(pkg.CopyrightText),
	}

	for _, ref := range pkg.ExternalRefs {
		if ref.Locator == "" {
			continue
		}
		extracted.ExternalRefs = append(extracted.ExternalRefs, model.ExternalRef{
			Type: ref.Type,
			URL:  ref.Locator,
		})

		switch {
		case strings.EqualFold(ref.Type, "purl") && extracted.Purl == "":
			extracted.Purl = ref.Locator
		case isCpeRefType(ref.Type) && extracted.Cpe == "":
			extracted.Cpe = ref.Locator
		}
	}

	if extracted.Purl != "" {
		if cleaned, err := util.CleanPURL(extracted.Purl); err == nil {
			extracted.Purl = cleaned
		}
		extracted.PackageManager = util.ManagerFromPURL(extracted.Purl)
		extracted.Group = util.NamespaceFromPURL(extracted.Purl)
	}

	for _, checksum := range pkg.Checksums {
		if checksum.Value == "" {
			continue
		}
		extracted.Hashes = append(extracted.Hashes, model.HashEntry{
			Algorithm: checksum.Algorithm,
			Value:     checksum.Value,
		})
	}

	extracted.Licenses = normalizeSPDXLicenses(pkg.LicenseConcluded, pkg.LicenseDeclared)

	return extracted
}

// normalizeSPDXLicenses keeps the concluded and declared license fields as
// separate entries unless either is an unspecified sentinel or they are
// textually identical.
func normalizeSPDXLicenses(concluded, declared string) []model.LicenseClaim {
	var claims []model.LicenseClaim

	if !isUnspecifiedLicense(concluded) {
		claims = append(claims, model.LicenseClaim{ID: concluded})
	}
	if !isUnspecifiedLicense(declared) && declared != concluded {
		claims = append(claims, model.LicenseClaim{ID: declared})
	}

	return dropEmptyLicenses(claims)
}

// isUnspecifiedLicense treats the SPDX sentinels case-insensitively.
func isUnspecifiedLicense(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unspecified", "noassertion", "none":
		return true
	}
	return false
}

// isCpeRefType matches the SPDX security reference types that carry CPE
// locators.
func isCpeRefType(refType string) bool {
	switch strings.ToLower(refType) {
	case "cpe23type", "cpe22type":
		return true
	}
	return false
}

func normalizePrimaryPurpose(purpose string) string {
	if purpose == "" {
		return ""
	}
	if mapped, ok := primaryPurposeTypes[strings.ToUpper(purpose)]; ok {
		return mapped
	}
	return strings.ToLower(purpose)
}

// stripActorKind parses the SPDX "<Kind>: <Name>" actor convention
// (Kind is Person or Organization) and returns the trailing name. The raw
// string is returned unchanged when the pattern does not match.
func stripActorKind(actor string) string {
	if isUnspecifiedLicense(actor) {
		return ""
	}
	for _, kind := range []string{"Person:", "Organization:"} {
		if rest, ok := strings.CutPrefix(actor, kind); ok {
			return strings.TrimSpace(rest)
		}
	}
	return actor
}

// spdxValue filters the NOASSERTION/NONE sentinels from plain string fields.
func spdxValue(value string) string {
	if isUnspecifiedLicense(value) {
		return ""
	}
	return value
}
