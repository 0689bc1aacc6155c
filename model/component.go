// Package model - Component defines the canonical component records produced by BOM
// normalization and persisted in the graph.
package model

import (
	"fmt"
	"strings"
	"time"
)

// HashEntry is a normalized content hash (algorithm + value pair).
type HashEntry struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

// LicenseClaim is a normalized license entry extracted from a BOM. Any of the
// fields may be empty; entries with no content at all are dropped during
// extraction.
type LicenseClaim struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

// ExternalRef is a typed link carried by a component (website, vcs, issue-tracker, ...).
type ExternalRef struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ExtractedComponent is the flat, format-independent record the BOM normalizer
// emits. It is never persisted directly; the ingestion merger resolves it to a
// Component node.
type ExtractedComponent struct {
	Name           string         `json:"name"`
	Version        string         `json:"version,omitempty"`
	PackageManager string         `json:"package_manager,omitempty"`
	Purl           string         `json:"purl,omitempty"`
	Cpe            string         `json:"cpe,omitempty"`
	BomRef         string         `json:"bom_ref,omitempty"`
	Type           string         `json:"type,omitempty"`
	Group          string         `json:"group,omitempty"`
	Scope          string         `json:"scope,omitempty"`
	Hashes         []HashEntry    `json:"hashes,omitempty"`
	Licenses       []LicenseClaim `json:"licenses,omitempty"`
	Copyright      string         `json:"copyright,omitempty"`
	Supplier       string         `json:"supplier,omitempty"`
	Author         string         `json:"author,omitempty"`
	Publisher      string         `json:"publisher,omitempty"`
	Homepage       string         `json:"homepage,omitempty"`
	Description    string         `json:"description,omitempty"`
	ExternalRefs   []ExternalRef  `json:"external_refs,omitempty"`
}

// IdentityKey returns the deduplication key for this component: the purl when
// present, otherwise name, version and package manager joined. Two extracted
// components with equal keys must resolve to the same Component node.
func (e *ExtractedComponent) IdentityKey() string {
	if e.Purl != "" {
		return e.Purl
	}
	return fmt.Sprintf("%s@%s@%s", strings.ToLower(e.Name), e.Version, strings.ToLower(e.PackageManager))
}

// Component represents a component node stored in the database.
type Component struct {
	Key            string         `json:"_key,omitempty"`
	ObjType        string         `json:"objtype,omitempty"`
	Name           string         `json:"name"`
	Version        string         `json:"version,omitempty"`
	PackageManager string         `json:"package_manager,omitempty"`
	Purl           string         `json:"purl,omitempty"`
	Cpe            string         `json:"cpe,omitempty"`
	Type           string         `json:"type,omitempty"`
	Group          string         `json:"group,omitempty"`
	Scope          string         `json:"scope,omitempty"`
	Hashes         []HashEntry    `json:"hashes,omitempty"`
	Licenses       []LicenseClaim `json:"licenses,omitempty"`
	Copyright      string         `json:"copyright,omitempty"`
	Supplier       string         `json:"supplier,omitempty"`
	Author         string         `json:"author,omitempty"`
	Publisher      string         `json:"publisher,omitempty"`
	Homepage       string         `json:"homepage,omitempty"`
	Description    string         `json:"description,omitempty"`
	ExternalRefs   []ExternalRef  `json:"external_refs,omitempty"`
	FirstSeen      time.Time      `json:"first_seen,omitempty"`
	LastSeen       time.Time      `json:"last_seen,omitempty"`
}

// NewComponent creates a Component from an extracted record with default values.
func NewComponent(e ExtractedComponent) *Component {
	now := time.Now().UTC()
	return &Component{
		ObjType:        "Component",
		Name:           e.Name,
		Version:        e.Version,
		PackageManager: e.PackageManager,
		Purl:           e.Purl,
		Cpe:            e.Cpe,
		Type:           e.Type,
		Group:          e.Group,
		Scope:          e.Scope,
		Hashes:         e.Hashes,
		Licenses:       e.Licenses,
		Copyright:      e.Copyright,
		Supplier:       e.Supplier,
		Author:         e.Author,
		Publisher:      e.Publisher,
		Homepage:       e.Homepage,
		Description:    e.Description,
		ExternalRefs:   e.ExternalRefs,
		FirstSeen:      now,
		LastSeen:       now,
	}
}
