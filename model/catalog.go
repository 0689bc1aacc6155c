// Package model - catalog entities: teams, systems, repositories, licenses and
// curated technologies.
package model

import "time"

// Team represents an owning/governed group in the organization.
type Team struct {
	Key     string `json:"_key,omitempty"`
	ObjType string `json:"objtype,omitempty"`
	Name    string `json:"name"`
}

// System represents a deployable software system tracked by the catalog.
// RepositoryURL links the system to its registered source repository
// (normalized form); a system with no repository cannot receive BOMs.
type System struct {
	Key           string `json:"_key,omitempty"`
	ObjType       string `json:"objtype,omitempty"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	RepositoryURL string `json:"repository_url,omitempty"`
}

// Repository represents a registered source repository. The URL is stored in
// normalized form (https, no trailing slash, no .git suffix, lowercase).
type Repository struct {
	Key         string    `json:"_key,omitempty"`
	ObjType     string    `json:"objtype,omitempty"`
	URL         string    `json:"url"`
	LastScanned time.Time `json:"last_scanned,omitempty"`
}

// License is a canonical license record keyed by SPDX-style identifier where
// one is available.
type License struct {
	Key     string `json:"_key,omitempty"`
	ObjType string `json:"objtype,omitempty"`
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Technology is a curated package family (e.g. "React") that components map to
// via an is-version-of relation. Components without the relation are unmapped.
type Technology struct {
	Key      string `json:"_key,omitempty"`
	ObjType  string `json:"objtype,omitempty"`
	Name     string `json:"name"`
	BasePurl string `json:"base_purl,omitempty"`
}

// NewTeam creates a Team with default values.
func NewTeam(name string) *Team {
	return &Team{ObjType: "Team", Name: name}
}

// NewSystem creates a System with default values.
func NewSystem(name string) *System {
	return &System{ObjType: "System", Name: name}
}

// NewRepository creates a Repository with default values.
func NewRepository(url string) *Repository {
	return &Repository{ObjType: "Repository", URL: url}
}
