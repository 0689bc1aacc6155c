// Package model - request/response shapes shared by the REST surface and the
// event processor.
package model

import "encoding/json"

// BOM format discriminators for normalization requests.
const (
	FormatCycloneDX = "cyclonedx"
	FormatSPDX      = "spdx"
)

// IngestResult reports the outcome of one ingestion batch. Added plus updated
// equals the number of distinct component identities touched, which may be
// lower than the number of input rows.
type IngestResult struct {
	ComponentsAdded      int `json:"components_added"`
	ComponentsUpdated    int `json:"components_updated"`
	RelationshipsCreated int `json:"relationships_created"`
}

// BOMSubmission is the request body for BOM upload: the repository the BOM was
// generated from, the format discriminator, and the raw document.
type BOMSubmission struct {
	RepositoryURL string          `json:"repository_url"`
	Format        string          `json:"format"`
	Content       json.RawMessage `json:"content"`
}

// AuditRecord is the fire-and-forget ingestion/governance audit entry.
type AuditRecord struct {
	Key           string   `json:"_key,omitempty"`
	ObjType       string   `json:"objtype,omitempty"`
	Operation     string   `json:"operation"`
	EntityType    string   `json:"entity_type"`
	EntityID      string   `json:"entity_id"`
	Label         string   `json:"label,omitempty"`
	ChangedFields []string `json:"changed_fields,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
	RecordedAt    string   `json:"recorded_at,omitempty"`
}
