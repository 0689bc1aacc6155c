// Package ingest defines types for Kafka event processing of BOM ingestion events.
package ingest

import (
	"encoding/json"
	"time"

	"github.com/assetgraph/govcat/model"
)

// BOMUploadedEvent represents a BOM upload published by a CI pipeline. The
// document travels inline; repository_url identifies the target system.
type BOMUploadedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	RepositoryURL string          `json:"repository_url"`
	Format        string          `json:"format,omitempty"`
	Content       json.RawMessage `json:"content"`
	UserID        string          `json:"user_id,omitempty"`
}

// BOMIngestedEvent is published after a BOM has been merged into the graph.
type BOMIngestedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	RepositoryURL string             `json:"repository_url"`
	Result        model.IngestResult `json:"result"`
}
