// Package ingest handles Kafka event processing for BOM upload events.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/assetgraph/govcat/bom"
	"github.com/assetgraph/govcat/model"
)

// BOMIngestService defines the interface for the BOM ingestion operation.
type BOMIngestService interface {
	Ingest(ctx context.Context, repoURL string, components []model.ExtractedComponent, userID string) (model.IngestResult, error)
}

// IngestedPublisher defines the interface for announcing completed ingestions.
type IngestedPublisher interface {
	PublishBOMIngested(ctx context.Context, repositoryURL string, result model.IngestResult) error
}

// HandleBOMUploadedWithService processes BOM upload events from Kafka. The
// publisher is optional; when set, a bom.ingested event is emitted after a
// successful merge.
func HandleBOMUploadedWithService(
	ctx context.Context,
	msg []byte,
	service BOMIngestService,
	publisher IngestedPublisher,
) error {
	var event BOMUploadedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal BOMUploadedEvent: %w", err)
	}

	if event.RepositoryURL == "" || len(event.Content) == 0 {
		return fmt.Errorf("invalid event: missing required fields")
	}

	log.Printf("Processing BOM upload for %s (event=%s)", event.RepositoryURL, event.EventID)

	extracted, err := bom.Normalize(event.Content, event.Format)
	if err != nil {
		return fmt.Errorf("failed to normalize BOM for %s: %w", event.RepositoryURL, err)
	}

	result, err := service.Ingest(ctx, event.RepositoryURL, extracted, event.UserID)
	if err != nil {
		return fmt.Errorf("internal service error: %w", err)
	}

	if publisher != nil {
		if err := publisher.PublishBOMIngested(ctx, event.RepositoryURL, result); err != nil {
			log.Printf("Failed to publish bom.ingested for %s: %v", event.RepositoryURL, err)
		}
	}

	log.Printf("Successfully ingested BOM for %s (%d added, %d updated)",
		event.RepositoryURL, result.ComponentsAdded, result.ComponentsUpdated)
	return nil
}
