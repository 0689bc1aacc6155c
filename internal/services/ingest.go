// Package services - ingestion merger. Resolves extracted components to graph
// identities and persists them with at-most-one node per identity key.
package services

import (
	"context"
	"fmt"

	"github.com/assetgraph/govcat/model"
	"github.com/assetgraph/govcat/util"
	"go.uber.org/zap"
)

// Ingestor merges BOM extraction output into the component graph.
type Ingestor struct {
	Repos      RepositoryRegistry
	Systems    SystemRegistry
	Components ComponentStore
	Audit      AuditSink
	Logger     *zap.SugaredLogger
}

// Ingest persists one extraction batch for the system linked to repoURL.
//
// Preconditions are verified before the first mutation: the normalized
// repository URL must be registered, and the repository must be linked to a
// system. Duplicate rows within the batch collapse to one identity with
// last-write-wins metadata, so added+updated equals the number of distinct
// identities, not the number of input rows.
func (ing *Ingestor) Ingest(ctx context.Context, repoURL string, components []model.ExtractedComponent, userID string) (model.IngestResult, error) {
	var result model.IngestResult

	normalizedURL := util.NormalizeRepoURL(repoURL)

	repo, err := ing.Repos.FindByNormalizedURL(ctx, normalizedURL)
	if err != nil {
		return result, fmt.Errorf("repository lookup failed: %w", err)
	}
	if repo == nil {
		return result, &model.PreconditionError{RepositoryURL: normalizedURL, Err: model.ErrRepositoryNotRegistered}
	}

	system, err := ing.Systems.FindSystemByRepositoryURL(ctx, normalizedURL)
	if err != nil {
		return result, fmt.Errorf("system lookup failed: %w", err)
	}
	if system == nil {
		return result, &model.PreconditionError{RepositoryURL: normalizedURL, Err: model.ErrRepositoryNotLinked}
	}

	deduped := collapseByIdentity(components)

	outcome, err := ing.Components.MergeBatch(ctx, system.Name, deduped)
	if err != nil {
		return result, fmt.Errorf("component merge failed for system %s: %w", system.Name, err)
	}

	result = model.IngestResult{
		ComponentsAdded:      outcome.Added,
		ComponentsUpdated:    outcome.Updated,
		RelationshipsCreated: outcome.EdgesCreated,
	}

	if err := ing.Repos.UpdateLastScanTimestamp(ctx, normalizedURL); err != nil {
		ing.Logger.Warnf("Failed to update last-scanned timestamp for %s: %v", normalizedURL, err)
	}

	// Audit is fire-and-forget: a sink failure never fails the ingestion.
	audit := model.AuditRecord{
		Operation:  "bom.ingest",
		EntityType: "System",
		EntityID:   system.Name,
		Label:      fmt.Sprintf("added=%d updated=%d edges=%d", result.ComponentsAdded, result.ComponentsUpdated, result.RelationshipsCreated),
		UserID:     userID,
	}
	if err := ing.Audit.Record(ctx, audit); err != nil {
		ing.Logger.Warnf("Failed to record ingestion audit for %s: %v", system.Name, err)
	}

	ing.Logger.Infof("Ingested %d components for system %s (added=%d updated=%d edges=%d)",
		len(deduped), system.Name, result.ComponentsAdded, result.ComponentsUpdated, result.RelationshipsCreated)

	return result, nil
}

// collapseByIdentity deduplicates a batch by identity key, keeping the last
// row's metadata for each identity while preserving first-seen order.
func collapseByIdentity(components []model.ExtractedComponent) []model.ExtractedComponent {
	index := make(map[string]int, len(components))
	deduped := make([]model.ExtractedComponent, 0, len(components))

	for _, component := range components {
		key := component.IdentityKey()
		if pos, seen := index[key]; seen {
			deduped[pos] = component
			continue
		}
		index[key] = len(deduped)
		deduped = append(deduped, component)
	}

	return deduped
}
