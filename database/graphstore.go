// Package database - GraphStore implements the service ports against ArangoDB.
// All merge operations use AQL UPSERT so re-ingestion is idempotent, and the
// unique indexes created at startup back the identity invariants.
package database

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/assetgraph/govcat/model"
	"github.com/google/uuid"
)

// GraphStore is the ArangoDB adapter behind the governance core.
type GraphStore struct {
	DB DBConnection
}

// NewGraphStore wraps an initialized connection.
func NewGraphStore(db DBConnection) *GraphStore {
	return &GraphStore{DB: db}
}

// FindByNormalizedURL looks up a registered repository. Returns nil when the
// URL is unknown.
func (s *GraphStore) FindByNormalizedURL(ctx context.Context, url string) (*model.Repository, error) {
	query := `
		FOR r IN repository
			FILTER r.url == @url
			LIMIT 1
			RETURN r
	`
	bindVars := map[string]interface{}{
		"url": url,
	}

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var repo model.Repository
		if _, err := cursor.ReadDocument(ctx, &repo); err != nil {
			return nil, err
		}
		return &repo, nil
	}

	return nil, nil
}

// UpdateLastScanTimestamp stamps the repository after a successful ingestion.
func (s *GraphStore) UpdateLastScanTimestamp(ctx context.Context, url string) error {
	query := `
		FOR r IN repository
			FILTER r.url == @url
			UPDATE r WITH { last_scanned: @now } IN repository
	`
	bindVars := map[string]interface{}{
		"url": url,
		"now": time.Now().UTC(),
	}

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}

// FindSystemByRepositoryURL resolves the system a repository is linked to via
// its repository_url field. Returns nil when the repository is unlinked.
func (s *GraphStore) FindSystemByRepositoryURL(ctx context.Context, url string) (*model.System, error) {
	query := `
		FOR sys IN system
			FILTER sys.repository_url == @url
			LIMIT 1
			RETURN sys
	`
	bindVars := map[string]interface{}{
		"url": url,
	}

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var sys model.System
		if _, err := cursor.ReadDocument(ctx, &sys); err != nil {
			return nil, err
		}
		return &sys, nil
	}

	return nil, nil
}

// Record writes an audit entry. Callers treat failures as log-and-continue.
func (s *GraphStore) Record(ctx context.Context, record model.AuditRecord) error {
	record.Key = uuid.New().String()
	record.ObjType = "AuditRecord"
	record.RecordedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := s.DB.Collections["audit"].CreateDocument(ctx, record)
	return err
}
