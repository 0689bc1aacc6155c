// Package database - governance rule persistence: policies, constraints and
// the materialized allow-set edges.
package database

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/assetgraph/govcat/model"
)

// SavePolicy upserts a policy by name and returns its key.
func (s *GraphStore) SavePolicy(ctx context.Context, policy *model.Policy) (string, error) {
	query := `
		UPSERT { name: @name }
		INSERT @doc
		UPDATE MERGE(@doc, { created_at: OLD.created_at })
		IN policy
		RETURN NEW._key
	`
	policy.ObjType = "Policy"
	policy.UpdatedAt = time.Now().UTC()
	if policy.CreatedAt.IsZero() {
		policy.CreatedAt = policy.UpdatedAt
	}

	bindVars := map[string]interface{}{
		"name": policy.Name,
		"doc":  policy,
	}

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return "", err
	}
	defer cursor.Close()

	var key string
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &key); err != nil {
			return "", err
		}
	}
	return key, nil
}

// GetPolicy fetches a policy by key, nil when absent.
func (s *GraphStore) GetPolicy(ctx context.Context, key string) (*model.Policy, error) {
	query := `RETURN DOCUMENT("policy", @key)`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var policy model.Policy
	if _, err := cursor.ReadDocument(ctx, &policy); err != nil {
		return nil, nil
	}
	if policy.Key == "" {
		return nil, nil
	}
	return &policy, nil
}

// SetPolicyStatus updates only the status field.
func (s *GraphStore) SetPolicyStatus(ctx context.Context, key, status string) error {
	update := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	_, err := s.DB.Collections["policy"].UpdateDocument(ctx, key, update)
	return err
}

// ReplaceAllowSet rewrites the policy's allow-set edges to exactly the given
// license ids. Licenses unknown to the catalog are created on the fly so the
// allow relation never silently drops a declared id.
func (s *GraphStore) ReplaceAllowSet(ctx context.Context, policyKey string, licenseIDs []string) error {
	deleteQuery := `
		FOR allows IN policy2license
			FILTER allows._from == @policyID
			REMOVE allows IN policy2license
	`
	policyID := "policy/" + policyKey
	cursor, err := s.DB.Database.Query(ctx, deleteQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"policyID": policyID},
	})
	if err != nil {
		return err
	}
	cursor.Close()

	if len(licenseIDs) == 0 {
		return nil
	}

	upsertQuery := `
		FOR id IN @licenseIDs
			UPSERT { id: id }
			INSERT { id: id, objtype: "License" }
			UPDATE {}
			IN license
	`
	cursor, err = s.DB.Database.Query(ctx, upsertQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"licenseIDs": licenseIDs},
	})
	if err != nil {
		return err
	}
	cursor.Close()

	edgeQuery := `
		FOR id IN @licenseIDs
			LET lic = FIRST(FOR l IN license FILTER l.id == id LIMIT 1 RETURN l)
			FILTER lic != null
			INSERT { _from: @policyID, _to: lic._id, objtype: "AllowsLicense" }
			INTO policy2license
	`
	cursor, err = s.DB.Database.Query(ctx, edgeQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"licenseIDs": licenseIDs,
			"policyID":   policyID,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}

// KnownLicenseIDs lists every license id in the catalog.
func (s *GraphStore) KnownLicenseIDs(ctx context.Context) ([]string, error) {
	query := `
		FOR l IN license
			SORT l.id
			RETURN l.id
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var ids []string
	for cursor.HasMore() {
		var id string
		if _, err := cursor.ReadDocument(ctx, &id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SaveConstraint upserts a version constraint by name and returns its key.
func (s *GraphStore) SaveConstraint(ctx context.Context, constraint *model.VersionConstraint) (string, error) {
	query := `
		UPSERT { name: @name }
		INSERT @doc
		UPDATE MERGE(@doc, { created_at: OLD.created_at })
		IN constraint
		RETURN NEW._key
	`
	constraint.ObjType = "VersionConstraint"
	constraint.UpdatedAt = time.Now().UTC()
	if constraint.CreatedAt.IsZero() {
		constraint.CreatedAt = constraint.UpdatedAt
	}

	bindVars := map[string]interface{}{
		"name": constraint.Name,
		"doc":  constraint,
	}

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return "", err
	}
	defer cursor.Close()

	var key string
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &key); err != nil {
			return "", err
		}
	}
	return key, nil
}

// GetConstraint fetches a constraint by key, nil when absent.
func (s *GraphStore) GetConstraint(ctx context.Context, key string) (*model.VersionConstraint, error) {
	query := `RETURN DOCUMENT("constraint", @key)`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var constraint model.VersionConstraint
	if _, err := cursor.ReadDocument(ctx, &constraint); err != nil {
		return nil, nil
	}
	if constraint.Key == "" {
		return nil, nil
	}
	return &constraint, nil
}

// SetConstraintStatus updates only the status field.
func (s *GraphStore) SetConstraintStatus(ctx context.Context, key, status string) error {
	update := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	_, err := s.DB.Collections["constraint"].UpdateDocument(ctx, key, update)
	return err
}
