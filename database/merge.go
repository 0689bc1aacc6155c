// Package database - component batch merge. One modification query upserts
// components and usage edges and reports per-identity created flags; follow-up
// queries attach license and technology edges. Every operation is an
// idempotent UPSERT, so a retried batch converges to the same graph.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/assetgraph/govcat/internal/services"
	"github.com/assetgraph/govcat/model"
	"github.com/assetgraph/govcat/util"
)

// MergeBatch persists one deduplicated extraction batch for a system.
// Identity is purl when present, else (name, version, package_manager).
func (s *GraphStore) MergeBatch(ctx context.Context, systemName string, components []model.ExtractedComponent) (*services.MergeOutcome, error) {
	outcome := &services.MergeOutcome{}
	if len(components) == 0 {
		return outcome, nil
	}

	systemID, err := s.systemDocID(ctx, systemName)
	if err != nil {
		return nil, err
	}
	if systemID == "" {
		return nil, fmt.Errorf("system %s not found", systemName)
	}

	// Single query to upsert all components and their usage edges, returning
	// created flags per identity
	query := `
		FOR c IN @components
			LET searchDoc = (c.purl != null AND c.purl != "")
				? { purl: c.purl }
				: { name: c.name, version: c.version, package_manager: c.package_manager }
			UPSERT searchDoc
			INSERT MERGE(c, { objtype: "Component", first_seen: @now, last_seen: @now })
			UPDATE MERGE(c, { last_seen: @now })
			IN component
			LET componentCreated = OLD == null
			LET componentID = NEW._id
			UPSERT { _from: @systemID, _to: componentID }
			INSERT { _from: @systemID, _to: componentID, objtype: "UsageEdge", created_at: @now }
			UPDATE {}
			IN system2component
			LET edgeCreated = OLD == null
			RETURN {
				componentID: componentID,
				componentCreated: componentCreated,
				edgeCreated: edgeCreated
			}
	`
	bindVars := map[string]interface{}{
		"components": components,
		"systemID":   systemID,
		"now":        time.Now().UTC(),
	}

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	componentIDs := make(map[string]string, len(components))
	row := 0
	for cursor.HasMore() {
		var result struct {
			ComponentID      string `json:"componentID"`
			ComponentCreated bool   `json:"componentCreated"`
			EdgeCreated      bool   `json:"edgeCreated"`
		}
		if _, err := cursor.ReadDocument(ctx, &result); err != nil {
			return nil, err
		}

		if result.ComponentCreated {
			outcome.Added++
		} else {
			outcome.Updated++
		}
		if result.EdgeCreated {
			outcome.EdgesCreated++
		}

		if row < len(components) {
			componentIDs[components[row].IdentityKey()] = result.ComponentID
		}
		row++
	}

	if err := s.attachLicenses(ctx, components, componentIDs); err != nil {
		return nil, err
	}
	if err := s.attachTechnologies(ctx, components, componentIDs); err != nil {
		return nil, err
	}

	return outcome, nil
}

func (s *GraphStore) systemDocID(ctx context.Context, systemName string) (string, error) {
	query := `
		FOR sys IN system
			FILTER sys.name == @name
			LIMIT 1
			RETURN sys._id
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"name": systemName},
	})
	if err != nil {
		return "", err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var id string
		if _, err := cursor.ReadDocument(ctx, &id); err != nil {
			return "", err
		}
		return id, nil
	}
	return "", nil
}

// licenseLink pairs a component doc id with one claimed license id.
type licenseLink struct {
	ComponentID string `json:"componentID"`
	LicenseID   string `json:"licenseID"`
}

// attachLicenses upserts license nodes for every claim carrying an id and
// links them to their components.
func (s *GraphStore) attachLicenses(ctx context.Context, components []model.ExtractedComponent, componentIDs map[string]string) error {
	var links []licenseLink
	seen := make(map[string]bool)

	for _, component := range components {
		componentID := componentIDs[component.IdentityKey()]
		if componentID == "" {
			continue
		}
		for _, claim := range component.Licenses {
			licenseID := claim.ID
			if licenseID == "" {
				licenseID = claim.Name
			}
			if licenseID == "" {
				continue
			}
			key := componentID + ":" + licenseID
			if seen[key] {
				continue
			}
			seen[key] = true
			links = append(links, licenseLink{ComponentID: componentID, LicenseID: licenseID})
		}
	}

	if len(links) == 0 {
		return nil
	}

	licenseQuery := `
		FOR link IN @links
			UPSERT { id: link.licenseID }
			INSERT { id: link.licenseID, objtype: "License" }
			UPDATE {}
			IN license
	`
	cursor, err := s.DB.Database.Query(ctx, licenseQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"links": links},
	})
	if err != nil {
		return err
	}
	cursor.Close()

	edgeQuery := `
		FOR link IN @links
			LET lic = FIRST(FOR l IN license FILTER l.id == link.licenseID LIMIT 1 RETURN l)
			FILTER lic != null
			UPSERT { _from: link.componentID, _to: lic._id }
			INSERT { _from: link.componentID, _to: lic._id, objtype: "HasLicense" }
			UPDATE {}
			IN component2license
	`
	cursor, err = s.DB.Database.Query(ctx, edgeQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"links": links},
	})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}

// technologyLink pairs a component doc id with its base purl.
type technologyLink struct {
	ComponentID string `json:"componentID"`
	BasePurl    string `json:"basePurl"`
}

// attachTechnologies links components to curated technologies whose base purl
// matches the component's versionless purl. Components with no match stay
// unmapped, which is a valid state.
func (s *GraphStore) attachTechnologies(ctx context.Context, components []model.ExtractedComponent, componentIDs map[string]string) error {
	var links []technologyLink

	for _, component := range components {
		if component.Purl == "" {
			continue
		}
		componentID := componentIDs[component.IdentityKey()]
		if componentID == "" {
			continue
		}
		basePurl, err := util.GetBasePURL(component.Purl)
		if err != nil {
			continue
		}
		links = append(links, technologyLink{ComponentID: componentID, BasePurl: basePurl})
	}

	if len(links) == 0 {
		return nil
	}

	query := `
		FOR link IN @links
			LET tech = FIRST(FOR t IN technology FILTER t.base_purl == link.basePurl LIMIT 1 RETURN t)
			FILTER tech != null
			UPSERT { _from: link.componentID, _to: tech._id }
			INSERT { _from: link.componentID, _to: tech._id, objtype: "IsVersionOf" }
			UPDATE {}
			IN component2technology
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"links": links},
	})
	if err != nil {
		return err
	}
	cursor.Close()

	return nil
}
