// Package database - catalog registration and listing operations consumed by
// the REST surface, the seed bootstrap and the GraphQL resolvers.
package database

import (
	"context"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/assetgraph/govcat/model"
	"github.com/assetgraph/govcat/util"
)

// RegisterTeam upserts a team by name.
func (s *GraphStore) RegisterTeam(ctx context.Context, name string) error {
	query := `
		UPSERT { name: @name }
		INSERT { name: @name, objtype: "Team" }
		UPDATE {}
		IN team
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"name": util.NormalizeName(name)},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// RegisterRepository upserts a repository by normalized URL.
func (s *GraphStore) RegisterRepository(ctx context.Context, rawURL string) (string, error) {
	url := util.NormalizeRepoURL(rawURL)
	if url == "" {
		return "", &model.ValidationError{Field: "url", Value: rawURL, Reason: "repository url is required"}
	}

	query := `
		UPSERT { url: @url }
		INSERT { url: @url, objtype: "Repository" }
		UPDATE {}
		IN repository
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"url": url},
	})
	if err != nil {
		return "", err
	}
	cursor.Close()
	return url, nil
}

// RegisterSystem upserts a system, links it to its repository (normalized
// URL), and records the owning team via a team2system edge.
func (s *GraphStore) RegisterSystem(ctx context.Context, system *model.System, owningTeam string) error {
	system.ObjType = "System"
	system.RepositoryURL = util.NormalizeRepoURL(system.RepositoryURL)

	query := `
		UPSERT { name: @name }
		INSERT @doc
		UPDATE @doc
		IN system
		RETURN NEW._id
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"name": system.Name,
			"doc":  system,
		},
	})
	if err != nil {
		return err
	}
	defer cursor.Close()

	var systemID string
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &systemID); err != nil {
			return err
		}
	}
	if systemID == "" {
		return fmt.Errorf("failed to upsert system %s", system.Name)
	}

	if owningTeam == "" {
		return nil
	}

	edgeQuery := `
		LET team = FIRST(FOR t IN team FILTER t.name == @team LIMIT 1 RETURN t)
		FILTER team != null
		UPSERT { _from: team._id, _to: @systemID }
		INSERT { _from: team._id, _to: @systemID, objtype: "Owns" }
		UPDATE {}
		IN team2system
	`
	cursor, err = s.DB.Database.Query(ctx, edgeQuery, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"team":     util.NormalizeName(owningTeam),
			"systemID": systemID,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// RegisterTechnology upserts a curated technology by name.
func (s *GraphStore) RegisterTechnology(ctx context.Context, tech *model.Technology) error {
	tech.ObjType = "Technology"
	query := `
		UPSERT { name: @name }
		INSERT @doc
		UPDATE @doc
		IN technology
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"name": tech.Name,
			"doc":  tech,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// RegisterLicense upserts a canonical license record by id.
func (s *GraphStore) RegisterLicense(ctx context.Context, license *model.License) error {
	license.ObjType = "License"
	query := `
		UPSERT { id: @id }
		INSERT @doc
		UPDATE @doc
		IN license
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"id":  license.ID,
			"doc": license,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// SubjectTeamToPolicy records that a team is subject to a policy.
func (s *GraphStore) SubjectTeamToPolicy(ctx context.Context, teamName, policyKey string) error {
	return s.teamRuleEdge(ctx, teamName, "policy/"+policyKey, "team2policy", "SubjectTo")
}

// EnforcePolicy records the owning/enforcing team of a policy.
func (s *GraphStore) EnforcePolicy(ctx context.Context, teamName, policyKey string) error {
	return s.teamRuleEdge(ctx, teamName, "policy/"+policyKey, "team2policy_owner", "Enforces")
}

// SubjectTeamToConstraint records that a team is subject to a constraint.
func (s *GraphStore) SubjectTeamToConstraint(ctx context.Context, teamName, constraintKey string) error {
	return s.teamRuleEdge(ctx, teamName, "constraint/"+constraintKey, "team2constraint", "SubjectTo")
}

func (s *GraphStore) teamRuleEdge(ctx context.Context, teamName, ruleID, edgeCollection, objType string) error {
	query := `
		LET team = FIRST(FOR t IN team FILTER t.name == @team LIMIT 1 RETURN t)
		FILTER team != null
		UPSERT { _from: team._id, _to: @ruleID }
		INSERT { _from: team._id, _to: @ruleID, objtype: @objType }
		UPDATE {}
		IN @@edges
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"team":    util.NormalizeName(teamName),
			"ruleID":  ruleID,
			"objType": objType,
			"@edges":  edgeCollection,
		},
	})
	if err != nil {
		return err
	}
	cursor.Close()
	return nil
}

// ListTeams returns all teams sorted by name.
func (s *GraphStore) ListTeams(ctx context.Context) ([]model.Team, error) {
	query := `
		FOR t IN team
			SORT t.name
			RETURN t
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var teams []model.Team
	for cursor.HasMore() {
		var team model.Team
		if _, err := cursor.ReadDocument(ctx, &team); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// ListSystems returns all systems sorted by name.
func (s *GraphStore) ListSystems(ctx context.Context) ([]model.System, error) {
	query := `
		FOR sys IN system
			SORT sys.name
			RETURN sys
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var systems []model.System
	for cursor.HasMore() {
		var sys model.System
		if _, err := cursor.ReadDocument(ctx, &sys); err != nil {
			return nil, err
		}
		systems = append(systems, sys)
	}
	return systems, nil
}

// ListComponentsForSystem returns the components a system uses, sorted by name.
func (s *GraphStore) ListComponentsForSystem(ctx context.Context, systemName string) ([]model.Component, error) {
	query := `
		FOR sys IN system
			FILTER sys.name == @name
			LIMIT 1
			FOR uses IN system2component
				FILTER uses._from == sys._id
				LET comp = DOCUMENT(uses._to)
				FILTER comp != null
				SORT comp.name
				RETURN comp
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"name": systemName},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var components []model.Component
	for cursor.HasMore() {
		var comp model.Component
		if _, err := cursor.ReadDocument(ctx, &comp); err != nil {
			return nil, err
		}
		components = append(components, comp)
	}
	return components, nil
}

// ComponentCount returns the number of component nodes in the graph.
func (s *GraphStore) ComponentCount(ctx context.Context) (int, error) {
	query := `RETURN LENGTH(component)`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	var count int
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &count); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// UnmappedComponents returns components with no is-version-of relation to any
// curated technology.
func (s *GraphStore) UnmappedComponents(ctx context.Context) ([]model.Component, error) {
	query := `
		FOR comp IN component
			LET mapped = (
				FOR versionOf IN component2technology
					FILTER versionOf._from == comp._id
					LIMIT 1
					RETURN true
			)
			FILTER LENGTH(mapped) == 0
			SORT comp.name
			RETURN comp
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var components []model.Component
	for cursor.HasMore() {
		var comp model.Component
		if _, err := cursor.ReadDocument(ctx, &comp); err != nil {
			return nil, err
		}
		components = append(components, comp)
	}
	return components, nil
}
