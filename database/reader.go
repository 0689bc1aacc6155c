// Package database - read-side traversals feeding the violation evaluators.
// Graph traversal is expressed as joins over the edge collections; the rows
// come back distinct and the evaluators apply policy semantics in Go.
package database

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/assetgraph/govcat/internal/services"
)

// LicenseUsageRows returns every (team, system, component, license) tuple in
// the current graph: teams owning systems, systems using components,
// components carrying licenses.
func (s *GraphStore) LicenseUsageRows(ctx context.Context) ([]services.LicenseUsageRow, error) {
	query := `
		FOR owns IN team2system
			LET team = DOCUMENT(owns._from)
			LET sys = DOCUMENT(owns._to)
			FILTER team != null AND sys != null
			FOR uses IN system2component
				FILTER uses._from == sys._id
				LET comp = DOCUMENT(uses._to)
				FILTER comp != null
				FOR hasLic IN component2license
					FILTER hasLic._from == comp._id
					LET lic = DOCUMENT(hasLic._to)
					FILTER lic != null
					RETURN DISTINCT {
						team: team.name,
						system: sys.name,
						component: comp.name,
						version: comp.version,
						license: lic.id
					}
	`

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var rows []services.LicenseUsageRow
	for cursor.HasMore() {
		var row struct {
			Team      string `json:"team"`
			System    string `json:"system"`
			Component string `json:"component"`
			Version   string `json:"version"`
			License   string `json:"license"`
		}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		rows = append(rows, services.LicenseUsageRow(row))
	}

	return rows, nil
}

// ActiveLicensePolicies returns active license-compliance policies with their
// materialized allow-sets and subject teams.
func (s *GraphStore) ActiveLicensePolicies(ctx context.Context) ([]services.LicensePolicyRow, error) {
	query := `
		FOR p IN policy
			FILTER p.status == "active" AND p.rule_type == "license-compliance"
			LET allowed = (
				FOR allows IN policy2license
					FILTER allows._from == p._id
					LET lic = DOCUMENT(allows._to)
					FILTER lic != null
					RETURN lic.id
			)
			LET subjects = (
				FOR subj IN team2policy
					FILTER subj._to == p._id
					LET team = DOCUMENT(subj._from)
					FILTER team != null
					RETURN team.name
			)
			RETURN {
				name: p.name,
				severity: p.severity,
				scope: p.scope,
				subjectTeams: subjects,
				allowed: allowed
			}
	`

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var rows []services.LicensePolicyRow
	for cursor.HasMore() {
		var row struct {
			Name         string   `json:"name"`
			Severity     string   `json:"severity"`
			Scope        string   `json:"scope"`
			SubjectTeams []string `json:"subjectTeams"`
			Allowed      []string `json:"allowed"`
		}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}

		allowed := make(map[string]bool, len(row.Allowed))
		for _, id := range row.Allowed {
			allowed[id] = true
		}

		rows = append(rows, services.LicensePolicyRow{
			Name:         row.Name,
			Severity:     row.Severity,
			Scope:        row.Scope,
			SubjectTeams: row.SubjectTeams,
			Allowed:      allowed,
		})
	}

	return rows, nil
}

// VersionUsageRows returns every (team, system, component, technology) tuple
// for components mapped to a curated technology.
func (s *GraphStore) VersionUsageRows(ctx context.Context) ([]services.VersionUsageRow, error) {
	query := `
		FOR owns IN team2system
			LET team = DOCUMENT(owns._from)
			LET sys = DOCUMENT(owns._to)
			FILTER team != null AND sys != null
			FOR uses IN system2component
				FILTER uses._from == sys._id
				LET comp = DOCUMENT(uses._to)
				FILTER comp != null
				FOR versionOf IN component2technology
					FILTER versionOf._from == comp._id
					LET tech = DOCUMENT(versionOf._to)
					FILTER tech != null
					RETURN DISTINCT {
						team: team.name,
						system: sys.name,
						component: comp.name,
						version: comp.version,
						ecosystem: comp.package_manager,
						technology: tech.name
					}
	`

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var rows []services.VersionUsageRow
	for cursor.HasMore() {
		var row struct {
			Team       string `json:"team"`
			System     string `json:"system"`
			Component  string `json:"component"`
			Version    string `json:"version"`
			Ecosystem  string `json:"ecosystem"`
			Technology string `json:"technology"`
		}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		rows = append(rows, services.VersionUsageRow(row))
	}

	return rows, nil
}

// ActiveVersionConstraints returns active constraints with their subject teams.
func (s *GraphStore) ActiveVersionConstraints(ctx context.Context) ([]services.ConstraintRow, error) {
	query := `
		FOR c IN constraint
			FILTER c.status == "active"
			LET subjects = (
				FOR subj IN team2constraint
					FILTER subj._to == c._id
					LET team = DOCUMENT(subj._from)
					FILTER team != null
					RETURN team.name
			)
			RETURN {
				name: c.name,
				technology: c.technology,
				range: c.range,
				severity: c.severity,
				scope: c.scope,
				subjectTeams: subjects
			}
	`

	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var rows []services.ConstraintRow
	for cursor.HasMore() {
		var row struct {
			Name         string   `json:"name"`
			Technology   string   `json:"technology"`
			Range        string   `json:"range"`
			Severity     string   `json:"severity"`
			Scope        string   `json:"scope"`
			SubjectTeams []string `json:"subjectTeams"`
		}
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, err
		}
		rows = append(rows, services.ConstraintRow(row))
	}

	return rows, nil
}
