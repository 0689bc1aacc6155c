// Package services holds the governance core: the ingestion merger, the
// policy/constraint write path, and the violation evaluators. The graph store
// is reached only through the ports in this file so the join and merge
// semantics stay independent of the backing engine.
package services

import (
	"context"

	"github.com/assetgraph/govcat/model"
)

// RepositoryRegistry resolves registered source repositories by normalized URL.
// FindByNormalizedURL returns nil (not an error) when the URL is unknown.
type RepositoryRegistry interface {
	FindByNormalizedURL(ctx context.Context, url string) (*model.Repository, error)
	UpdateLastScanTimestamp(ctx context.Context, url string) error
}

// SystemRegistry resolves the system a registered repository is linked to.
// FindSystemByRepositoryURL returns nil when the repository is unlinked.
type SystemRegistry interface {
	FindSystemByRepositoryURL(ctx context.Context, url string) (*model.System, error)
}

// AuditSink records governance and ingestion audit entries. Failures to audit
// are logged by callers and never propagated.
type AuditSink interface {
	Record(ctx context.Context, record model.AuditRecord) error
}

// MergeOutcome is what the store reports for one atomic component batch.
type MergeOutcome struct {
	Added        int
	Updated      int
	EdgesCreated int
}

// ComponentStore persists components and usage edges. MergeBatch must apply
// the whole batch as one atomic unit: upsert each component by identity key,
// ensure a system->component usage edge exists without duplicating it, and
// report how many identities were created vs updated. A failure must leave no
// partial writes.
type ComponentStore interface {
	MergeBatch(ctx context.Context, systemName string, components []model.ExtractedComponent) (*MergeOutcome, error)
}

// LicenseUsageRow is one (team, system, component, license) edge traversal
// result: the team owns the system, the system uses the component, and the
// component carries the license.
type LicenseUsageRow struct {
	Team      string
	System    string
	Component string
	Version   string
	License   string
}

// LicensePolicyRow is an active license-compliance policy with its effective
// allow-set and the teams subject to it. SubjectTeams is ignored for
// organization scope, which applies to every team.
type LicensePolicyRow struct {
	Name         string
	Severity     string
	Scope        string
	SubjectTeams []string
	Allowed      map[string]bool
}

// VersionUsageRow is one (team, system, component, technology) traversal
// result for components mapped to a curated technology.
type VersionUsageRow struct {
	Team       string
	System     string
	Component  string
	Version    string
	Ecosystem  string
	Technology string
}

// ConstraintRow is an active version constraint with its subject teams.
type ConstraintRow struct {
	Name         string
	Technology   string
	Range        string
	Severity     string
	Scope        string
	SubjectTeams []string
}

// GraphReader feeds the evaluators. Implementations return point-in-time
// snapshots; no isolation against concurrent ingestion is promised.
type GraphReader interface {
	LicenseUsageRows(ctx context.Context) ([]LicenseUsageRow, error)
	ActiveLicensePolicies(ctx context.Context) ([]LicensePolicyRow, error)
	VersionUsageRows(ctx context.Context) ([]VersionUsageRow, error)
	ActiveVersionConstraints(ctx context.Context) ([]ConstraintRow, error)
}

// PolicyStore persists governance rules and the materialized allow-sets.
type PolicyStore interface {
	SavePolicy(ctx context.Context, policy *model.Policy) (string, error)
	GetPolicy(ctx context.Context, key string) (*model.Policy, error)
	SetPolicyStatus(ctx context.Context, key, status string) error
	ReplaceAllowSet(ctx context.Context, policyKey string, licenseIDs []string) error
	KnownLicenseIDs(ctx context.Context) ([]string, error)
	SaveConstraint(ctx context.Context, constraint *model.VersionConstraint) (string, error)
	GetConstraint(ctx context.Context, key string) (*model.VersionConstraint, error)
	SetConstraintStatus(ctx context.Context, key, status string) error
}
