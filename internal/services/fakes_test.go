package services

import (
	"context"
	"errors"

	"github.com/assetgraph/govcat/model"
)

// In-memory port implementations backing the service tests.

type fakeRepoRegistry struct {
	repos       map[string]*model.Repository
	scanUpdates []string
}

func (f *fakeRepoRegistry) FindByNormalizedURL(_ context.Context, url string) (*model.Repository, error) {
	return f.repos[url], nil
}

func (f *fakeRepoRegistry) UpdateLastScanTimestamp(_ context.Context, url string) error {
	f.scanUpdates = append(f.scanUpdates, url)
	return nil
}

type fakeSystemRegistry struct {
	systems map[string]*model.System
}

func (f *fakeSystemRegistry) FindSystemByRepositoryURL(_ context.Context, url string) (*model.System, error) {
	return f.systems[url], nil
}

// fakeComponentStore upserts by identity key and tracks usage edges per
// (system, identity) pair, mirroring the graph store's merge contract.
type fakeComponentStore struct {
	identities map[string]bool
	edges      map[string]bool
	batches    [][]model.ExtractedComponent
}

func newFakeComponentStore() *fakeComponentStore {
	return &fakeComponentStore{
		identities: make(map[string]bool),
		edges:      make(map[string]bool),
	}
}

func (f *fakeComponentStore) MergeBatch(_ context.Context, systemName string, components []model.ExtractedComponent) (*MergeOutcome, error) {
	f.batches = append(f.batches, components)

	outcome := &MergeOutcome{}
	for _, component := range components {
		key := component.IdentityKey()
		if f.identities[key] {
			outcome.Updated++
		} else {
			f.identities[key] = true
			outcome.Added++
		}

		edgeKey := systemName + "\x00" + key
		if !f.edges[edgeKey] {
			f.edges[edgeKey] = true
			outcome.EdgesCreated++
		}
	}
	return outcome, nil
}

type fakeAuditSink struct {
	records []model.AuditRecord
	fail    bool
}

func (f *fakeAuditSink) Record(_ context.Context, record model.AuditRecord) error {
	if f.fail {
		return errors.New("audit sink unavailable")
	}
	f.records = append(f.records, record)
	return nil
}

type fakeGraphReader struct {
	licenseRows []LicenseUsageRow
	policies    []LicensePolicyRow
	versionRows []VersionUsageRow
	constraints []ConstraintRow
}

func (f *fakeGraphReader) LicenseUsageRows(_ context.Context) ([]LicenseUsageRow, error) {
	return f.licenseRows, nil
}

func (f *fakeGraphReader) ActiveLicensePolicies(_ context.Context) ([]LicensePolicyRow, error) {
	return f.policies, nil
}

func (f *fakeGraphReader) VersionUsageRows(_ context.Context) ([]VersionUsageRow, error) {
	return f.versionRows, nil
}

func (f *fakeGraphReader) ActiveVersionConstraints(_ context.Context) ([]ConstraintRow, error) {
	return f.constraints, nil
}

type fakePolicyStore struct {
	policies    map[string]*model.Policy
	constraints map[string]*model.VersionConstraint
	allowSets   map[string][]string
	known       []string
	nextKey     int
}

func newFakePolicyStore() *fakePolicyStore {
	return &fakePolicyStore{
		policies:    make(map[string]*model.Policy),
		constraints: make(map[string]*model.VersionConstraint),
		allowSets:   make(map[string][]string),
	}
}

func (f *fakePolicyStore) key() string {
	f.nextKey++
	return string(rune('a' + f.nextKey - 1))
}

func (f *fakePolicyStore) SavePolicy(_ context.Context, policy *model.Policy) (string, error) {
	for key, existing := range f.policies {
		if existing.Name == policy.Name {
			clone := *policy
			f.policies[key] = &clone
			return key, nil
		}
	}
	key := f.key()
	clone := *policy
	f.policies[key] = &clone
	return key, nil
}

func (f *fakePolicyStore) GetPolicy(_ context.Context, key string) (*model.Policy, error) {
	return f.policies[key], nil
}

func (f *fakePolicyStore) SetPolicyStatus(_ context.Context, key, status string) error {
	policy, ok := f.policies[key]
	if !ok {
		return errors.New("policy not found")
	}
	policy.Status = status
	return nil
}

func (f *fakePolicyStore) ReplaceAllowSet(_ context.Context, policyKey string, licenseIDs []string) error {
	f.allowSets[policyKey] = licenseIDs
	return nil
}

func (f *fakePolicyStore) KnownLicenseIDs(_ context.Context) ([]string, error) {
	return f.known, nil
}

func (f *fakePolicyStore) SaveConstraint(_ context.Context, constraint *model.VersionConstraint) (string, error) {
	for key, existing := range f.constraints {
		if existing.Name == constraint.Name {
			clone := *constraint
			f.constraints[key] = &clone
			return key, nil
		}
	}
	key := f.key()
	clone := *constraint
	f.constraints[key] = &clone
	return key, nil
}

func (f *fakePolicyStore) GetConstraint(_ context.Context, key string) (*model.VersionConstraint, error) {
	return f.constraints[key], nil
}

func (f *fakePolicyStore) SetConstraintStatus(_ context.Context, key, status string) error {
	constraint, ok := f.constraints[key]
	if !ok {
		return errors.New("constraint not found")
	}
	constraint.Status = status
	return nil
}
