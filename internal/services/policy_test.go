package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/assetgraph/govcat/model"
	"go.uber.org/zap"
)

func newTestPolicyService(store *fakePolicyStore, audit *fakeAuditSink) *PolicyService {
	return &PolicyService{
		Store:  store,
		Audit:  audit,
		Logger: zap.NewNop().Sugar(),
	}
}

func TestSavePolicyAllowlistMaterializesDeclaredLicenses(t *testing.T) {
	store := newFakePolicyStore()
	svc := newTestPolicyService(store, &fakeAuditSink{})

	policy := model.NewPolicy("approved-licenses")
	policy.RuleType = model.RuleTypeLicenseCompliance
	policy.Severity = model.SeverityError
	policy.Scope = model.ScopeOrganization
	policy.LicenseMode = model.LicenseModeAllowlist
	policy.LicenseIDs = []string{"MIT", "Apache-2.0"}

	key, err := svc.SavePolicy(context.Background(), policy, "admin")
	require.NoError(t, err)

	assert.Equal(t, []string{"MIT", "Apache-2.0"}, store.allowSets[key])
}

func TestSavePolicyDenylistMaterializesComplement(t *testing.T) {
	store := newFakePolicyStore()
	store.known = []string{"Apache-2.0", "GPL-3.0-only", "MIT"}
	svc := newTestPolicyService(store, &fakeAuditSink{})

	policy := model.NewPolicy("no-copyleft")
	policy.RuleType = model.RuleTypeLicenseCompliance
	policy.Severity = model.SeverityCritical
	policy.Scope = model.ScopeOrganization
	policy.LicenseMode = model.LicenseModeDenylist
	policy.LicenseIDs = []string{"GPL-3.0-only"}

	key, err := svc.SavePolicy(context.Background(), policy, "admin")
	require.NoError(t, err)

	// every known license except the denied ones
	assert.Equal(t, []string{"Apache-2.0", "MIT"}, store.allowSets[key])
}

func TestSavePolicyRejectsInvalidVocabulary(t *testing.T) {
	store := newFakePolicyStore()
	svc := newTestPolicyService(store, &fakeAuditSink{})

	policy := model.NewPolicy("bad-severity")
	policy.RuleType = model.RuleTypeLicenseCompliance
	policy.Severity = "urgent"
	policy.Scope = model.ScopeOrganization
	policy.LicenseMode = model.LicenseModeAllowlist

	_, err := svc.SavePolicy(context.Background(), policy, "admin")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	assert.Empty(t, store.policies, "nothing persisted on validation failure")
}

func TestSaveConstraintValidatesRangeSyntax(t *testing.T) {
	store := newFakePolicyStore()
	svc := newTestPolicyService(store, &fakeAuditSink{})

	constraint := model.NewVersionConstraint("react-18-only", "React", "not a range")
	constraint.Severity = model.SeverityError
	constraint.Scope = model.ScopeOrganization

	_, err := svc.SaveConstraint(context.Background(), constraint, "admin")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	assert.Empty(t, store.constraints)
}

func TestSaveConstraintPersists(t *testing.T) {
	store := newFakePolicyStore()
	audit := &fakeAuditSink{}
	svc := newTestPolicyService(store, audit)

	constraint := model.NewVersionConstraint("react-18-only", "React", ">=18.0.0 <19.0.0")
	constraint.Severity = model.SeverityError
	constraint.Scope = model.ScopeOrganization

	key, err := svc.SaveConstraint(context.Background(), constraint, "admin")
	require.NoError(t, err)

	saved, err := store.GetConstraint(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, model.StatusDraft, saved.Status, "new rules start in draft")

	require.Len(t, audit.records, 1)
	assert.Equal(t, "constraint.save", audit.records[0].Operation)
}

func TestTransitionPolicyEnforcesStateMachine(t *testing.T) {
	store := newFakePolicyStore()
	svc := newTestPolicyService(store, &fakeAuditSink{})

	policy := model.NewPolicy("approved-licenses")
	policy.RuleType = model.RuleTypeLicenseCompliance
	policy.Severity = model.SeverityError
	policy.Scope = model.ScopeOrganization
	policy.LicenseMode = model.LicenseModeAllowlist

	key, err := svc.SavePolicy(context.Background(), policy, "admin")
	require.NoError(t, err)

	// draft cannot archive directly
	err = svc.TransitionPolicy(context.Background(), key, model.StatusArchived, "admin")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))

	require.NoError(t, svc.TransitionPolicy(context.Background(), key, model.StatusActive, "admin"))
	require.NoError(t, svc.TransitionPolicy(context.Background(), key, model.StatusArchived, "admin"))

	// archived rules can be reactivated administratively
	require.NoError(t, svc.TransitionPolicy(context.Background(), key, model.StatusActive, "admin"))

	saved, _ := store.GetPolicy(context.Background(), key)
	assert.Equal(t, model.StatusActive, saved.Status)
}

func TestTransitionPolicyUnknownKey(t *testing.T) {
	svc := newTestPolicyService(newFakePolicyStore(), &fakeAuditSink{})

	err := svc.TransitionPolicy(context.Background(), "missing", model.StatusActive, "admin")
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestTransitionConstraintEnforcesStateMachine(t *testing.T) {
	store := newFakePolicyStore()
	svc := newTestPolicyService(store, &fakeAuditSink{})

	constraint := model.NewVersionConstraint("react-18-only", "React", ">=18.0.0")
	constraint.Severity = model.SeverityWarning
	constraint.Scope = model.ScopeOrganization

	key, err := svc.SaveConstraint(context.Background(), constraint, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.TransitionConstraint(context.Background(), key, model.StatusActive, "admin"))

	err = svc.TransitionConstraint(context.Background(), key, model.StatusActive, "admin")
	require.Error(t, err, "active -> active is not a transition")
}
