// Package services - governance rule write path. Policies and version
// constraints share the draft -> active -> archived state machine; only active
// rules are visible to the evaluators.
package services

import (
	"context"
	"fmt"

	"github.com/assetgraph/govcat/model"
	"github.com/assetgraph/govcat/util"
	"go.uber.org/zap"
)

// PolicyService creates and transitions governance rules.
type PolicyService struct {
	Store  PolicyStore
	Audit  AuditSink
	Logger *zap.SugaredLogger
}

// SavePolicy validates and persists a policy. For license-compliance policies
// the effective allow-set is materialized here, at write time: allowlist mode
// stores the declared licenses, denylist mode stores every known license
// except the denied ones. The read path only ever checks the allow relation.
//
// Denylist semantics are therefore "deny unless explicitly allowed": a license
// registered in the catalog after a denylist policy was saved stays outside
// that policy's allow-set until the policy is saved again.
func (ps *PolicyService) SavePolicy(ctx context.Context, policy *model.Policy, userID string) (string, error) {
	if err := policy.Validate(); err != nil {
		return "", err
	}

	key, err := ps.Store.SavePolicy(ctx, policy)
	if err != nil {
		return "", fmt.Errorf("failed to save policy %s: %w", policy.Name, err)
	}

	if policy.RuleType == model.RuleTypeLicenseCompliance {
		allowSet, err := ps.effectiveAllowSet(ctx, policy)
		if err != nil {
			return "", err
		}
		if err := ps.Store.ReplaceAllowSet(ctx, key, allowSet); err != nil {
			return "", fmt.Errorf("failed to materialize allow-set for policy %s: %w", policy.Name, err)
		}
	}

	ps.audit(ctx, "policy.save", "Policy", key, policy.Name, userID)
	return key, nil
}

// effectiveAllowSet collapses both license modes to one allow relation.
func (ps *PolicyService) effectiveAllowSet(ctx context.Context, policy *model.Policy) ([]string, error) {
	if policy.LicenseMode == model.LicenseModeAllowlist {
		return policy.LicenseIDs, nil
	}

	known, err := ps.Store.KnownLicenseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list known licenses: %w", err)
	}

	allowed := make([]string, 0, len(known))
	for _, id := range known {
		if !util.Contains(policy.LicenseIDs, id) {
			allowed = append(allowed, id)
		}
	}
	return allowed, nil
}

// TransitionPolicy moves a policy between statuses, enforcing the state
// machine.
func (ps *PolicyService) TransitionPolicy(ctx context.Context, key, status, userID string) error {
	policy, err := ps.Store.GetPolicy(ctx, key)
	if err != nil {
		return fmt.Errorf("policy lookup failed: %w", err)
	}
	if policy == nil {
		return &model.ValidationError{Field: "policy", Value: key, Reason: "policy not found"}
	}
	if !model.ValidStatusTransition(policy.Status, status) {
		return &model.ValidationError{Field: "status", Value: status,
			Reason: fmt.Sprintf("policy %s cannot move from %s", policy.Name, policy.Status)}
	}

	if err := ps.Store.SetPolicyStatus(ctx, key, status); err != nil {
		return fmt.Errorf("failed to set policy status: %w", err)
	}

	ps.audit(ctx, "policy."+status, "Policy", key, policy.Name, userID)
	return nil
}

// SaveConstraint validates and persists a version constraint. The range
// expression is checked against the semver parser so constraint evaluation
// never sees invalid syntax.
func (ps *PolicyService) SaveConstraint(ctx context.Context, constraint *model.VersionConstraint, userID string) (string, error) {
	if err := constraint.Validate(); err != nil {
		return "", err
	}
	if err := util.ValidateRange(constraint.Range); err != nil {
		return "", &model.ValidationError{Field: "range", Value: constraint.Range, Reason: err.Error()}
	}

	key, err := ps.Store.SaveConstraint(ctx, constraint)
	if err != nil {
		return "", fmt.Errorf("failed to save constraint %s: %w", constraint.Name, err)
	}

	ps.audit(ctx, "constraint.save", "VersionConstraint", key, constraint.Name, userID)
	return key, nil
}

// TransitionConstraint moves a constraint between statuses.
func (ps *PolicyService) TransitionConstraint(ctx context.Context, key, status, userID string) error {
	constraint, err := ps.Store.GetConstraint(ctx, key)
	if err != nil {
		return fmt.Errorf("constraint lookup failed: %w", err)
	}
	if constraint == nil {
		return &model.ValidationError{Field: "constraint", Value: key, Reason: "constraint not found"}
	}
	if !model.ValidStatusTransition(constraint.Status, status) {
		return &model.ValidationError{Field: "status", Value: status,
			Reason: fmt.Sprintf("constraint %s cannot move from %s", constraint.Name, constraint.Status)}
	}

	if err := ps.Store.SetConstraintStatus(ctx, key, status); err != nil {
		return fmt.Errorf("failed to set constraint status: %w", err)
	}

	ps.audit(ctx, "constraint."+status, "VersionConstraint", key, constraint.Name, userID)
	return nil
}

func (ps *PolicyService) audit(ctx context.Context, operation, entityType, entityID, label, userID string) {
	record := model.AuditRecord{
		Operation:  operation,
		EntityType: entityType,
		EntityID:   entityID,
		Label:      label,
		UserID:     userID,
	}
	if err := ps.Audit.Record(ctx, record); err != nil {
		ps.Logger.Warnf("Failed to record audit for %s %s: %v", entityType, entityID, err)
	}
}
