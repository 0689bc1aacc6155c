// Package governance implements the REST API handlers for governance rules:
// license policies, version constraints and their status transitions.
package governance

import (
	"github.com/gofiber/fiber/v2"
	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/internal/services"
	"github.com/assetgraph/govcat/model"
)

var logger = database.InitLogger()

// PolicyRequest carries a policy definition plus its team bindings.
// SubjectTeams are governed by the policy, EnforcingTeam owns it.
type PolicyRequest struct {
	model.Policy
	SubjectTeams  []string `json:"subject_teams,omitempty"`
	EnforcingTeam string   `json:"enforcing_team,omitempty"`
}

// ConstraintRequest carries a version constraint plus the teams subject to it.
type ConstraintRequest struct {
	model.VersionConstraint
	SubjectTeams []string `json:"subject_teams,omitempty"`
}

// StatusRequest carries a rule status transition.
type StatusRequest struct {
	Status string `json:"status"`
}

func policyService(store *database.GraphStore) *services.PolicyService {
	return &services.PolicyService{
		Store:  store,
		Audit:  store,
		Logger: logger.Sugar(),
	}
}

// PostPolicy handles POST requests for creating or updating a policy. For
// license-compliance policies the effective allow-set is materialized as part
// of the save.
func PostPolicy(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)
	svc := policyService(store)

	return func(c *fiber.Ctx) error {
		var req PolicyRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}

		key, err := svc.SavePolicy(c.UserContext(), &req.Policy, c.Get("X-User-ID"))
		if err != nil {
			return c.Status(ruleErrorStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		for _, team := range req.SubjectTeams {
			if err := store.SubjectTeamToPolicy(c.UserContext(), team, key); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
		}
		if req.EnforcingTeam != "" {
			if err := store.EnforcePolicy(c.UserContext(), req.EnforcingTeam, key); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{"success": true, "key": key})
	}
}

// PostPolicyStatus handles POST requests for transitioning a policy's status.
func PostPolicyStatus(db database.DBConnection) fiber.Handler {
	svc := policyService(database.NewGraphStore(db))

	return func(c *fiber.Ctx) error {
		var req StatusRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}

		key := c.Params("key")
		if err := svc.TransitionPolicy(c.UserContext(), key, req.Status, c.Get("X-User-ID")); err != nil {
			return c.Status(ruleErrorStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "key": key, "status": req.Status})
	}
}

// PostConstraint handles POST requests for creating or updating a version
// constraint. The range expression is validated against the semver parser
// before anything is stored.
func PostConstraint(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)
	svc := policyService(store)

	return func(c *fiber.Ctx) error {
		var req ConstraintRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}

		key, err := svc.SaveConstraint(c.UserContext(), &req.VersionConstraint, c.Get("X-User-ID"))
		if err != nil {
			return c.Status(ruleErrorStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		for _, team := range req.SubjectTeams {
			if err := store.SubjectTeamToConstraint(c.UserContext(), team, key); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{"success": true, "key": key})
	}
}

// PostConstraintStatus handles POST requests for transitioning a constraint's
// status.
func PostConstraintStatus(db database.DBConnection) fiber.Handler {
	svc := policyService(database.NewGraphStore(db))

	return func(c *fiber.Ctx) error {
		var req StatusRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}

		key := c.Params("key")
		if err := svc.TransitionConstraint(c.UserContext(), key, req.Status, c.Get("X-User-ID")); err != nil {
			return c.Status(ruleErrorStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "key": key, "status": req.Status})
	}
}

func ruleErrorStatus(err error) int {
	if model.IsValidation(err) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
