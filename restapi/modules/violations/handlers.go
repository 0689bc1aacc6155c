// Package violations implements the REST API handlers for on-demand violation
// evaluation. Results are computed from the current graph state; nothing is
// persisted.
package violations

import (
	"github.com/gofiber/fiber/v2"
	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/internal/services"
	"github.com/assetgraph/govcat/model"
)

func filtersFromQuery(c *fiber.Ctx) model.ViolationFilters {
	return model.ViolationFilters{
		Severity: c.Query("severity"),
		Team:     c.Query("team"),
		System:   c.Query("system"),
		License:  c.Query("license"),
	}
}

// GetLicenseViolations handles GET requests for evaluating license-compliance
// policies. Filters (severity, team, system, license) combine conjunctively
// and the summary reflects the filtered set.
func GetLicenseViolations(db database.DBConnection) fiber.Handler {
	evaluator := &services.LicenseEvaluator{Reader: database.NewGraphStore(db)}

	return func(c *fiber.Ctx) error {
		report, err := evaluator.Evaluate(c.UserContext(), filtersFromQuery(c))
		if err != nil {
			if model.IsValidation(err) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(report)
	}
}

// GetVersionViolations handles GET requests for evaluating version
// constraints. The license filter does not apply here and is ignored.
func GetVersionViolations(db database.DBConnection) fiber.Handler {
	evaluator := &services.VersionEvaluator{Reader: database.NewGraphStore(db)}

	return func(c *fiber.Ctx) error {
		filters := filtersFromQuery(c)
		filters.License = ""

		report, err := evaluator.Evaluate(c.UserContext(), filters)
		if err != nil {
			if model.IsValidation(err) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(report)
	}
}
