// Package catalog implements the REST API handlers for catalog registration:
// teams, repositories, systems, curated technologies and licenses.
package catalog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/model"
)

// PostTeam handles POST requests for registering a team.
func PostTeam(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		var req model.Team
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name is a required field",
			})
		}

		if err := store.RegisterTeam(c.UserContext(), req.Name); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "name": req.Name})
	}
}

// GetTeams handles GET requests for listing registered teams.
func GetTeams(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		teams, err := store.ListTeams(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"teams": teams, "count": len(teams)})
	}
}

// PostRepository handles POST requests for registering a source repository.
// The stored URL is the normalized form and is echoed back to the caller.
func PostRepository(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		var req model.Repository
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}

		normalized, err := store.RegisterRepository(c.UserContext(), req.URL)
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
		return c.JSON(fiber.Map{"success": true, "url": normalized})
	}
}

// SystemRequest carries a system registration. Team names the owning team and
// repository_url links the system to a registered repository.
type SystemRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	RepositoryURL string `json:"repository_url,omitempty"`
	Team          string `json:"team"`
}

// PostSystem handles POST requests for registering a system under a team.
func PostSystem(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		var req SystemRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}
		if req.Name == "" || req.Team == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name and team are required fields",
			})
		}

		system := model.NewSystem(req.Name)
		system.Description = req.Description
		system.RepositoryURL = req.RepositoryURL

		if err := store.RegisterSystem(c.UserContext(), system, req.Team); err != nil {
			if model.IsValidation(err) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "name": req.Name})
	}
}

// GetSystems handles GET requests for listing registered systems.
func GetSystems(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		systems, err := store.ListSystems(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"systems": systems, "count": len(systems)})
	}
}

// GetSystemComponents handles GET requests for listing the components a system
// currently uses.
func GetSystemComponents(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		components, err := store.ListComponentsForSystem(c.UserContext(), name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"system":     name,
			"components": components,
			"count":      len(components),
		})
	}
}

// PostTechnology handles POST requests for registering a curated technology.
func PostTechnology(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		var req model.Technology
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name is a required field",
			})
		}

		req.ObjType = "Technology"
		if err := store.RegisterTechnology(c.UserContext(), &req); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "name": req.Name})
	}
}

// PostLicense handles POST requests for registering a canonical license.
func PostLicense(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		var req model.License
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}
		if req.ID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "id is a required field",
			})
		}

		req.ObjType = "License"
		if err := store.RegisterLicense(c.UserContext(), &req); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "id": req.ID})
	}
}
