// Package bom implements the REST API handlers for BOM submission: dry-run
// normalization and full normalize-plus-ingest.
package bom

import (
	"github.com/gofiber/fiber/v2"
	bomcore "github.com/assetgraph/govcat/bom"
	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/internal/services"
	"github.com/assetgraph/govcat/model"
)

var logger = database.InitLogger()

// IngestResponse returns the result of POST /bom operations
type IngestResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Result  *model.IngestResult `json:"result,omitempty"`
}

// PostBOM handles POST requests for submitting a BOM: the document is
// normalized and the extraction merged into the graph for the system linked
// to the submitted repository URL.
func PostBOM(db database.DBConnection) fiber.Handler {
	store := database.NewGraphStore(db)

	return func(c *fiber.Ctx) error {
		var req model.BOMSubmission

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(IngestResponse{
				Success: false,
				Message: "Invalid request body: " + err.Error(),
			})
		}

		if req.RepositoryURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(IngestResponse{
				Success: false,
				Message: "repository_url is a required field",
			})
		}
		if len(req.Content) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(IngestResponse{
				Success: false,
				Message: "BOM content is required",
			})
		}

		extracted, err := bomcore.Normalize(req.Content, req.Format)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(IngestResponse{
				Success: false,
				Message: err.Error(),
			})
		}

		ingestor := &services.Ingestor{
			Repos:      store,
			Systems:    store,
			Components: store,
			Audit:      store,
			Logger:     logger.Sugar(),
		}

		// Auth is handled upstream; the caller identity arrives as an opaque
		// header used only for audit attribution.
		userID := c.Get("X-User-ID")

		result, err := ingestor.Ingest(c.UserContext(), req.RepositoryURL, extracted, userID)
		if err != nil {
			return c.Status(ingestErrorStatus(err)).JSON(IngestResponse{
				Success: false,
				Message: err.Error(),
			})
		}

		return c.JSON(IngestResponse{
			Success: true,
			Result:  &result,
		})
	}
}

// PostNormalize handles dry-run normalization: the document is extracted and
// returned without touching the graph.
func PostNormalize() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.BOMSubmission

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body: " + err.Error(),
			})
		}
		if len(req.Content) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "BOM content is required",
			})
		}

		extracted, err := bomcore.Normalize(req.Content, req.Format)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"components": extracted,
			"count":      len(extracted),
		})
	}
}

// ingestErrorStatus maps core conditions to transport status: precondition
// failures are 409 (the caller must register/link first and resubmit),
// validation failures 400, anything else 500.
func ingestErrorStatus(err error) int {
	switch {
	case model.IsPrecondition(err):
		return fiber.StatusConflict
	case model.IsValidation(err):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
