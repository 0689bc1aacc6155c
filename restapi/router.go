// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/assetgraph/govcat/database"
	bommod "github.com/assetgraph/govcat/restapi/modules/bom"
	"github.com/assetgraph/govcat/restapi/modules/catalog"
	"github.com/assetgraph/govcat/restapi/modules/governance"
	"github.com/assetgraph/govcat/restapi/modules/violations"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, db database.DBConnection, schema graphql.Schema) {

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Catalog registration
	api.Post("/teams", catalog.PostTeam(db))
	api.Get("/teams", catalog.GetTeams(db))
	api.Post("/repositories", catalog.PostRepository(db))
	api.Post("/systems", catalog.PostSystem(db))
	api.Get("/systems", catalog.GetSystems(db))
	api.Get("/systems/:name/components", catalog.GetSystemComponents(db))
	api.Post("/technologies", catalog.PostTechnology(db))
	api.Post("/licenses", catalog.PostLicense(db))

	// BOM ingestion
	api.Post("/bom", bommod.PostBOM(db))
	api.Post("/bom/normalize", bommod.PostNormalize())

	// Governance rules
	api.Post("/policies", governance.PostPolicy(db))
	api.Post("/policies/:key/status", governance.PostPolicyStatus(db))
	api.Post("/constraints", governance.PostConstraint(db))
	api.Post("/constraints/:key/status", governance.PostConstraintStatus(db))

	// Violation evaluation
	api.Get("/violations/licenses", violations.GetLicenseViolations(db))
	api.Get("/violations/versions", violations.GetVersionViolations(db))

	log.Println("API routes initialized successfully")
}
