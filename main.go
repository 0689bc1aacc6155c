// package main provides the entry point for the govcat microservice: the
// software-asset governance catalog serving BOM ingestion, catalog
// registration, governance rules and violation evaluation over REST and
// GraphQL.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/internal/api"
	"github.com/assetgraph/govcat/internal/kafka"
	"github.com/assetgraph/govcat/internal/seed"
	"github.com/assetgraph/govcat/util"
)

func main() {
	// Local development convenience; a missing .env is fine
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Initialize database connection
	db := database.InitializeDatabase()

	ctx := context.Background()

	// Optional catalog bootstrap from YAML
	seedPath := util.GetEnvDefault("SEED_FILE", "seed.yaml")
	if err := seed.Load(ctx, db, seedPath); err != nil {
		log.Fatalf("Failed to apply seed file: %v", err)
	}

	// Optional Kafka consumer for CI-pipeline BOM uploads
	if os.Getenv("KAFKA_ENABLED") == "true" {
		if err := kafka.RunEventProcessor(ctx, db); err != nil {
			log.Printf("Kafka event processor unavailable: %v", err)
		}
	}

	app := api.NewFiberApp(db)

	port := util.GetEnvDefault("MS_PORT", "3000")

	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
