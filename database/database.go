// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = InitLogger() // setup the logger

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Define a struct to hold the index definition
type indexConfig struct {
	Collection string
	IdxName    string
	IdxField   string
}

var initDone = false          // has the data been initialized
var dbConnection DBConnection // database connection definition

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger() *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	logger, _ := prodConfig.Build()
	return logger
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// InitializeDatabase is the function for connecting to the db engine, creating the database and collections
func InitializeDatabase() DBConnection {
	const initialInterval = 10 * time.Second
	const maxInterval = 2 * time.Minute

	var db arangodb.Database
	var collections map[string]arangodb.Collection
	const databaseName = "govcat"

	ctx := context.Background()

	if initDone {
		return dbConnection
	}

	False := false
	True := true
	dbhost := GetEnvDefault("ARANGO_HOST", "localhost")
	dbport := GetEnvDefault("ARANGO_PORT", "8529")
	dbuser := GetEnvDefault("ARANGO_USER", "root")
	dbpass := GetEnvDefault("ARANGO_PASS", "mypassword")
	dburl := GetEnvDefault("ARANGO_URL", "http://"+dbhost+":"+dbport)

	var client arangodb.Client

	//
	// Database connection with backoff retry
	//

	// Configure exponential backoff
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // Set to 0 for indefinite retries

	// Retry logic
	err := backoff.RetryNotify(func() error {
		fmt.Println("Attempting to connect to ArangoDB")
		endpoint := connection.NewRoundRobinEndpoints([]string{dburl})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, dbuser, dbpass))

		client = arangodb.NewClient(conn)

		// Ask the version of the server
		versionInfo, err := client.Version(context.Background())
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'\n", versionInfo.Version, versionInfo.License)
		return nil

	}, bo, func(err error, _ time.Duration) {
		fmt.Printf("Retrying connection to ArangoDB: %v\n", err)
	})

	if err != nil {
		logger.Sugar().Fatalf("Backoff Error %v\n", err)
	}

	//
	// Database creation
	//

	exists := false
	dblist, _ := client.Databases(ctx)

	for _, dbinfo := range dblist {
		if dbinfo.Name() == databaseName {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, databaseName, &options); err != nil {
			logger.Sugar().Fatalf("Failed to get Database: %v", err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, databaseName, nil); err != nil {
			logger.Sugar().Fatalf("Failed to create Database: %v", err)
		}
	}

	//
	// Collection creation for document storage
	//

	collections = make(map[string]arangodb.Collection)
	collectionNames := []string{"team", "system", "repository", "component", "license", "technology", "policy", "constraint", "audit"}

	for _, collectionName := range collectionNames {
		var col arangodb.Collection

		exists, _ = db.CollectionExists(ctx, collectionName)
		if exists {
			var options arangodb.GetCollectionOptions
			if col, err = db.GetCollection(ctx, collectionName, &options); err != nil {
				logger.Sugar().Fatalf("Failed to use collection: %v", err)
			}
		} else {
			if col, err = db.CreateCollectionV2(ctx, collectionName, nil); err != nil {
				logger.Sugar().Fatalf("Failed to create collection: %v", err)
			}
		}

		collections[collectionName] = col
	}

	//
	// Edge collection creation
	//

	edgeCollectionNames := []string{
		"team2system",          // team owns system
		"system2component",     // system uses component
		"component2license",    // component carries license
		"component2technology", // component is a version of technology
		"team2policy",          // team is subject to policy
		"team2policy_owner",    // team enforces policy
		"team2constraint",      // team is subject to constraint
		"policy2license",       // policy's effective allow-set
	}

	for _, edgeCollectionName := range edgeCollectionNames {
		var col arangodb.Collection

		exists, _ = db.CollectionExists(ctx, edgeCollectionName)
		if exists {
			var options arangodb.GetCollectionOptions
			if col, err = db.GetCollection(ctx, edgeCollectionName, &options); err != nil {
				logger.Sugar().Fatalf("Failed to use edge collection: %v", err)
			}
		} else {
			edgeType := arangodb.CollectionTypeEdge
			if col, err = db.CreateCollectionV2(ctx, edgeCollectionName, &arangodb.CreateCollectionPropertiesV2{
				Type: &edgeType,
			}); err != nil {
				logger.Sugar().Fatalf("Failed to create edge collection: %v", err)
			}
		}

		collections[edgeCollectionName] = col
	}

	//
	// Index creation for document collections
	//

	idxList := []indexConfig{
		// Component collection indexes for identity resolution
		{Collection: "component", IdxName: "component_name", IdxField: "name"},
		{Collection: "component", IdxName: "component_version", IdxField: "version"},
		{Collection: "component", IdxName: "component_manager", IdxField: "package_manager"},

		// Catalog lookups
		{Collection: "team", IdxName: "team_name", IdxField: "name"},
		{Collection: "system", IdxName: "system_name", IdxField: "name"},
		{Collection: "license", IdxName: "license_id", IdxField: "id"},
		{Collection: "technology", IdxName: "technology_name", IdxField: "name"},

		// Governance rule lookups
		{Collection: "policy", IdxName: "policy_name", IdxField: "name"},
		{Collection: "policy", IdxName: "policy_status", IdxField: "status"},
		{Collection: "policy", IdxName: "policy_rule_type", IdxField: "rule_type"},
		{Collection: "constraint", IdxName: "constraint_name", IdxField: "name"},
		{Collection: "constraint", IdxName: "constraint_status", IdxField: "status"},
		{Collection: "constraint", IdxName: "constraint_technology", IdxField: "technology"},

		// Audit queries
		{Collection: "audit", IdxName: "audit_entity", IdxField: "entity_id"},
		{Collection: "audit", IdxName: "audit_operation", IdxField: "operation"},

		// Edge collection indexes for optimized traversals
		{Collection: "team2system", IdxName: "team2system_from", IdxField: "_from"},
		{Collection: "team2system", IdxName: "team2system_to", IdxField: "_to"},
		{Collection: "system2component", IdxName: "system2component_from", IdxField: "_from"},
		{Collection: "system2component", IdxName: "system2component_to", IdxField: "_to"},
		{Collection: "component2license", IdxName: "component2license_from", IdxField: "_from"},
		{Collection: "component2license", IdxName: "component2license_to", IdxField: "_to"},
		{Collection: "component2technology", IdxName: "component2technology_from", IdxField: "_from"},
		{Collection: "component2technology", IdxName: "component2technology_to", IdxField: "_to"},
		{Collection: "team2policy", IdxName: "team2policy_from", IdxField: "_from"},
		{Collection: "team2policy", IdxName: "team2policy_to", IdxField: "_to"},
		{Collection: "team2policy_owner", IdxName: "team2policy_owner_to", IdxField: "_to"},
		{Collection: "team2constraint", IdxName: "team2constraint_from", IdxField: "_from"},
		{Collection: "team2constraint", IdxName: "team2constraint_to", IdxField: "_to"},
		{Collection: "policy2license", IdxName: "policy2license_from", IdxField: "_from"},
		{Collection: "policy2license", IdxName: "policy2license_to", IdxField: "_to"},
	}

	for _, idx := range idxList {
		found := false

		if indexes, err := collections[idx.Collection].Indexes(ctx); err == nil {
			for _, index := range indexes {
				if idx.IdxName == index.Name {
					found = true
					break
				}
			}
		}

		if !found {
			// Define the index options
			indexOptions := arangodb.CreatePersistentIndexOptions{
				Unique: &False,
				Sparse: &False,
				Name:   idx.IdxName,
			}

			// Create the index
			_, _, err = collections[idx.Collection].EnsurePersistentIndex(ctx, []string{idx.IdxField}, &indexOptions)
			if err != nil {
				logger.Sugar().Fatalln("Error creating index:", err)
			} else {
				logger.Sugar().Infof("Created index: %s on %s.%s", idx.IdxName, idx.Collection, idx.IdxField)
			}
		}
	}

	//
	// Unique indexes guarding the identity invariants
	//

	// At most one component node per purl. Sparse because purl-less components
	// fall back to the composite identity below.
	componentPurlIdx := "component_purl_unique"
	found := false
	if indexes, err := collections["component"].Indexes(ctx); err == nil {
		for _, index := range indexes {
			if componentPurlIdx == index.Name {
				found = true
				break
			}
		}
	}
	if !found {
		uniqueIdxOptions := arangodb.CreatePersistentIndexOptions{
			Unique: &True,
			Sparse: &True,
			Name:   componentPurlIdx,
		}
		_, _, err = collections["component"].EnsurePersistentIndex(ctx, []string{"purl"}, &uniqueIdxOptions)
		if err != nil {
			logger.Sugar().Fatalln("Error creating unique index on component purl:", err)
		} else {
			logger.Sugar().Infof("Created unique index: %s on component", componentPurlIdx)
		}
	}

	// Composite index for identity fallback by name + version + manager
	componentIdentityIdx := "component_identity"
	found = false
	if indexes, err := collections["component"].Indexes(ctx); err == nil {
		for _, index := range indexes {
			if componentIdentityIdx == index.Name {
				found = true
				break
			}
		}
	}
	if !found {
		compositeIdxOptions := arangodb.CreatePersistentIndexOptions{
			Unique: &False,
			Sparse: &False,
			Name:   componentIdentityIdx,
		}
		_, _, err = collections["component"].EnsurePersistentIndex(ctx,
			[]string{"name", "version", "package_manager"},
			&compositeIdxOptions)
		if err != nil {
			logger.Sugar().Fatalln("Error creating composite index:", err)
		} else {
			logger.Sugar().Infof("Created composite index: %s on component", componentIdentityIdx)
		}
	}

	// Unique index on normalized repository URL
	repoURLIdx := "repository_url_unique"
	found = false
	if indexes, err := collections["repository"].Indexes(ctx); err == nil {
		for _, index := range indexes {
			if repoURLIdx == index.Name {
				found = true
				break
			}
		}
	}
	if !found {
		uniqueIdxOptions := arangodb.CreatePersistentIndexOptions{
			Unique: &True,
			Sparse: &False,
			Name:   repoURLIdx,
		}
		_, _, err = collections["repository"].EnsurePersistentIndex(ctx, []string{"url"}, &uniqueIdxOptions)
		if err != nil {
			logger.Sugar().Fatalln("Error creating unique index on repository url:", err)
		} else {
			logger.Sugar().Infof("Created unique index: %s on repository", repoURLIdx)
		}
	}

	// Unique index on usage edges so concurrent re-ingestion cannot duplicate them
	usageEdgeIdx := "system2component_unique"
	found = false
	if indexes, err := collections["system2component"].Indexes(ctx); err == nil {
		for _, index := range indexes {
			if usageEdgeIdx == index.Name {
				found = true
				break
			}
		}
	}
	if !found {
		uniqueIdxOptions := arangodb.CreatePersistentIndexOptions{
			Unique: &True,
			Sparse: &False,
			Name:   usageEdgeIdx,
		}
		_, _, err = collections["system2component"].EnsurePersistentIndex(ctx, []string{"_from", "_to"}, &uniqueIdxOptions)
		if err != nil {
			logger.Sugar().Fatalln("Error creating unique index on system2component:", err)
		} else {
			logger.Sugar().Infof("Created unique index: %s on system2component", usageEdgeIdx)
		}
	}

	initDone = true

	dbConnection = DBConnection{
		Database:    db,
		Collections: collections,
	}

	logger.Sugar().Infof("Database initialization complete with identity and usage-edge invariants")

	return dbConnection
}
