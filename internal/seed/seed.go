// Package seed loads an optional YAML bootstrap file describing the catalog
// baseline: teams, repositories, systems, curated technologies and licenses.
// Seeding is idempotent; every entry upserts by its natural key.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/assetgraph/govcat/database"
	"github.com/assetgraph/govcat/model"
	yaml "gopkg.in/yaml.v2"
)

var logger = database.InitLogger()

// File is the top-level structure of a seed file.
type File struct {
	Teams        []string         `yaml:"teams"`
	Repositories []string         `yaml:"repositories"`
	Systems      []SystemSeed     `yaml:"systems"`
	Technologies []TechnologySeed `yaml:"technologies"`
	Licenses     []LicenseSeed    `yaml:"licenses"`
}

// SystemSeed describes one system and its team/repository bindings.
type SystemSeed struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Team          string `yaml:"team"`
	RepositoryURL string `yaml:"repository_url"`
}

// TechnologySeed describes one curated technology.
type TechnologySeed struct {
	Name     string `yaml:"name"`
	BasePurl string `yaml:"base_purl"`
}

// LicenseSeed describes one canonical license.
type LicenseSeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads and applies the seed file at path. A missing file is not an
// error; the catalog simply starts empty.
func Load(ctx context.Context, db database.DBConnection, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Sugar().Infof("No seed file at %s, skipping bootstrap", path)
			return nil
		}
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	return Apply(ctx, db, file)
}

// Apply registers every entry of an already-parsed seed file.
func Apply(ctx context.Context, db database.DBConnection, file File) error {
	store := database.NewGraphStore(db)

	for _, name := range file.Teams {
		if err := store.RegisterTeam(ctx, name); err != nil {
			return fmt.Errorf("failed to seed team %s: %w", name, err)
		}
	}

	for _, url := range file.Repositories {
		if _, err := store.RegisterRepository(ctx, url); err != nil {
			return fmt.Errorf("failed to seed repository %s: %w", url, err)
		}
	}

	for _, tech := range file.Technologies {
		t := &model.Technology{ObjType: "Technology", Name: tech.Name, BasePurl: tech.BasePurl}
		if err := store.RegisterTechnology(ctx, t); err != nil {
			return fmt.Errorf("failed to seed technology %s: %w", tech.Name, err)
		}
	}

	for _, lic := range file.Licenses {
		l := &model.License{ObjType: "License", ID: lic.ID, Name: lic.Name, URL: lic.URL}
		if err := store.RegisterLicense(ctx, l); err != nil {
			return fmt.Errorf("failed to seed license %s: %w", lic.ID, err)
		}
	}

	// Systems last so team and repository references resolve
	for _, sys := range file.Systems {
		system := model.NewSystem(sys.Name)
		system.Description = sys.Description
		system.RepositoryURL = sys.RepositoryURL
		if err := store.RegisterSystem(ctx, system, sys.Team); err != nil {
			return fmt.Errorf("failed to seed system %s: %w", sys.Name, err)
		}
	}

	logger.Sugar().Infof("Seed applied: %d teams, %d repositories, %d systems, %d technologies, %d licenses",
		len(file.Teams), len(file.Repositories), len(file.Systems), len(file.Technologies), len(file.Licenses))
	return nil
}
