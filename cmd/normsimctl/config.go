package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"normsim/pkg/normsim"
)

// defaultSweepConfig is the reference experiment: population 1000, 1000
// rounds, revision every round, and the full weight × proportion grid.
func defaultSweepConfig() normsim.SweepConfig {
	return normsim.SweepConfig{
		Base: normsim.RunConfig{
			PopulationSize:   1000,
			NumRounds:        1000,
			RevisionInterval: 1,
			Assignment:       normsim.AssignRandom,
			Seed:             42,
		},
		Grid: normsim.DefaultSweepGrid(),
	}
}

// loadSweepConfig reads a sweep config file (YAML or JSON, detected by
// extension, then content). An empty path yields the defaults; fields
// present in the file override the defaults.
func loadSweepConfig(path string) (normsim.SweepConfig, error) {
	cfg := defaultSweepConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return normsim.SweepConfig{}, fmt.Errorf("read sweep config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
	}
	if err != nil {
		return normsim.SweepConfig{}, fmt.Errorf("parse sweep config %s: %w", path, err)
	}
	return cfg, nil
}
