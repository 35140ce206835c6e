package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"normsim/pkg/normsim"
)

func TestSweepThenReportOverCSV(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, "sweep.yaml", `
base:
  population_size: 20
  num_rounds: 10
  revision_interval: 2
  seed: 1
grid:
  weight_from: 1
  weight_to: 2
  weight_step: 1
  prop_from: 0
  prop_to: 0.4
  prop_count: 2
`)
	resultsPath := filepath.Join(dir, "results.csv")

	cfg, err := loadSweepConfig(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	rec, err := normsim.NewRecorder("csv", resultsPath)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if err := rec.Init(context.Background()); err != nil {
		t.Fatalf("init recorder: %v", err)
	}
	results, err := normsim.RunSweep(context.Background(), cfg, rec)
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if err := normsim.CloseRecorder(rec); err != nil {
		t.Fatalf("close recorder: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	data, err := os.ReadFile(resultsPath)
	if err != nil {
		t.Fatalf("read results file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "weight,prop_playing_a1,") {
		t.Fatalf("unexpected header: %s", lines[0])
	}

	recorded, err := normsim.NewRecorder("csv", resultsPath)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	readBack, err := recorded.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(readBack) != 4 {
		t.Fatalf("expected 4 recorded results, got %d", len(readBack))
	}
}
