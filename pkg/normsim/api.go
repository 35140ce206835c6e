// Package normsim is the public surface of the signaling-game simulator:
// run one configuration, or sweep a (weight, propPlayingA1) grid into a
// recorder.
package normsim

import (
	"context"

	"normsim/internal/evo"
	"normsim/internal/model"
	"normsim/internal/storage"
	"normsim/internal/sweep"
)

// Re-exported configuration and result types.
type (
	RunConfig        = model.RunConfig
	RunResult        = model.RunResult
	RoundStats       = model.RoundStats
	StrategyShares   = model.StrategyShares
	VariantPayoffs   = model.VariantPayoffs
	AssignmentPolicy = model.AssignmentPolicy
	ConfigError      = model.ConfigError
	SweepConfig      = sweep.Config
	SweepGrid        = sweep.Grid
	Recorder         = storage.Recorder
)

const (
	AssignRandom      = model.AssignRandom
	AssignAlternating = model.AssignAlternating
)

// RunOnce executes one self-contained simulation run. Every call constructs
// its own population and random state; no state leaks between invocations,
// so independent runs may execute concurrently.
func RunOnce(ctx context.Context, cfg RunConfig) (RunResult, error) {
	engine, err := evo.NewEngine(cfg)
	if err != nil {
		return RunResult{}, err
	}
	return engine.Run(ctx)
}

// RunSweep executes every grid point of cfg and appends each result to rec
// in enumeration order.
func RunSweep(ctx context.Context, cfg SweepConfig, rec Recorder) ([]RunResult, error) {
	driver, err := sweep.NewDriver(cfg, rec)
	if err != nil {
		return nil, err
	}
	return driver.Run(ctx)
}

// DefaultSweepGrid is the reference experiment grid: integer weights 1..100
// and 20 evenly spaced initial proportions in [0, 0.45].
func DefaultSweepGrid() SweepGrid {
	return sweep.DefaultGrid()
}

// NewRecorder builds a recorder backend ("memory", "csv", "sqlite").
func NewRecorder(kind, path string) (Recorder, error) {
	return storage.NewRecorder(kind, path)
}

// CloseRecorder closes recorders that hold open resources.
func CloseRecorder(rec Recorder) error {
	return storage.CloseIfSupported(rec)
}
