// Package sweep enumerates experiment configurations over a (weight,
// propPlayingA1) grid, runs each point as an isolated simulation, and
// forwards the results to a recorder in enumeration order.
package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"normsim/internal/evo"
	"normsim/internal/logging"
	"normsim/internal/model"
	"normsim/internal/storage"
)

// Grid describes the sweep ranges. Weights step over [WeightFrom, WeightTo]
// in WeightStep increments; propPlayingA1 takes PropCount evenly spaced
// values in [PropFrom, PropTo].
type Grid struct {
	WeightFrom float64 `json:"weight_from" yaml:"weight_from"`
	WeightTo   float64 `json:"weight_to" yaml:"weight_to"`
	WeightStep float64 `json:"weight_step" yaml:"weight_step"`
	PropFrom   float64 `json:"prop_from" yaml:"prop_from"`
	PropTo     float64 `json:"prop_to" yaml:"prop_to"`
	PropCount  int     `json:"prop_count" yaml:"prop_count"`
}

// DefaultGrid mirrors the reference experiment: integer weights 1..100 and
// 20 evenly spaced initial proportions in [0, 0.45].
func DefaultGrid() Grid {
	return Grid{
		WeightFrom: 1,
		WeightTo:   100,
		WeightStep: 1,
		PropFrom:   0,
		PropTo:     0.45,
		PropCount:  20,
	}
}

func (g Grid) validate() error {
	switch {
	case g.WeightStep <= 0:
		return fmt.Errorf("weight_step must be > 0, got %g", g.WeightStep)
	case g.WeightTo < g.WeightFrom:
		return fmt.Errorf("weight_to %g is below weight_from %g", g.WeightTo, g.WeightFrom)
	case g.PropCount <= 0:
		return fmt.Errorf("prop_count must be > 0, got %d", g.PropCount)
	case g.PropTo < g.PropFrom:
		return fmt.Errorf("prop_to %g is below prop_from %g", g.PropTo, g.PropFrom)
	}
	return nil
}

func (g Grid) weights() []float64 {
	var out []float64
	for w := g.WeightFrom; w <= g.WeightTo+1e-9; w += g.WeightStep {
		out = append(out, w)
	}
	return out
}

func (g Grid) props() []float64 {
	out := make([]float64, g.PropCount)
	if g.PropCount == 1 {
		out[0] = g.PropFrom
		return out
	}
	step := (g.PropTo - g.PropFrom) / float64(g.PropCount-1)
	for i := range out {
		out[i] = g.PropFrom + float64(i)*step
	}
	return out
}

// Config describes one sweep. Base supplies everything but weight and
// propPlayingA1, which the grid overrides per point; per-point seeds are
// derived as Base.Seed plus the point index so runs stay reproducible and
// independent.
type Config struct {
	Base    model.RunConfig `json:"base" yaml:"base"`
	Grid    Grid            `json:"grid" yaml:"grid"`
	Workers int             `json:"workers" yaml:"workers"`
}

// Driver executes sweeps against a recorder.
type Driver struct {
	cfg Config
	rec storage.Recorder
	log *slog.Logger
}

func NewDriver(cfg Config, rec storage.Recorder) (*Driver, error) {
	if rec == nil {
		return nil, fmt.Errorf("recorder is required")
	}
	if err := cfg.Grid.validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep grid: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Driver{cfg: cfg, rec: rec, log: logging.New("sweep")}, nil
}

// Run executes every grid point and appends each result to the recorder in
// enumeration order (weight-major, as the reference experiment iterates). Any
// configuration error or failed append aborts the whole sweep; a run whose
// result was not recorded is never reported as successful.
func (d *Driver) Run(ctx context.Context) ([]model.RunResult, error) {
	points := d.enumerate()
	results := make([]model.RunResult, len(points))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.cfg.Workers)
	for i, cfg := range points {
		i, cfg := i, cfg
		group.Go(func() error {
			engine, err := evo.NewEngine(cfg)
			if err != nil {
				return err
			}
			result, err := engine.Run(groupCtx)
			if err != nil {
				return fmt.Errorf("run (weight=%g prop_playing_a1=%g seed=%d): %w",
					cfg.Weight, cfg.PropPlayingA1, cfg.Seed, err)
			}
			results[i] = result
			d.log.Info("run complete",
				"weight", cfg.Weight,
				"prop_playing_a1", cfg.PropPlayingA1,
				"seed", cfg.Seed,
				"final_share_a1", result.FinalShares.A1)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	for _, result := range results {
		if err := d.rec.Append(ctx, result); err != nil {
			return nil, fmt.Errorf("record result (weight=%g prop_playing_a1=%g): %w",
				result.Weight, result.PropPlayingA1, err)
		}
	}
	return results, nil
}

// enumerate expands the grid into per-point run configs, weight-major.
func (d *Driver) enumerate() []model.RunConfig {
	weights := d.cfg.Grid.weights()
	props := d.cfg.Grid.props()
	points := make([]model.RunConfig, 0, len(weights)*len(props))
	for _, weight := range weights {
		for _, prop := range props {
			cfg := d.cfg.Base
			cfg.Weight = weight
			cfg.PropPlayingA1 = prop
			cfg.Seed = d.cfg.Base.Seed + int64(len(points))
			points = append(points, cfg)
		}
	}
	return points
}
