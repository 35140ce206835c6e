// Package evo runs one simulation: round-robin matching, subgame resolution,
// payoff accumulation, and payoff-driven strategy revision.
package evo

import (
	"context"
	"fmt"
	"math/rand"

	"normsim/internal/game"
	"normsim/internal/model"
	"normsim/internal/population"
)

// Engine executes a single run. It owns its random source and population, so
// concurrent engines never share mutable state.
type Engine struct {
	cfg        model.RunConfig
	matrixA    game.PayoffMatrix
	matrixB    game.PayoffMatrix
	rng        *rand.Rand
	normalizer float64
}

// NewEngine validates the config, derives the subgame matrices, and seeds the
// run's random source. All configuration errors surface here, before any
// round executes.
func NewEngine(cfg model.RunConfig) (*Engine, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matrixA := game.NewSubgameA()
	matrixB, err := matrixA.Scale(cfg.Weight)
	if err != nil {
		return nil, &model.ConfigError{
			Field:         "weight",
			Reason:        err.Error(),
			Weight:        cfg.Weight,
			PropPlayingA1: cfg.PropPlayingA1,
		}
	}

	normalizer := matrixA.MaxEntry()
	if b := matrixB.MaxEntry(); b > normalizer {
		normalizer = b
	}
	if normalizer <= 0 {
		normalizer = 1
	}

	return &Engine{
		cfg:        cfg,
		matrixA:    matrixA,
		matrixB:    matrixB,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		normalizer: normalizer,
	}, nil
}

// Run plays all configured rounds and returns the run's result record. The
// context is checked between rounds, so a cancelled run aborts at a round
// boundary without corrupting anything beyond its own population.
func (e *Engine) Run(ctx context.Context) (model.RunResult, error) {
	agents, err := population.New(e.cfg.PopulationSize, e.cfg.PropPlayingA1, e.rng)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("initialize population: %w", err)
	}

	order := make([]int, len(agents))
	for i := range order {
		order[i] = i
	}

	var history []model.RoundStats
	if e.cfg.TrackRounds {
		history = make([]model.RoundStats, 0, e.cfg.NumRounds)
	}

	revisions := 0
	roundsInInterval := 0
	var lastMeans model.VariantPayoffs
	haveMeans := false

	for round := 1; round <= e.cfg.NumRounds; round++ {
		if err := ctx.Err(); err != nil {
			return model.RunResult{}, err
		}

		e.shuffle(order)
		aPairings, bPairings, err := e.playRound(agents, order)
		if err != nil {
			return model.RunResult{}, fmt.Errorf("round %d (weight=%g prop_playing_a1=%g): %w",
				round, e.cfg.Weight, e.cfg.PropPlayingA1, err)
		}
		roundsInInterval++

		if e.cfg.TrackRounds {
			shares := population.Shares(agents)
			history = append(history, model.RoundStats{
				Round:         round,
				APairings:     aPairings,
				BPairings:     bPairings,
				PropPlayingA1: shares.A1,
				PropPlayingB1: shares.B1,
				MeanPayoff:    population.MeanPayoff(agents),
			})
		}

		if round%e.cfg.RevisionInterval == 0 {
			lastMeans = variantMeanPayoffs(agents, roundsInInterval)
			haveMeans = true
			e.revise(agents, roundsInInterval)
			population.ResetPayoffs(agents)
			revisions++
			roundsInInterval = 0
		}
	}

	if roundsInInterval > 0 || !haveMeans {
		lastMeans = variantMeanPayoffs(agents, roundsInInterval)
	}

	return model.RunResult{
		Weight:        e.cfg.Weight,
		PropPlayingA1: e.cfg.PropPlayingA1,
		Seed:          e.cfg.Seed,
		Rounds:        e.cfg.NumRounds,
		Revisions:     revisions,
		FinalShares:   population.Shares(agents),
		MeanPayoffs:   lastMeans,
		RoundHistory:  history,
	}, nil
}

func (e *Engine) shuffle(order []int) {
	e.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
}

// playRound partitions the shuffled order into consecutive pairs, assigns
// each pair a subgame, and accumulates the resolved payoffs. It returns the
// number of pairings assigned to each subgame.
func (e *Engine) playRound(agents []population.Agent, order []int) (aPairings, bPairings int, err error) {
	for pair := 0; pair*2 < len(order); pair++ {
		x := &agents[order[pair*2]]
		y := &agents[order[pair*2+1]]

		var px, py float64
		switch e.assignSubgame(pair) {
		case game.SubgameA:
			px, py, err = e.matrixA.Payoffs(uint8(x.StrategyA), uint8(y.StrategyA))
			aPairings++
		case game.SubgameB:
			px, py, err = e.matrixB.Payoffs(uint8(x.StrategyB), uint8(y.StrategyB))
			bPairings++
		}
		if err != nil {
			return 0, 0, err
		}
		x.Payoff += px
		y.Payoff += py
	}
	return aPairings, bPairings, nil
}

func (e *Engine) assignSubgame(pair int) game.Subgame {
	switch e.cfg.Assignment {
	case model.AssignAlternating:
		if pair%2 == 0 {
			return game.SubgameA
		}
		return game.SubgameB
	default:
		if e.rng.Intn(2) == 0 {
			return game.SubgameA
		}
		return game.SubgameB
	}
}

func variantMeanPayoffs(agents []population.Agent, rounds int) model.VariantPayoffs {
	if rounds <= 0 {
		return model.VariantPayoffs{}
	}
	var sums model.VariantPayoffs
	var counts model.VariantPayoffs
	for _, a := range agents {
		perRound := a.Payoff / float64(rounds)
		if a.StrategyA == game.A1 {
			sums.A1 += perRound
			counts.A1++
		} else {
			sums.A2 += perRound
			counts.A2++
		}
		if a.StrategyB == game.B1 {
			sums.B1 += perRound
			counts.B1++
		} else {
			sums.B2 += perRound
			counts.B2++
		}
	}
	return model.VariantPayoffs{
		A1: safeDiv(sums.A1, counts.A1),
		A2: safeDiv(sums.A2, counts.A2),
		B1: safeDiv(sums.B1, counts.B1),
		B2: safeDiv(sums.B2, counts.B2),
	}
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
