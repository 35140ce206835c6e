// Package population creates and summarizes the agent collection a run
// evolves. Size is fixed for a run; composition changes only at revision.
package population

import (
	"fmt"
	"math"
	"math/rand"

	"normsim/internal/game"
	"normsim/internal/model"
)

// defaultPropB1 is the initial B-role split: half the population starts on B1
// regardless of the A-role proportions.
const defaultPropB1 = 0.5

// Agent is the unit of evolution: a strategy per role plus the payoff
// accumulated since the last revision boundary.
type Agent struct {
	ID        int
	StrategyA game.ActionA
	StrategyB game.ActionB
	Payoff    float64
}

// New builds a population of size agents. round(propA1*size) agents start on
// A1 and the rest on A2; the B-role follows the fixed default split. Both
// role assignments are shuffled with rng, so the same seed always yields the
// same population.
func New(size int, propA1 float64, rng *rand.Rand) ([]Agent, error) {
	if size <= 0 {
		return nil, fmt.Errorf("population size must be > 0, got %d", size)
	}
	if propA1 < 0 || propA1 > 1 {
		return nil, fmt.Errorf("initial A1 proportion must be in [0, 1], got %g", propA1)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}

	strategiesA := splitA(size, propA1)
	strategiesB := splitB(size)
	rng.Shuffle(size, func(i, j int) {
		strategiesA[i], strategiesA[j] = strategiesA[j], strategiesA[i]
	})
	rng.Shuffle(size, func(i, j int) {
		strategiesB[i], strategiesB[j] = strategiesB[j], strategiesB[i]
	})

	agents := make([]Agent, size)
	for i := range agents {
		agents[i] = Agent{ID: i, StrategyA: strategiesA[i], StrategyB: strategiesB[i]}
	}
	return agents, nil
}

func splitA(size int, propA1 float64) []game.ActionA {
	countA1 := int(math.Round(propA1 * float64(size)))
	out := make([]game.ActionA, size)
	for i := range out {
		if i < countA1 {
			out[i] = game.A1
		} else {
			out[i] = game.A2
		}
	}
	return out
}

func splitB(size int) []game.ActionB {
	countB1 := int(math.Round(defaultPropB1 * float64(size)))
	out := make([]game.ActionB, size)
	for i := range out {
		if i < countB1 {
			out[i] = game.B1
		} else {
			out[i] = game.B2
		}
	}
	return out
}

// Shares returns the fraction of agents holding each strategy variant.
func Shares(agents []Agent) model.StrategyShares {
	if len(agents) == 0 {
		return model.StrategyShares{}
	}
	var shares model.StrategyShares
	for _, a := range agents {
		if a.StrategyA == game.A1 {
			shares.A1++
		} else {
			shares.A2++
		}
		if a.StrategyB == game.B1 {
			shares.B1++
		} else {
			shares.B2++
		}
	}
	n := float64(len(agents))
	shares.A1 /= n
	shares.A2 /= n
	shares.B1 /= n
	shares.B2 /= n
	return shares
}

// MeanPayoff returns the mean accumulated payoff per agent.
func MeanPayoff(agents []Agent) float64 {
	if len(agents) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range agents {
		total += a.Payoff
	}
	return total / float64(len(agents))
}

// ResetPayoffs zeroes all accumulated payoffs for the next revision interval.
func ResetPayoffs(agents []Agent) {
	for i := range agents {
		agents[i].Payoff = 0
	}
}
