package evo

import "normsim/internal/population"

// revise applies proportional imitation at a revision-interval boundary. Each
// agent observes one random other agent per role; if the role model's average
// payoff over the interval is higher, the agent adopts the model's strategy
// for that role with probability proportional to the payoff difference,
// normalized by the maximum single-round payoff. Adoption reads a snapshot of
// the pre-revision population, so all switches within a boundary are
// simultaneous.
func (e *Engine) revise(agents []population.Agent, intervalRounds int) {
	if intervalRounds <= 0 || len(agents) < 2 {
		return
	}

	averages := make([]float64, len(agents))
	snapshot := make([]population.Agent, len(agents))
	for i, a := range agents {
		averages[i] = a.Payoff / float64(intervalRounds)
		snapshot[i] = a
	}

	for i := range agents {
		roleModel := e.pickOther(i, len(agents))
		if e.imitates(averages[roleModel], averages[i]) {
			agents[i].StrategyA = snapshot[roleModel].StrategyA
		}
	}
	for i := range agents {
		roleModel := e.pickOther(i, len(agents))
		if e.imitates(averages[roleModel], averages[i]) {
			agents[i].StrategyB = snapshot[roleModel].StrategyB
		}
	}
}

// pickOther draws a uniform agent index distinct from self.
func (e *Engine) pickOther(self, n int) int {
	other := e.rng.Intn(n - 1)
	if other >= self {
		other++
	}
	return other
}

func (e *Engine) imitates(modelAvg, ownAvg float64) bool {
	if modelAvg <= ownAvg {
		return false
	}
	prob := (modelAvg - ownAvg) / e.normalizer
	if prob > 1 {
		prob = 1
	}
	return e.rng.Float64() < prob
}
