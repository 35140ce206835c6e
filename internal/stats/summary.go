// Package stats aggregates recorded run results into sweep-level summaries
// for reporting.
package stats

import "normsim/internal/model"

// convergenceEps is the share threshold past which a role is considered
// settled on a single convention.
const convergenceEps = 0.01

// SweepSummary condenses a sweep's results: how the A1 share distributes
// over the grid and how often each role converged to a norm.
type SweepSummary struct {
	Runs        int     `json:"runs"`
	MeanShareA1 float64 `json:"mean_share_a1"`
	MinShareA1  float64 `json:"min_share_a1"`
	MaxShareA1  float64 `json:"max_share_a1"`
	MeanPayoff  float64 `json:"mean_payoff"`
	ConvergedA  int     `json:"converged_a"`
	ConvergedB  int     `json:"converged_b"`
}

// Summarize folds a result sequence into a SweepSummary. Order does not
// matter; an empty input yields the zero summary.
func Summarize(results []model.RunResult) SweepSummary {
	if len(results) == 0 {
		return SweepSummary{}
	}

	summary := SweepSummary{
		Runs:       len(results),
		MinShareA1: results[0].FinalShares.A1,
		MaxShareA1: results[0].FinalShares.A1,
	}
	shareTotal := 0.0
	payoffTotal := 0.0
	for _, result := range results {
		share := result.FinalShares.A1
		shareTotal += share
		if share < summary.MinShareA1 {
			summary.MinShareA1 = share
		}
		if share > summary.MaxShareA1 {
			summary.MaxShareA1 = share
		}
		payoffTotal += meanOverVariants(result)
		if converged(result.FinalShares.A1) {
			summary.ConvergedA++
		}
		if converged(result.FinalShares.B1) {
			summary.ConvergedB++
		}
	}
	summary.MeanShareA1 = shareTotal / float64(len(results))
	summary.MeanPayoff = payoffTotal / float64(len(results))
	return summary
}

// meanOverVariants weights each role's variant payoffs by its holder share,
// giving the population mean per-round payoff for the run.
func meanOverVariants(result model.RunResult) float64 {
	shares := result.FinalShares
	payoffs := result.MeanPayoffs
	a := shares.A1*payoffs.A1 + shares.A2*payoffs.A2
	b := shares.B1*payoffs.B1 + shares.B2*payoffs.B2
	return (a + b) / 2
}

func converged(share float64) bool {
	return share <= convergenceEps || share >= 1-convergenceEps
}
