package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"normsim/pkg/normsim"
)

var runFlags struct {
	population  int
	rounds      int
	weight      float64
	propA1      float64
	interval    int
	assignment  string
	seed        int64
	trackRounds bool
	jsonOut     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single simulation run",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runFlags.population, "pop", 100, "Population size (must be even)")
	f.IntVar(&runFlags.rounds, "rounds", 1000, "Number of rounds")
	f.Float64Var(&runFlags.weight, "weight", 1, "Subgame B payoff multiplier")
	f.Float64Var(&runFlags.propA1, "prop-a1", 0.5, "Initial proportion of agents playing A1")
	f.IntVar(&runFlags.interval, "interval", 1, "Rounds per revision interval")
	f.StringVar(&runFlags.assignment, "assignment", "random", "Subgame assignment policy (random, alternating)")
	f.Int64Var(&runFlags.seed, "seed", 42, "Random seed")
	f.BoolVar(&runFlags.trackRounds, "track-rounds", false, "Keep per-round aggregate statistics")
	f.BoolVar(&runFlags.jsonOut, "json", false, "Emit the result as JSON")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg := normsim.RunConfig{
		PopulationSize:   runFlags.population,
		NumRounds:        runFlags.rounds,
		Weight:           runFlags.weight,
		PropPlayingA1:    runFlags.propA1,
		RevisionInterval: runFlags.interval,
		Assignment:       normsim.AssignmentPolicy(runFlags.assignment),
		Seed:             runFlags.seed,
		TrackRounds:      runFlags.trackRounds,
	}
	result, err := normsim.RunOnce(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if runFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(result)
	return nil
}

func printResult(result normsim.RunResult) {
	fmt.Printf("run weight=%g prop_playing_a1=%g seed=%d rounds=%d revisions=%d\n",
		result.Weight, result.PropPlayingA1, result.Seed, result.Rounds, result.Revisions)
	fmt.Printf("final_shares a1=%.4f a2=%.4f b1=%.4f b2=%.4f\n",
		result.FinalShares.A1, result.FinalShares.A2, result.FinalShares.B1, result.FinalShares.B2)
	fmt.Printf("mean_payoffs a1=%.4f a2=%.4f b1=%.4f b2=%.4f\n",
		result.MeanPayoffs.A1, result.MeanPayoffs.A2, result.MeanPayoffs.B1, result.MeanPayoffs.B2)
}
