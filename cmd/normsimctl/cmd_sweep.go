package main

import (
	"fmt"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"normsim/internal/stats"
	"normsim/pkg/normsim"
)

var sweepFlags struct {
	configPath string
	out        string
	path       string
	workers    int
	profileDir string
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a (weight, prop-a1) sweep and record one result per configuration",
	Long: "Sweep enumerates the configured weight range and initial-proportion\n" +
		"range, runs one simulation per combination, and appends each result to\n" +
		"the recorder in enumeration order.",
	RunE: runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.StringVar(&sweepFlags.configPath, "config", "", "Sweep config file (YAML or JSON); defaults apply when omitted")
	f.StringVar(&sweepFlags.out, "out", "csv", "Recorder backend (memory, csv, sqlite)")
	f.StringVar(&sweepFlags.path, "path", "results.csv", "Output file for csv/sqlite backends")
	f.IntVar(&sweepFlags.workers, "workers", 1, "Parallel runs (each run has its own seed and population)")
	f.StringVar(&sweepFlags.profileDir, "profile-dir", "", "Write a CPU profile to this directory")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSweepConfig(sweepFlags.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") || cfg.Workers == 0 {
		cfg.Workers = sweepFlags.workers
	}

	if sweepFlags.profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(sweepFlags.profileDir)).Stop()
	}

	rec, err := normsim.NewRecorder(sweepFlags.out, sweepFlags.path)
	if err != nil {
		return err
	}
	if err := rec.Init(cmd.Context()); err != nil {
		return fmt.Errorf("init recorder: %w", err)
	}
	defer func() {
		_ = normsim.CloseRecorder(rec)
	}()

	results, err := normsim.RunSweep(cmd.Context(), cfg, rec)
	if err != nil {
		return err
	}

	summary := stats.Summarize(results)
	fmt.Printf("sweep complete runs=%d mean_share_a1=%.4f min=%.4f max=%.4f mean_payoff=%.4f converged_a=%d converged_b=%d\n",
		summary.Runs, summary.MeanShareA1, summary.MinShareA1, summary.MaxShareA1,
		summary.MeanPayoff, summary.ConvergedA, summary.ConvergedB)
	return nil
}
