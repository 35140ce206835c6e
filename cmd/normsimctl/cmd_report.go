package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"normsim/internal/stats"
	"normsim/pkg/normsim"
)

var reportFlags struct {
	in      string
	path    string
	jsonOut bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize previously recorded sweep results",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.in, "in", "csv", "Recorder backend to read (csv, sqlite)")
	f.StringVar(&reportFlags.path, "path", "results.csv", "Recorded results file")
	f.BoolVar(&reportFlags.jsonOut, "json", false, "Emit the summary as JSON")
}

func runReport(cmd *cobra.Command, _ []string) error {
	rec, err := normsim.NewRecorder(reportFlags.in, reportFlags.path)
	if err != nil {
		return err
	}
	if reportFlags.in == "sqlite" {
		if err := rec.Init(cmd.Context()); err != nil {
			return fmt.Errorf("open recorded results: %w", err)
		}
		defer func() {
			_ = normsim.CloseRecorder(rec)
		}()
	}

	results, err := rec.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("read recorded results: %w", err)
	}
	summary := stats.Summarize(results)

	if reportFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Printf("report runs=%d mean_share_a1=%.4f min=%.4f max=%.4f mean_payoff=%.4f converged_a=%d converged_b=%d\n",
		summary.Runs, summary.MeanShareA1, summary.MinShareA1, summary.MaxShareA1,
		summary.MeanPayoff, summary.ConvergedA, summary.ConvergedB)
	return nil
}
