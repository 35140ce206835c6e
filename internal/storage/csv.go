package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"normsim/internal/model"
)

var csvHeader = []string{
	"weight", "prop_playing_a1", "seed", "rounds", "revisions",
	"share_a1", "share_a2", "share_b1", "share_b2",
	"pay_a1", "pay_a2", "pay_b1", "pay_b2",
}

// CSVRecorder appends one delimited row per run result. Round history is a
// per-round payload and is not flattened into the tabular file; use the
// sqlite backend when it is needed.
type CSVRecorder struct {
	path string

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

func NewCSVRecorder(path string) *CSVRecorder {
	return &CSVRecorder{path: path}
}

func (r *CSVRecorder) Init(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.path == "" {
		return errors.New("csv path is required")
	}
	if r.file != nil {
		return nil
	}

	info, statErr := os.Stat(r.path)
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(file)
	if statErr != nil || info.Size() == 0 {
		if err := writer.Write(csvHeader); err != nil {
			_ = file.Close()
			return fmt.Errorf("write csv header: %w", err)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			_ = file.Close()
			return err
		}
	}

	r.file = file
	r.writer = writer
	return nil
}

func (r *CSVRecorder) Append(_ context.Context, result model.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writer == nil {
		return errors.New("recorder is not initialized")
	}
	record := []string{
		formatFloat(result.Weight),
		formatFloat(result.PropPlayingA1),
		strconv.FormatInt(result.Seed, 10),
		strconv.Itoa(result.Rounds),
		strconv.Itoa(result.Revisions),
		formatFloat(result.FinalShares.A1),
		formatFloat(result.FinalShares.A2),
		formatFloat(result.FinalShares.B1),
		formatFloat(result.FinalShares.B2),
		formatFloat(result.MeanPayoffs.A1),
		formatFloat(result.MeanPayoffs.A2),
		formatFloat(result.MeanPayoffs.B1),
		formatFloat(result.MeanPayoffs.B2),
	}
	if err := r.writer.Write(record); err != nil {
		return err
	}
	r.writer.Flush()
	return r.writer.Error()
}

func (r *CSVRecorder) List(_ context.Context) ([]model.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.path == "" {
		return nil, errors.New("csv path is required")
	}
	file, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	results := make([]model.RunResult, 0, len(rows)-1)
	for i, row := range rows[1:] {
		result, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+2, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *CSVRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	r.writer.Flush()
	err := r.writer.Error()
	if closeErr := r.file.Close(); err == nil {
		err = closeErr
	}
	r.file = nil
	r.writer = nil
	return err
}

func parseCSVRow(row []string) (model.RunResult, error) {
	if len(row) != len(csvHeader) {
		return model.RunResult{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(row))
	}
	floats := make([]float64, len(row))
	for i, field := range row {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return model.RunResult{}, fmt.Errorf("parse %s: %w", csvHeader[i], err)
		}
		floats[i] = value
	}
	seed, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return model.RunResult{}, fmt.Errorf("parse seed: %w", err)
	}
	return model.RunResult{
		Weight:        floats[0],
		PropPlayingA1: floats[1],
		Seed:          seed,
		Rounds:        int(floats[3]),
		Revisions:     int(floats[4]),
		FinalShares: model.StrategyShares{
			A1: floats[5], A2: floats[6], B1: floats[7], B2: floats[8],
		},
		MeanPayoffs: model.VariantPayoffs{
			A1: floats[9], A2: floats[10], B1: floats[11], B2: floats[12],
		},
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
