// Package storage persists the per-configuration run records a sweep
// produces. Backends: in-memory (tests), CSV (delimited text), SQLite.
package storage

import (
	"context"
	"fmt"

	"normsim/internal/model"
)

// Recorder appends run results to persistent tabular storage. Records are
// kept in append order and never mutated or reordered; a failed append must
// surface to the caller.
type Recorder interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, result model.RunResult) error
	List(ctx context.Context) ([]model.RunResult, error)
}

// NewRecorder builds a recorder backend by name. path is the output file for
// the csv and sqlite backends and ignored for memory.
func NewRecorder(kind, path string) (Recorder, error) {
	switch kind {
	case "", "memory":
		return NewMemoryRecorder(), nil
	case "csv":
		return NewCSVRecorder(path), nil
	case "sqlite":
		return NewSQLiteRecorder(path), nil
	default:
		return nil, fmt.Errorf("unsupported recorder backend: %s", kind)
	}
}

// CloseIfSupported closes recorders that hold open resources.
func CloseIfSupported(rec Recorder) error {
	closer, ok := rec.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
