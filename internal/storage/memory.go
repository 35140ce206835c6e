package storage

import (
	"context"
	"errors"
	"sync"

	"normsim/internal/model"
)

type MemoryRecorder struct {
	mu          sync.RWMutex
	initialized bool
	results     []model.RunResult
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Init(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.initialized = true
	r.results = nil
	return nil
}

func (r *MemoryRecorder) Append(_ context.Context, result model.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return errors.New("recorder is not initialized")
	}
	r.results = append(r.results, result)
	return nil
}

func (r *MemoryRecorder) List(_ context.Context) ([]model.RunResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.initialized {
		return nil, errors.New("recorder is not initialized")
	}
	out := make([]model.RunResult, len(r.results))
	copy(out, r.results)
	return out, nil
}
