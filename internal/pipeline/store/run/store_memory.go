// Package run stores per-run pipeline status so the ingress layer can answer
// progress queries. The memory store suits a single instance; RedisStore
// shares state across instances.
package run

import (
	"context"
	"sync"

	"skyvault/internal/pipeline"
	"skyvault/pkg/platform/sentinel"
)

// MemoryStore is an in-memory RunStore guarded by a RWMutex. States are kept
// until process exit; run volume is low enough that eviction is not worth the
// machinery here.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]pipeline.RunState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]pipeline.RunState)}
}

func (s *MemoryStore) Save(ctx context.Context, state pipeline.RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.RunID] = state
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, runID string) (pipeline.RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[runID]
	if !ok {
		return pipeline.RunState{}, sentinel.ErrNotFound
	}
	return state, nil
}
