package storage

import (
	"sync"
	"time"

	"github.com/shelfworks/camshelf/internal/run"
)

// StoredRun is a finished run kept for later export and inspection.
type StoredRun struct {
	Snapshot   run.Snapshot
	FinishedAt time.Time
	Err        string
}

// RunStore archives finished run snapshots.
type RunStore struct {
	runs map[string]*StoredRun
	mu   sync.RWMutex
}

func New() *RunStore {
	return &RunStore{
		runs: make(map[string]*StoredRun),
	}
}

func (s *RunStore) Get(runID string) (*StoredRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, exists := s.runs[runID]
	return stored, exists
}

func (s *RunStore) Set(runID string, stored *StoredRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = stored
}

func (s *RunStore) GetAll() map[string]*StoredRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*StoredRun, len(s.runs))
	for k, v := range s.runs {
		result[k] = v
	}
	return result
}

func (s *RunStore) Delete(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}
