// Package syncstate keeps per-source sync state in process memory.
// Nothing is persisted: a restart resets every source to never-synced.
// Size grows with the number of distinct data sources queried during the
// process lifetime; there is no eviction.
package syncstate

import (
	"sync"
	"time"

	"sync_relay/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	states map[string]*domain.SyncState
}

func NewStore() *Store {
	return &Store{
		states: make(map[string]*domain.SyncState),
	}
}

// Get returns a copy of the state for the given source, or false when the
// source has never been synced.
func (s *Store) Get(dataSourceID string) (domain.SyncState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[dataSourceID]
	if !ok {
		return domain.SyncState{}, false
	}
	return *state, true
}

// Set unconditionally overwrites the state for the given source. The
// snapshot replaces the previous one wholesale; last writer wins.
func (s *Store) Set(dataSourceID string, syncedAt time.Time, snapshot []domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.states[dataSourceID]
	state := &domain.SyncState{
		DataSourceID: dataSourceID,
		LastSyncedAt: syncedAt,
		LastSnapshot: snapshot,
		TotalSyncs:   1,
	}
	if prev != nil {
		state.TotalSyncs = prev.TotalSyncs + 1
	}
	s.states[dataSourceID] = state
}

// List returns a copy of every known source state.
func (s *Store) List() []domain.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]domain.SyncState, 0, len(s.states))
	for _, state := range s.states {
		states = append(states, *state)
	}
	return states
}

// Len returns the number of sources with sync state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
