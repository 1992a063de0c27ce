package snapshots

import (
	"sync"

	"github.com/rs/zerolog"
)

// Store keeps the latest snapshot per account in memory. Writes replace the
// account's entry wholesale (last write wins, no merging, no timestamp
// ordering) and are atomic from a reader's perspective. There is no deletion
// and no capacity bound: the key set only grows, one entry per account ever
// seen, which is fine for the intended low-account-count deployments.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]AccountSnapshot
	log       zerolog.Logger
}

// NewStore creates an empty snapshot store
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		snapshots: make(map[string]AccountSnapshot),
		log:       log.With().Str("component", "snapshot_store").Logger(),
	}
}

// Put unconditionally overwrites the snapshot for snap.AccountID
func (s *Store) Put(snap AccountSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[snap.AccountID] = snap
}

// Get returns the snapshot for an account, if one has been ingested
func (s *Store) Get(accountID string) (AccountSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[accountID]
	return snap, ok
}

// GetAll returns the current full set of snapshots, keyed by account id.
// The returned map is a copy and safe to iterate without holding the lock;
// the snapshot values themselves are immutable by contract.
func (s *Store) GetAll() map[string]AccountSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]AccountSnapshot, len(s.snapshots))
	for id, snap := range s.snapshots {
		out[id] = snap
	}
	return out
}

// Count returns the number of distinct accounts tracked
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.snapshots)
}
