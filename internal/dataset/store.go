package dataset

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownDataset is returned for upload ids that were never issued or have expired.
var ErrUnknownDataset = errors.New("unknown or expired dataset")

type storeEntry[T any] struct {
	value    T
	name     string
	storedAt time.Time
}

// UploadInfo describes a stored upload without exposing its value.
type UploadInfo struct {
	ID       string
	Name     string
	StoredAt time.Time
}

// Store keeps parsed uploads in memory, bounded in size and age.
type Store[T any] struct {
	mu         sync.Mutex
	entries    map[string]storeEntry[T]
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewStore creates a store holding at most maxEntries values for ttl each.
// A non-positive ttl keeps entries until they are evicted by size.
func NewStore[T any](maxEntries int, ttl time.Duration) *Store[T] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Store[T]{
		entries:    make(map[string]storeEntry[T]),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Put stores value under a new random id and returns the id.
func (s *Store[T]) Put(name string, value T) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	for len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}

	id := uuid.NewString()
	s.entries[id] = storeEntry[T]{value: value, name: name, storedAt: s.now()}
	return id
}

// Get returns the value stored under id.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	entry, ok := s.entries[id]
	if !ok {
		var zero T
		return zero, ErrUnknownDataset
	}
	return entry.value, nil
}

// List returns the live uploads, oldest first.
func (s *Store[T]) List() []UploadInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	infos := make([]UploadInfo, 0, len(s.entries))
	for id, entry := range s.entries {
		infos = append(infos, UploadInfo{ID: id, Name: entry.name, StoredAt: entry.storedAt})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StoredAt.Before(infos[j].StoredAt)
	})
	return infos
}

// Len returns the number of live uploads.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	return len(s.entries)
}

func (s *Store[T]) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, entry := range s.entries {
		if entry.storedAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

func (s *Store[T]) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.entries {
		if oldestID == "" || entry.storedAt.Before(oldest) {
			oldestID, oldest = id, entry.storedAt
		}
	}
	delete(s.entries, oldestID)
}
