package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no reading is recorded for a location.
	ErrNotFound = errors.New("no weather readings for location")
)

// Entry is a reading together with the time it was accepted.
type Entry struct {
	Reading    weather.Reading `json:"reading"`
	RecordedAt time.Time       `json:"recordedAt"`
}

// MemoryStore is a concurrency-safe, in-session history of accepted readings.
// Locations are keyed case-insensitively. Nothing is persisted.
type MemoryStore struct {
	mu sync.RWMutex

	// key: normalized location name
	data map[string][]Entry

	// retention configuration
	maxHistory int           // max number of entries per location
	maxAge     time.Duration // optional max age for entries

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory or maxAge is <= 0, that limit is disabled.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string][]Entry),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Record appends r to its location's history and enforces retention.
func (s *MemoryStore) Record(r weather.Reading) {
	k := key(r.LocationName)
	if k == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entries := append(s.data[k], Entry{Reading: r, RecordedAt: now})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(entries) > s.maxHistory {
		entries = entries[len(entries)-s.maxHistory:]
	}

	// Enforce retention by age. The newest entry is always kept.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		i := 0
		for ; i < len(entries)-1; i++ {
			if !entries[i].RecordedAt.Before(cutoff) {
				break
			}
		}
		entries = entries[i:]
	}

	s.data[k] = entries
}

// Latest returns the most recent entry for a location.
func (s *MemoryStore) Latest(name string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[key(name)]
	if len(entries) == 0 {
		return Entry{}, ErrNotFound
	}
	return entries[len(entries)-1], nil
}

// History returns a copy of all entries for a location, oldest first.
func (s *MemoryStore) History(name string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.data[key(name)]
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

var _ weather.History = (*MemoryStore)(nil)
