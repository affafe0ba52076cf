package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// newClockedStore returns a store whose clock advances by step on each Record.
func newClockedStore(maxHistory int, maxAge, step time.Duration) *MemoryStore {
	s := NewMemoryStore(maxHistory, maxAge)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		now = now.Add(step)
		return now
	}
	return s
}

func TestMemoryStore_RecordAndLatest(t *testing.T) {
	s := NewMemoryStore(0, 0)

	s.Record(weather.Reading{LocationName: "Paris", TemperatureC: 18})
	s.Record(weather.Reading{LocationName: "paris", TemperatureC: 19})

	latest, err := s.Latest("PARIS")
	require.NoError(t, err)
	assert.InDelta(t, 19, latest.Reading.TemperatureC, 0)

	history, err := s.History("Paris")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)

	_, err := s.Latest("Nowhereville")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.History("Nowhereville")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_IgnoresUnnamedReadings(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.Record(weather.Reading{LocationName: "  "})
	assert.Empty(t, s.data)
}

func TestMemoryStore_RetentionByCount(t *testing.T) {
	s := newClockedStore(3, 0, time.Minute)

	for i := 0; i < 5; i++ {
		s.Record(weather.Reading{LocationName: "Madrid", TemperatureC: float64(i)})
	}

	history, err := s.History("Madrid")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.InDelta(t, 2, history[0].Reading.TemperatureC, 0)
	assert.InDelta(t, 4, history[2].Reading.TemperatureC, 0)
}

func TestMemoryStore_RetentionByAge(t *testing.T) {
	s := newClockedStore(0, 90*time.Minute, time.Hour)

	for i := 0; i < 4; i++ {
		s.Record(weather.Reading{LocationName: "Madrid", TemperatureC: float64(i)})
	}

	history, err := s.History("Madrid")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.InDelta(t, 2, history[0].Reading.TemperatureC, 0)
}

func TestMemoryStore_AgeRetentionKeepsNewest(t *testing.T) {
	s := newClockedStore(0, time.Minute, 24*time.Hour)

	s.Record(weather.Reading{LocationName: "Oslo", TemperatureC: 1})
	s.Record(weather.Reading{LocationName: "Oslo", TemperatureC: 2})

	history, err := s.History("Oslo")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.InDelta(t, 2, history[0].Reading.TemperatureC, 0)
}

func TestMemoryStore_HistoryReturnsCopy(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.Record(weather.Reading{LocationName: "Lima", TemperatureC: 20})

	history, err := s.History("Lima")
	require.NoError(t, err)
	history[0].Reading.TemperatureC = -100

	latest, err := s.Latest("Lima")
	require.NoError(t, err)
	assert.InDelta(t, 20, latest.Reading.TemperatureC, 0)
}
