package session

import (
	"sync"
	"testing"
	"time"

	"newsdesk/domain/prediction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryBeginIsExclusive(t *testing.T) {
	s := NewAppState()

	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryBegin() {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.True(t, s.IsAnalyzing())

	s.End()
	assert.False(t, s.IsAnalyzing())
	assert.True(t, s.TryBegin())
}

func TestHistoryCache(t *testing.T) {
	s := NewAppState()
	_, ok := s.History()
	assert.False(t, ok)

	s.SetHistory([]prediction.Record{})
	records, ok := s.History()
	assert.True(t, ok)
	assert.Empty(t, records)
}

func TestStoreGetCreatesOnce(t *testing.T) {
	store := NewStore()
	id := NewID()

	a := store.Get(id)
	b := store.Get(id)
	assert.Same(t, a, b)
	assert.NotSame(t, a, store.Get(NewID()))
	assert.Equal(t, 2, store.Len())
}

func TestStoreCleanupExpired(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Get("idle")
	busy := store.Get("busy")
	require.True(t, busy.TryBegin())

	now = now.Add(2 * time.Hour)
	store.Get("fresh")

	assert.Equal(t, 1, store.CleanupExpired(time.Hour))
	assert.Equal(t, 2, store.Len())

	busy.End()
	assert.Equal(t, 1, store.CleanupExpired(time.Hour))
	assert.Equal(t, 1, store.Len())
}
