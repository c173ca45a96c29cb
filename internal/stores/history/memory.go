package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps exchanges in a go-cache keyed by session. Sessions idle for
// longer than the retention expire on their own
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewMemoryStore creates a store expiring idle sessions after retention
func NewMemoryStore(retention time.Duration) *MemoryStore {
	if retention <= 0 {
		retention = DefaultRetention
	}

	// Purge expired sessions every 10 minutes
	return &MemoryStore{cache: cache.New(retention, 10*time.Minute)}
}

// exchanges returns the stored slice of a session; the caller holds mu
func (s *MemoryStore) exchanges(sessionID string) []Exchange {
	if x, found := s.cache.Get(sessionID); found {
		return x.([]Exchange)
	}
	return nil
}

// Save records an exchange and refreshes the session's expiration
func (s *MemoryStore) Save(ctx context.Context, e *Exchange) error {
	if err := validate(e); err != nil {
		return err
	}

	stored := *e
	stored.Sources = slices.Clone(e.Sources)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(slices.Clone(s.exchanges(e.SessionID)), stored)
	s.cache.Set(e.SessionID, list, cache.DefaultExpiration)
	return nil
}

// List returns the oldest exchanges of a session
func (s *MemoryStore) List(ctx context.Context, sessionID string, limit int) ([]Exchange, error) {
	s.mu.Lock()
	out := slices.Clone(s.exchanges(sessionID))
	s.mu.Unlock()

	if out == nil {
		return []Exchange{}, nil
	}

	slices.SortStableFunc(out, func(a, b Exchange) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	if limit = clampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Prune removes exchanges older than before, dropping sessions left empty
func (s *MemoryStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for sessionID, item := range s.cache.Items() {
		list := item.Object.([]Exchange)

		kept := make([]Exchange, 0, len(list))
		for _, e := range list {
			if e.Timestamp.Before(before) {
				removed++
				continue
			}
			kept = append(kept, e)
		}

		if len(kept) == len(list) {
			continue
		}

		// Keep the session's current expiration
		ttl := time.Until(time.Unix(0, item.Expiration))
		if len(kept) == 0 || ttl <= 0 {
			s.cache.Delete(sessionID)
			continue
		}
		s.cache.Set(sessionID, kept, ttl)
	}

	return removed, nil
}
