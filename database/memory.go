package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"nomadai/metrics"
	"nomadai/models"
)

const (
	DefaultTTL      = 24 * time.Hour
	DefaultMaxItems = 1000
)

// MemoryStore keeps itineraries in process. Entries expire after the TTL; at
// capacity the entry closest to expiry is evicted to make room.
type MemoryStore struct {
	mu       sync.Mutex // serializes capacity checks with inserts
	cache    *cache.Cache
	ttl      time.Duration
	maxItems int
}

func NewMemoryStore(ttl time.Duration, maxItems int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	cleanup := ttl / 4
	if cleanup > time.Hour {
		cleanup = time.Hour
	}
	return &MemoryStore{
		cache:    cache.New(ttl, cleanup),
		ttl:      ttl,
		maxItems: maxItems,
	}
}

func (s *MemoryStore) Save(_ context.Context, it *models.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache.Get(it.RequestID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, it.RequestID)
	}
	if s.cache.ItemCount() >= s.maxItems {
		s.cache.DeleteExpired()
	}
	for s.cache.ItemCount() >= s.maxItems {
		if !s.evictOldest() {
			s.cache.DeleteExpired()
			break
		}
	}
	if err := s.cache.Add(it.RequestID, it, s.ttl); err != nil {
		return fmt.Errorf("%w: %s", ErrDuplicate, it.RequestID)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Itinerary, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v.(*models.Itinerary), nil
}

// Len returns the number of entries, including expired ones not yet cleaned up.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

func (s *MemoryStore) evictOldest() bool {
	var (
		oldestKey string
		oldestExp int64
	)
	for k, item := range s.cache.Items() {
		if oldestKey == "" || item.Expiration < oldestExp {
			oldestKey, oldestExp = k, item.Expiration
		}
	}
	if oldestKey == "" {
		return false
	}
	s.cache.Delete(oldestKey)
	metrics.StoreEvictions.Inc()
	return true
}
