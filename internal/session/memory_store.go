package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps sessions in-process. Suitable for a single-instance
// deployment; use the Redis store when running more than one replica.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	// Purge expired entries every 10 minutes; per-entry TTLs are set on write.
	return &MemoryStore{
		cache: cache.New(TransientTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(*Session), true
	}
	return nil, false
}

func (s *MemoryStore) Set(_ context.Context, id string, sess *Session) error {
	s.cache.Set(id, sess, ttlFor(sess))
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
