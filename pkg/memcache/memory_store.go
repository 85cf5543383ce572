package memcache

import (
	"context"
	"fmt"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"tripplanner/pkg/utils"
)

// MemoryStore is an in-process key/value backend with an optional byte quota,
// mirroring the limits of browser local storage.
type MemoryStore struct {
	mu         sync.Mutex
	items      *gocache.Cache
	quotaBytes int
	usedBytes  int
}

// NewMemoryStore returns a store; quotaBytes <= 0 disables the quota.
func NewMemoryStore(quotaBytes int) *MemoryStore {
	return &MemoryStore{
		items:      gocache.New(gocache.NoExpiration, 0),
		quotaBytes: quotaBytes,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw := v.([]byte)
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := 0
	if v, ok := s.items.Get(key); ok {
		prev = entrySize(key, v.([]byte))
	}
	next := entrySize(key, value)
	if s.quotaBytes > 0 && s.usedBytes-prev+next > s.quotaBytes {
		return fmt.Errorf("%w: %d of %d bytes used", utils.ErrStorageQuotaExceeded, s.usedBytes, s.quotaBytes)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.items.Set(key, stored, gocache.NoExpiration)
	s.usedBytes += next - prev
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.items.Get(key); ok {
		s.usedBytes -= entrySize(key, v.([]byte))
		s.items.Delete(key)
	}
	return nil
}

// Keys lists stored keys, for diagnostics and tests.
func (s *MemoryStore) Keys() []string {
	items := s.items.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	return keys
}

// SetRaw writes value bypassing the quota check, used to seed corrupted state in tests.
func (s *MemoryStore) SetRaw(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.items.Get(key); ok {
		s.usedBytes -= entrySize(key, v.([]byte))
	}
	s.items.Set(key, []byte(value), gocache.NoExpiration)
	s.usedBytes += entrySize(key, []byte(value))
}

func entrySize(key string, value []byte) int {
	return len(key) + len(value)
}
