package memcache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TokenStore holds pending values under single-use tokens.
type TokenStore[T any] interface {
	Set(token string, value T, ttl time.Duration)

	// Consume returns the value for token if not expired and removes it.
	Consume(token string) (T, bool)

	Peek(token string) (T, bool)
}

type ConfirmTokens[T any] struct {
	mu    sync.Mutex
	items *gocache.Cache
}

// NewConfirmTokens janitors expired tokens every cleanup interval.
func NewConfirmTokens[T any](cleanup time.Duration) *ConfirmTokens[T] {
	return &ConfirmTokens[T]{
		items: gocache.New(gocache.NoExpiration, cleanup),
	}
}

func (s *ConfirmTokens[T]) Set(token string, value T, ttl time.Duration) {
	s.items.Set(token, value, ttl)
}

func (s *ConfirmTokens[T]) Consume(token string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.Peek(token)
	if ok {
		s.items.Delete(token)
	}
	return v, ok
}

func (s *ConfirmTokens[T]) Peek(token string) (T, bool) {
	var zero T
	v, ok := s.items.Get(token)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
