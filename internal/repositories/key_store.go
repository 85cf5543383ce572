package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"tripplanner/pkg/utils"
)

// Persisted key layout.
const (
	DraftKey           = "trip_draft_v1"
	TripsKey           = "user_trips_v2"
	AttractionCacheKey = "attraction_recommendation_cache"
	HotelCacheKey      = "hotel_recommendation_cache"
)

// Per-destination slice names.
const (
	SlicePointsOrder = "points_order"
	SliceChecklist   = "checklist"
	SliceReviews     = "reviews"
	SliceLogs        = "logs"
	SliceFiles       = "files"
)

// SliceKey namespaces a per-destination slice as "<slice>_<destination>".
func SliceKey(slice, destination string) string {
	return slice + "_" + destination
}

// KeyStore is a raw durable key/value backend.
type KeyStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// PersistentStore is the typed, fail-soft view over a KeyStore that every
// component routes durable reads and writes through.
type PersistentStore struct {
	backend KeyStore
	log     zerolog.Logger
}

func NewPersistentStore(backend KeyStore, log zerolog.Logger) *PersistentStore {
	return &PersistentStore{
		backend: backend,
		log:     log.With().Str("component", "persistent_store").Logger(),
	}
}

// Get decodes the value under key into dst. Absent, unreadable and malformed
// values all report false; the latter two are logged.
func (s *PersistentStore) Get(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("malformed stored value ignored")
		return false
	}
	return true
}

// Set serializes v under key. It returns false when the write did not land;
// the failure is logged and the caller's in-memory state stays authoritative.
func (s *PersistentStore) Set(ctx context.Context, key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Stack().Err(err).Str("key", key).Msg("value not serializable")
		return false
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		evt := s.log.Warn().Stack().Err(err).Str("key", key).Int("bytes", len(raw))
		if errors.Is(err, utils.ErrStorageQuotaExceeded) {
			evt.Msg("storage quota exceeded, keeping in-memory state only")
		} else {
			evt.Msg("write failed, keeping in-memory state only")
		}
		return false
	}
	return true
}

func (s *PersistentStore) Remove(ctx context.Context, key string) bool {
	if err := s.backend.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("remove failed")
		return false
	}
	return true
}

// Has reports whether key currently holds a value, without decoding it.
func (s *PersistentStore) Has(ctx context.Context, key string) bool {
	_, ok, err := s.backend.Get(ctx, key)
	return err == nil && ok
}
