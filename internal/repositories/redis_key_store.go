package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"tripplanner/pkg/utils"
)

type redisKeyStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisKeyStore keeps every key under prefix with no expiry.
func NewRedisKeyStore(rdb *redis.Client, prefix string) KeyStore {
	return &redisKeyStore{rdb: rdb, prefix: prefix}
}

func (r *redisKeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return raw, true, nil
}

func (r *redisKeyStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		if isRedisOOM(err) {
			return fmt.Errorf("%w: %v", utils.ErrStorageQuotaExceeded, err)
		}
		return fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *redisKeyStore) Remove(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return nil
}

// Redis answers writes past maxmemory with an OOM error reply.
func isRedisOOM(err error) bool {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return strings.HasPrefix(rerr.Error(), "OOM")
	}
	return false
}
