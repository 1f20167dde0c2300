package cart

import (
	"context"

	"lootmart-backend/pkg/cache"
)

// RedisStorage keeps the cart snapshot in Redis so a shopper's cart
// survives across devices and sessions.
type RedisStorage struct {
	cache *cache.RedisCache
	key   string
}

// NewRedisStorage stores the snapshot under StorageKey:sessionID. Snapshots
// do not expire; abandoned carts are cheap.
func NewRedisStorage(c *cache.RedisCache, sessionID string) *RedisStorage {
	return &RedisStorage{
		cache: c,
		key:   StorageKey + ":" + sessionID,
	}
}

func (r *RedisStorage) Load() ([]byte, error) {
	data, err := r.cache.GetBytes(context.Background(), r.key)
	if cache.IsMiss(err) {
		return nil, nil
	}
	return data, err
}

func (r *RedisStorage) Save(data []byte) error {
	return r.cache.SetBytes(context.Background(), r.key, data, 0)
}
