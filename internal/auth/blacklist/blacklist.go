// Package blacklist revokes session token IDs until their natural expiry,
// backing POST /api/auth/logout.
package blacklist

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"dataroom/internal/domain"
)

const keyPrefix = "dataroom:jti:"

// RedisStore keeps revoked JTIs in Redis with a TTL equal to the token's
// remaining lifetime.
type RedisStore struct {
	rdb *redis.Client
}

var _ domain.TokenBlacklist = (*RedisStore)(nil)

func NewRedis(addr, password string, db int) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Minute // exp already passed; keep a short guard entry
	}
	return s.rdb.SetNX(ctx, keyPrefix+jti, 1, ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

// MemoryStore is the single-process fallback used when no Redis address is
// configured (and in tests). Expired entries are dropped on access.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

var _ domain.TokenBlacklist = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time)}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = expiresAt
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}
