package session

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/certtrack/exam-center/internal/config"
)

const revokedKeyPrefix = "revoked_token:"

// RevocationStore denylists logged-out token ids until their natural
// expiry. A nil redis client disables revocation (logout still returns
// 200, tokens simply age out).
type RevocationStore struct {
	client *redis.Client
}

func NewRevocationStore(cfg *config.Config) *RevocationStore {
	var client *redis.Client
	if cfg.RedisAddr != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return &RevocationStore{client: client}
}

// NewRevocationStoreWithClient is for tests.
func NewRevocationStoreWithClient(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

func (s *RevocationStore) Enabled() bool {
	return s.client != nil
}

// Revoke marks jti revoked for ttl. Non-positive ttl means the token is
// already expired and there is nothing to store.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.client == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked fails open on redis errors: an unreachable denylist must not
// take down every authenticated route.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) bool {
	if s.client == nil || jti == "" {
		return false
	}
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}
