package repository

import (
	"context"
	"time"

	user "publisher-backoffice/internal/domains/user"
	"publisher-backoffice/pkg/cache"
)

const revokedKeyPrefix = "session:revoked:"

type cacheSessionStore struct {
	cache cache.Cache
}

// NewSessionStore keeps revoked token ids in the given cache.
func NewSessionStore(c cache.Cache) user.SessionStore {
	return &cacheSessionStore{cache: c}
}

func (s *cacheSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+tokenID, true, ttl)
}

func (s *cacheSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, revokedKeyPrefix+tokenID)
}
