package heimdall

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// UserCache caches successful lookups per access token and coalesces
// concurrent lookups for the same token into a single upstream call: a
// second caller arriving while a fetch is in flight awaits the same result
// instead of issuing another request.
type UserCache struct {
	fetcher UserFetcher
	cache   *gocache.Cache
	group   singleflight.Group
	ttl     time.Duration
}

// NewUserCache wraps fetcher with a TTL cache. Expired entries are swept in
// the background at double the TTL.
func NewUserCache(fetcher UserFetcher, ttl time.Duration) *UserCache {
	return &UserCache{
		fetcher: fetcher,
		cache:   gocache.New(ttl, 2*ttl),
		ttl:     ttl,
	}
}

// GetUser returns the user behind an access token, from cache when
// possible. Errors are never cached, so a failed lookup is retried on the
// next call.
func (uc *UserCache) GetUser(ctx context.Context, accessToken string) (*User, error) {
	key := cacheKey(accessToken)
	if v, ok := uc.cache.Get(key); ok {
		return v.(*User), nil
	}

	v, err, _ := uc.group.Do(key, func() (any, error) {
		// Re-check: a concurrent caller may have filled the cache between
		// our miss and winning the flight.
		if v, ok := uc.cache.Get(key); ok {
			return v.(*User), nil
		}
		user, err := uc.fetcher.FetchUser(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(key, user, uc.ttl)
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*User), nil
}

// Invalidate drops every cached user. Called on logout and after a token
// refresh, when cached role data may no longer match the session.
func (uc *UserCache) Invalidate() {
	uc.cache.Flush()
}

// cacheKey hashes the token so the raw credential is not held as a map key.
func cacheKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return hex.EncodeToString(sum[:])
}
