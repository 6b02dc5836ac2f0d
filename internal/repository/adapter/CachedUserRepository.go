package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	cacheport "github.com/Raees-J/DockIt/internal/infrastructure/cache/port"
	port "github.com/Raees-J/DockIt/internal/repository/port"

	"github.com/rs/zerolog"
)

const userCacheKeyPrefix = "user:profile:"

// CachedUserRepository decorates a UserRepository with a read-through cache.
// User profiles are resolved on every message broadcast, so a short TTL keeps
// the hot path off the database without serving stale names for long.
type CachedUserRepository struct {
	next  port.UserRepository
	cache cacheport.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedUserRepository(next port.UserRepository, cache cacheport.Cache, ttl time.Duration, log zerolog.Logger) *CachedUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedUserRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "user-cache").Logger(),
	}
}

var _ port.UserRepository = (*CachedUserRepository)(nil)

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*port.User, error) {
	key := userCacheKeyPrefix + id

	cached, err := r.cache.Get(ctx, key)
	if err == nil {
		var u port.User
		if jsonErr := json.Unmarshal([]byte(cached), &u); jsonErr == nil {
			return &u, nil
		}
		// corrupt entry: fall through to the source and overwrite
	} else if !errors.Is(err, cacheport.ErrMiss) {
		// cache outage must not break lookups
		r.log.Warn().Err(err).Str("user", id).Msg("cache get failed")
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}

	if encoded, jsonErr := json.Marshal(u); jsonErr == nil {
		if setErr := r.cache.Set(ctx, key, string(encoded), r.ttl); setErr != nil {
			r.log.Warn().Err(setErr).Str("user", id).Msg("cache set failed")
		}
	}
	return u, nil
}
