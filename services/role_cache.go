package services

import (
	"context"
	"time"

	"contesthub/metrics"
	"contesthub/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const RoleCacheKeyPrefix = "user_role:"

// RoleCache keeps recently read roles so authorization does not hit the store on every request.
// Implementations must treat backend failures as misses.
type RoleCache interface {
	Get(ctx context.Context, email string) (models.Role, bool)
	Set(ctx context.Context, email string, role models.Role)
	Invalidate(ctx context.Context, email string)
}

// NewRoleCache returns a redis-backed cache, or a no-op cache when client is nil
func NewRoleCache(client *redis.Client, ttl time.Duration) RoleCache {
	if client == nil {
		return noopRoleCache{}
	}
	return &redisRoleCache{client: client, ttl: ttl}
}

type redisRoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *redisRoleCache) Get(ctx context.Context, email string) (models.Role, bool) {
	val, err := r.client.Get(ctx, RoleCacheKeyPrefix+email).Result()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Warn("Failed to read role cache")
		}
		metrics.RoleCacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}
	role, ok := models.ParseRole(val)
	if !ok {
		metrics.RoleCacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}
	metrics.RoleCacheLookups.WithLabelValues("hit").Inc()
	return role, true
}

func (r *redisRoleCache) Set(ctx context.Context, email string, role models.Role) {
	if err := r.client.Set(ctx, RoleCacheKeyPrefix+email, string(role), r.ttl).Err(); err != nil {
		log.WithError(err).Warn("Failed to cache role")
	}
}

func (r *redisRoleCache) Invalidate(ctx context.Context, email string) {
	if err := r.client.Del(ctx, RoleCacheKeyPrefix+email).Err(); err != nil {
		log.WithError(err).Warn("Failed to invalidate role cache")
	}
}

type noopRoleCache struct{}

func (noopRoleCache) Get(context.Context, string) (models.Role, bool) { return "", false }
func (noopRoleCache) Set(context.Context, string, models.Role)        {}
func (noopRoleCache) Invalidate(context.Context, string)              {}
