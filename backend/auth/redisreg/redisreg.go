// Package redisreg keeps the auth session registry in Redis, so sessions
// survive restarts and are shared between instances.
package redisreg

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/donmariogerlin/gerlin/backend/auth"
)

var _ auth.Registry = (*Registry)(nil)

const keyPrefix = "gerlin:session:"

type Registry struct {
	client *redis.Client
}

func New(client *redis.Client) *Registry {
	return &Registry{client: client}
}

// Dial connects to the Redis server at addr and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*Registry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return New(client), nil
}

func (r *Registry) Close() error {
	return r.client.Close()
}

func (r *Registry) Add(ctx context.Context, id string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+id, 1, ttl).Err()
}

func (r *Registry) Active(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Registry) Remove(ctx context.Context, id string) error {
	return r.client.Del(ctx, keyPrefix+id).Err()
}
