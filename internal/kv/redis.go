package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis instance. Expiry is handled by the
// envelope layer, not by Redis TTLs, so entries are written without one.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis at the given URI and verifies the connection.
func NewRedis(uri string) (*Redis, error) {
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Redis{client: client}, nil
}

// Get returns the stored value for key, if any.
func (r *Redis) Get(key string) (string, bool, error) {
	value, err := r.client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any prior entry.
func (r *Redis) Set(key, value string) error {
	return r.client.Set(context.Background(), key, value, 0).Err()
}

// Remove deletes the entry for key.
func (r *Redis) Remove(key string) error {
	return r.client.Del(context.Background(), key).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
