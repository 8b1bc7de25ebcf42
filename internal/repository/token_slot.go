// Package repository contains the repository layer for the Petition API
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// adminTokenKey is the single Redis key holding the current admin token
const adminTokenKey = "petition:admin:token"

// RedisTokenSlot is the single-slot store for the current admin session
// token. The slot is a convenience fallback for callers that do not carry
// the token themselves; the session rows remain the source of validity.
type RedisTokenSlot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenSlot creates a token slot on the given Redis client. The key
// carries a TTL slightly past the session lifetime so a crashed logout
// cannot leave it behind forever.
func NewRedisTokenSlot(client *redis.Client, ttl time.Duration) *RedisTokenSlot {
	return &RedisTokenSlot{client: client, ttl: ttl}
}

// Get returns the stored token, or "" when the slot is empty
func (s *RedisTokenSlot) Get() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token, err := s.client.Get(ctx, adminTokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// Set stores the token in the slot
func (s *RedisTokenSlot) Set(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Set(ctx, adminTokenKey, token, s.ttl).Err()
}

// Clear empties the slot
func (s *RedisTokenSlot) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Del(ctx, adminTokenKey).Err()
}
