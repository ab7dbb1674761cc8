package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/amicbridge/core"
	"github.com/layer-3/amicbridge/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the TrustRecordStore interface.
// Records are stored as JSON under prefix + lowercased wallet address.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis trust record store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "amicbridge:trust:",
	}
}

// GetTrustRecord loads the record stored for walletAddress
func (s *RedisStore) GetTrustRecord(ctx context.Context, walletAddress string) (core.TrustRecord, error) {
	raw, err := s.client.Get(ctx, s.prefix+walletKey(walletAddress)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.TrustRecord{}, core.ErrRecordNotFound
		}
		return core.TrustRecord{}, fmt.Errorf("failed to get trust record: %w", err)
	}

	var record core.TrustRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return core.TrustRecord{}, fmt.Errorf("failed to decode trust record: %w", err)
	}

	return record, nil
}

// PutTrustRecord stores a record. The scoring core never writes; this is used
// by seeding tools and tests.
func (s *RedisStore) PutTrustRecord(ctx context.Context, record core.TrustRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode trust record: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+walletKey(record.WalletAddress), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to put trust record: %w", err)
	}

	return nil
}

// RedisNonceStore is a Redis implementation of the NonceStore interface
type RedisNonceStore struct {
	client *redis.Client
	prefix string
}

// NewRedisNonceStore creates a new Redis nonce store
func NewRedisNonceStore(client *redis.Client) ports.NonceStore {
	return &RedisNonceStore{
		client: client,
		prefix: "amicbridge:nonce:",
	}
}

// ConsumeNonce atomically marks a nonce as used with expiration
func (s *RedisNonceStore) ConsumeNonce(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	fresh, err := s.client.SetNX(ctx, s.prefix+nonce, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume nonce: %w", err)
	}

	return fresh, nil
}

// NewRedisClient parses a Redis URL and verifies connectivity
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
