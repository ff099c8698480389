package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists one JSON value per topic key. Entries carry no TTL:
// a stale entry is still the best available answer when every refresh
// fails, so it must never expire out from under the cache.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ctx:    ctx,
	}, nil
}

func (s *RedisStore) Load(topic string) (*Entry, error) {
	val, err := s.client.Get(s.ctx, topicKey(topic)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic %s: %w", topic, err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry for topic %s: %w", topic, err)
	}

	return &entry, nil
}

func (s *RedisStore) Save(entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for topic %s: %w", entry.Topic, err)
	}

	if err := s.client.Set(s.ctx, topicKey(entry.Topic), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set topic %s: %w", entry.Topic, err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func topicKey(topic string) string {
	return "topic:" + topic
}
