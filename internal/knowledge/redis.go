package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSource reads a JSON array snapshot stored under a single key.
type RedisSource struct {
	Client redis.Cmdable
	Key    string
}

func (s *RedisSource) Name() string { return "redis" }

func (s *RedisSource) Load(ctx context.Context) ([]Document, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("knowledge snapshot key %q not found", s.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("read knowledge snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

// Store replaces the snapshot with docs. A zero ttl keeps it until overwritten.
func (s *RedisSource) Store(ctx context.Context, docs []Document, ttl time.Duration) error {
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode document snapshot: %w", err)
	}
	if err := s.Client.Set(ctx, s.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("write knowledge snapshot: %w", err)
	}
	return nil
}
