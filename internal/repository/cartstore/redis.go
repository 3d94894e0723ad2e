package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedis returns a Store keyed by session id. Records expire after ttl so
// abandoned carts age out of Redis on their own.
func NewRedis(client *redis.Client, ttl time.Duration, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &redisStore{client: client, ttl: ttl, logger: logger}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *redisStore) Save(ctx context.Context, sessionID string, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, cartKey(sessionID), body, s.ttl).Err(); err != nil {
		s.logger.Printf("cartstore: save session=%s error=%v", sessionID, err)
		return err
	}
	return nil
}

// Load returns nil with no error when no record exists, when the record is
// corrupt, or when its schema version differs: all three start a fresh cart.
func (s *redisStore) Load(ctx context.Context, sessionID string) (*Record, error) {
	body, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Printf("cartstore: load session=%s error=%v", sessionID, err)
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		s.logger.Printf("cartstore: load session=%s corrupt record discarded: %v", sessionID, err)
		return nil, nil
	}
	if rec.Version != SchemaVersion {
		s.logger.Printf("cartstore: load session=%s version=%q mismatch, discarding", sessionID, rec.Version)
		return nil, nil
	}
	rec.Items = Sanitize(rec.Items)
	return &rec, nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, cartKey(sessionID)).Err()
}
