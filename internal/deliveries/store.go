// Package deliveries keeps short-lived receipts of processed webhook
// deliveries so operators can look up what happened to a given delivery id.
package deliveries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"issuebridge/internal/models"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "issuebridge:delivery:"

var ErrNotFound = errors.New("delivery not found")

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

// Record stores d under its id, replacing any earlier receipt. Receipts expire
// after the store TTL.
func (s *Store) Record(ctx context.Context, d models.Delivery) error {
	if d.ID == "" {
		return errors.New("delivery id is empty")
	}

	encoded, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal delivery: %w", err)
	}

	return s.rdb.Set(ctx, key(d.ID), encoded, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (models.Delivery, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Delivery{}, ErrNotFound
	}
	if err != nil {
		return models.Delivery{}, err
	}

	var d models.Delivery
	if err := json.Unmarshal(raw, &d); err != nil {
		return models.Delivery{}, fmt.Errorf("decode delivery %s: %w", id, err)
	}

	return d, nil
}
