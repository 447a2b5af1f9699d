package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"appraisal_portal_backend/internal/wizard/domain"
	"appraisal_portal_backend/platform/apperr"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix         = "quote_session:"
	maxUpdateAttempts = 5
)

// RedisStore keeps sessions as JSON with a sliding TTL. Concurrent updates
// of the same session use WATCH and retry on conflict.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Create(ctx context.Context, state domain.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode quote session: %w", err)
	}
	ok, err := s.client.SetNX(ctx, key(state.ID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("create quote session: %w", err)
	}
	if !ok {
		return apperr.Conflict("quote session already exists")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (domain.State, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.State{}, errNotFound()
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("get quote session: %w", err)
	}
	return decode(data)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (domain.State, error) {
	k := key(id)
	var result domain.State

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return errNotFound()
		}
		if err != nil {
			return fmt.Errorf("get quote session: %w", err)
		}
		current, err := decode(data)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode quote session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.State{}, err
		}
		return result, nil
	}
	return domain.State{}, apperr.Conflict("quote session is being updated, please retry")
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete quote session: %w", err)
	}
	return nil
}

func key(id string) string {
	return keyPrefix + id
}

func decode(data []byte) (domain.State, error) {
	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.State{}, fmt.Errorf("decode quote session: %w", err)
	}
	return state, nil
}
