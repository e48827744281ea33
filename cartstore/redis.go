package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kariqs/farmers-market-api/models"
)

const (
	keyPrefix  = "cart:"
	maxRetries = 10
)

var ErrContention = errors.New("cart modified concurrently, retries exhausted")

// RedisStore keeps each cart as a JSON array under cart:<session>. Writes
// are optimistic WATCH/MULTI transactions retried on contention.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Lines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	return read(ctx, s.client, s.key(sessionID))
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, line models.CartLine) ([]models.CartLine, error) {
	return s.update(ctx, sessionID, func(lines []models.CartLine) ([]models.CartLine, error) {
		return append(lines, line), nil
	})
}

func (s *RedisStore) RemoveAt(ctx context.Context, sessionID string, index int) ([]models.CartLine, error) {
	return s.update(ctx, sessionID, func(lines []models.CartLine) ([]models.CartLine, error) {
		return removeAt(lines, index)
	})
}

func (s *RedisStore) Remove(ctx context.Context, sessionID, lineID string) ([]models.CartLine, error) {
	return s.update(ctx, sessionID, func(lines []models.CartLine) ([]models.CartLine, error) {
		return removeID(lines, lineID)
	})
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// Take uses GETDEL, so exactly one caller sees a stored cart.
func (s *RedisStore) Take(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	key := s.key(sessionID)
	data, err := s.client.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(key, data)
}

func (s *RedisStore) Restore(ctx context.Context, sessionID string, lines []models.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := s.update(ctx, sessionID, func(current []models.CartLine) ([]models.CartLine, error) {
		return append(append([]models.CartLine{}, lines...), current...), nil
	})
	return err
}

func (s *RedisStore) update(ctx context.Context, sessionID string, fn func([]models.CartLine) ([]models.CartLine, error)) ([]models.CartLine, error) {
	key := s.key(sessionID)
	var result []models.CartLine

	txf := func(tx *redis.Tx) error {
		lines, err := read(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(lines)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrContention
}

func read(ctx context.Context, c redis.Cmdable, key string) ([]models.CartLine, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(key, data)
}

func decode(key string, data []byte) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", key, err)
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return lines, nil
}
