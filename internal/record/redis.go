package record

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as fields of a single Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string // hash holding id -> value
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("record: redis ping: %w", err)
	}
	return &RedisStore{client: client, key: opts.Key}, nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, id string) (*Entry, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	value, err := s.client.HGet(ctx, s.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return NewEntry(id, ""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("record: redis HGET: %w", err)
	}
	return NewEntry(id, value), nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, e *Entry) error {
	if e.Value() == "" {
		return s.Delete(ctx, e.ID())
	}
	if err := CheckID(e.ID()); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, e.ID(), e.Value()).Err(); err != nil {
		return fmt.Errorf("record: redis HSET: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := CheckID(id); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("record: redis HDEL: %w", err)
	}
	return nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("record: redis HKEYS: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
