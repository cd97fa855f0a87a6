// Package redisstore implements store.Client with the collection kept as a
// single Redis string. Writes are plain SET, so the last writer wins.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/secretdraw/internal/store"
)

const DefaultKey = "secretdraw:games"

type Store struct {
	rdb *redis.Client
	key string
}

// Open parses rawURL, connects and pings the server.
func Open(ctx context.Context, rawURL, key string) (*Store, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", classify(err))
	}
	return New(rdb, key), nil
}

func New(rdb *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{rdb: rdb, key: key}
}

func (s *Store) FetchCollection(ctx context.Context) (store.Collection, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.key, classify(err))
	}
	coll, err := store.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", store.ErrUnavailable, s.key, err)
	}
	return coll, nil
}

func (s *Store) ReplaceCollection(ctx context.Context, c store.Collection) error {
	if c == nil {
		c = store.Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, classify(err))
	}
	return nil
}

// Check pings the server.
func (s *Store) Check(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// classify maps a redis error onto the store taxonomy.
func classify(err error) error {
	msg := err.Error()
	if strings.HasPrefix(msg, "NOAUTH") || strings.HasPrefix(msg, "WRONGPASS") {
		return fmt.Errorf("%w: %v", store.ErrAuth, err)
	}
	return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
}
