package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playperu/secretdraw/internal/store"
	"github.com/playperu/secretdraw/internal/store/jsonbin"
	"github.com/playperu/secretdraw/internal/store/redisstore"
	"github.com/playperu/secretdraw/internal/store/sqlite"
)

// Client is a store backend that can also report its own reachability.
type Client interface {
	store.Client
	Check(ctx context.Context) error
}

// Backend is an opened store. Close releases its connections.
type Backend struct {
	Name   string
	Client Client
	Close  func() error
}

// OpenBackend connects to the store selected by StoreBackend.
func (c *Config) OpenBackend(ctx context.Context) (*Backend, error) {
	nop := func() error { return nil }

	switch c.StoreBackend {
	case BackendJSONBin:
		var opts []jsonbin.Option
		if c.JSONBinBaseURL != "" {
			opts = append(opts, jsonbin.WithBaseURL(c.JSONBinBaseURL))
		}
		cl, err := jsonbin.New(c.JSONBinBinID, c.JSONBinAPIKey, c.StoreTimeout, opts...)
		if err != nil {
			return nil, err
		}
		return &Backend{Name: BackendJSONBin, Client: cl, Close: nop}, nil

	case BackendSQLite:
		if dir := filepath.Dir(c.DBPath); c.DBPath != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		s, err := sqlite.Open(ctx, c.DBPath, sqlite.DefaultRecord)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return &Backend{Name: BackendSQLite, Client: s, Close: s.Close}, nil

	case BackendRedis:
		s, err := redisstore.Open(ctx, c.RedisURL, c.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("opening redis store: %w", err)
		}
		return &Backend{Name: BackendRedis, Client: s, Close: s.Close}, nil

	case BackendMemory:
		return &Backend{Name: BackendMemory, Client: store.NewMemory(), Close: nop}, nil
	}
	return nil, fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalid, c.StoreBackend)
}
