package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/offlineq/pkg/config"
	"github.com/dmitrymomot/offlineq/pkg/file"
	"github.com/dmitrymomot/offlineq/pkg/mongo"
	"github.com/dmitrymomot/offlineq/pkg/pg"
	"github.com/dmitrymomot/offlineq/pkg/queue"
	"github.com/dmitrymomot/offlineq/pkg/redis"
	"github.com/dmitrymomot/offlineq/pkg/sqlite"
)

// Storage backend names accepted by OFFLINEQ_STORAGE and --storage.
const (
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Settings is the process level configuration of the CLI.
type Settings struct {
	Storage string `env:"OFFLINEQ_STORAGE" envDefault:"file"`
	Queue   string `env:"OFFLINEQ_QUEUE" envDefault:"default"`
	Env     string `env:"OFFLINEQ_ENV" envDefault:"development"`
}

// Backend is an opened queue storage together with its lifecycle hooks.
type Backend struct {
	Storage     queue.Storage
	Healthcheck func(context.Context) error
	Close       func() error
}

func (b *Backend) close() error {
	if b == nil || b.Close == nil {
		return nil
	}
	return b.Close()
}

// Opener opens the named storage backend.
type Opener func(ctx context.Context, kind string, log *slog.Logger) (*Backend, error)

// openBackend builds a backend from its environment configuration.
func openBackend(ctx context.Context, kind string, log *slog.Logger) (*Backend, error) {
	switch kind {
	case BackendFile:
		var cfg file.LocalConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		st, err := file.NewLocalStorage(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return &Backend{Storage: st}, nil

	case BackendS3:
		var cfg file.S3Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		st, err := file.NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{Storage: st}, nil

	case BackendSQLite:
		var cfg sqlite.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		st, err := sqlite.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{Storage: st, Healthcheck: st.Ping, Close: st.Close}, nil

	case BackendRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Storage:     redis.NewStorage(client, redis.WithConfig(cfg)),
			Healthcheck: redis.Healthcheck(client),
			Close:       client.Close,
		}, nil

	case BackendPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Storage:     pg.NewStorage(pool),
			Healthcheck: pg.Healthcheck(pool),
			Close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case BackendMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		st, client, err := mongo.NewStorageFromConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Storage:     st,
			Healthcheck: mongo.Healthcheck(client),
			Close: func() error {
				return client.Disconnect(context.Background())
			},
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
}
