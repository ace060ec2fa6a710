package store

import (
	"context"
	"fmt"
	"io"

	"github.com/diagnosis/clinicdesk/pkg/config"
	"github.com/diagnosis/clinicdesk/pkg/database"
)

// Open builds the backend named by cfg.Storage.Driver. The returned closer
// releases connections and is never nil.
func Open(ctx context.Context, cfg *config.Config) (Backend, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return NewFileBackend(cfg.Storage.DataDir), nopCloser{}, nil
	case config.DriverMemory:
		return NewMemoryBackend(), nopCloser{}, nil
	case config.DriverSQLite:
		b, err := OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		b, err := NewPostgresBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return b, b, nil
	case config.DriverRedis:
		client, err := NewRedisClient(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		b, err := NewRedisBackend(ctx, client, cfg.Redis.KeyPrefix)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return b, b, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
