package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresBackend stores each collection as one row. data is TEXT rather than
// JSONB so the pretty-printed document round-trips byte for byte.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(ctx context.Context, pool *pgxpool.Pool) (*PostgresBackend, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("creating collections table: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) Ensure(ctx context.Context, name string) error {
	const q = `INSERT INTO collections (name, data) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := p.pool.Exec(ctx, q, name, string(emptyCollection))
	return err
}

func (p *PostgresBackend) Load(ctx context.Context, name string) ([]byte, error) {
	const q = `SELECT data FROM collections WHERE name = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var data string
	if err := p.pool.QueryRow(ctx, q, name).Scan(&data); err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (p *PostgresBackend) Replace(ctx context.Context, name string, data []byte) error {
	const q = `
INSERT INTO collections (name, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := p.pool.Exec(ctx, q, name, string(data))
	return err
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
