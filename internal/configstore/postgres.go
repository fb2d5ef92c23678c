package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inmobiliaria/storefront/internal/models"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS app_config (
	id         BIGSERIAL PRIMARY KEY,
	key        TEXT NOT NULL UNIQUE,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Postgres stores the config document in an app_config table
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a connection pool and verifies it with a ping
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// EnsureSchema creates the app_config table when missing
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create app_config table: %w", err)
	}
	return nil
}

// Fetch loads the config document merged onto the defaults
func (p *Postgres) Fetch(ctx context.Context) (models.AppConfig, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM app_config WHERE key = $1`, RecordKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DefaultAppConfig(), fmt.Errorf("%w: record %q not found", ErrUnavailable, RecordKey)
	}
	if err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return decodeDocument(json.RawMessage(raw))
}

// Update upserts the config document
func (p *Postgres) Update(ctx context.Context, cfg models.AppConfig) error {
	value, err := encodeDocument(cfg)
	if err != nil {
		return err
	}
	// Stored as a jsonb string to match what the NocoDB backend writes.
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO app_config (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		RecordKey, string(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Close closes the connection pool
func (p *Postgres) Close() {
	p.pool.Close()
}
