package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobdeck-api/internal/config"
	"jobdeck-api/internal/logging"
)

// Store wraps a PostgreSQL connection pool. It is the system of record for
// CVs, schedule events and recurring slot templates.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// Connect establishes a connection pool to the database and verifies it.
func Connect(ctx context.Context, cfg *config.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger := logging.GetGlobalLogger()
	logger.Info("Connected to PostgreSQL", map[string]interface{}{
		"max_conns": poolCfg.MaxConns,
	})

	return &Store{pool: pool, logger: logger}, nil
}

// Close closes the connection pool
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// IsHealthy reports whether the database is reachable
func (s *Store) IsHealthy(ctx context.Context) bool {
	return s.pool.Ping(ctx) == nil
}
