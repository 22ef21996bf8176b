package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the slice of the pgx pool the server layer needs: a health ping
// for readiness checks and a close for shutdown. Repositories take the
// concrete pool directly.
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// connectTimeout bounds the initial dial and verification ping so a bad
// DSN fails startup fast instead of hanging.
const connectTimeout = 10 * time.Second

// NewPool connects to PostgreSQL and verifies the connection before
// handing the pool back. Collection and transfer transactions are short,
// so idle and lifetime limits come from config rather than pgx defaults.
func NewPool(connString string, maxConns int, maxIdle, maxLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBadConnString, err)
	}

	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = MinWarmConnections
	cfg.MaxConnIdleTime = maxIdle
	cfg.MaxConnLifetime = maxLife

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgPoolCreateFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgPingFailed, err)
	}

	slog.Info(LogMsgDatabaseReady, "max_conns", cfg.MaxConns)
	return pool, nil
}
