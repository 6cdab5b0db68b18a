package postgresql

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/mufasadev/velocity-ledger/pkg/util/repeat"
	"time"
)

const (
	ClientTimeout = 5 * time.Second
	retryDelay    = 2 * time.Second
)

// Client is the subset of *pgxpool.Pool the repositories depend on.
type Client interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ Client = (*pgxpool.Pool)(nil)

// NewClient opens a pool and pings it. Failed attempts are retried up to maxConnAttempts
// times unless ctx is done.
func NewClient(ctx context.Context, cfg *pgxpool.Config, maxConnAttempts int) (*pgxpool.Pool, error) {
	logger := log.GetLogger()
	attempt := 0

	var pool *pgxpool.Pool
	err := repeat.While(func() error {
		attempt++
		p, err := connect(ctx, cfg)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Str("host", cfg.ConnConfig.Host).Msg("postgres not reachable")
			return err
		}
		pool = p
		return nil
	}, maxConnAttempts, retryDelay, func(error) bool { return ctx.Err() == nil })

	if err != nil {
		return nil, fmt.Errorf("connect after %d attempts: %w", attempt, err)
	}
	return pool, nil
}

func connect(ctx context.Context, cfg *pgxpool.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, ClientTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
