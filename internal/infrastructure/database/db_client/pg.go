package db_client

import (
	"context"
	"fmt"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mufasadev/velocity-ledger/internal/config"
	"github.com/mufasadev/velocity-ledger/pkg/postgresql"
	"strconv"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS ledger_journal (
  transaction_id UUID PRIMARY KEY,
  account_id     UUID NOT NULL,
  amount         NUMERIC(20,2) NOT NULL,
  kind           VARCHAR(16) NOT NULL,
  description    TEXT NOT NULL,
  balance_after  NUMERIC(20,2) NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ledger_journal_account_idx ON ledger_journal (account_id, created_at DESC);`

type PGClient struct {
	cfg config.PostgreSQL
}

func NewPGClient(cfg config.PostgreSQL) *PGClient {
	return &PGClient{cfg: cfg}
}

// Connect opens the journal pool with the decimal codec registered on every connection.
func (c *PGClient) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	pgxConfig, err := pgxpool.ParseConfig(c.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	pgxConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	maxAttempts, err := strconv.Atoi(c.cfg.MaxConnAttempts)
	if err != nil {
		return nil, fmt.Errorf("strconv.Atoi: %w", err)
	}

	db, err := postgresql.NewClient(ctx, pgxConfig, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("postgresql.NewClient: %w", err)
	}

	return db, nil
}

// Migrate creates the journal table when it is missing.
func Migrate(ctx context.Context, db postgresql.Client) error {
	if _, err := db.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}
