package repositories

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"github.com/mufasadev/velocity-ledger/pkg/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

// fakeClient records Exec calls; the embedded interface panics on anything else.
type fakeClient struct {
	postgresql.Client
	sql  []string
	args [][]interface{}
	err  error
}

func (f *fakeClient) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, arguments)
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 2"), nil
}

func transferPair() []models.Transaction {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.Transaction{
		{ID: "d1", AccountID: "a1", Amount: -100000, Kind: models.Debit, Description: "Transfer to VB2: payout", BalanceAfter: 0, CreatedAt: now},
		{ID: "c1", AccountID: "a2", Amount: 100000, Kind: models.Credit, Description: "Transfer from VB1: payout", BalanceAfter: 100000, CreatedAt: now},
	}
}

func TestJournalRecord(t *testing.T) {
	t.Run("single_statement_for_pair", func(t *testing.T) {
		db := &fakeClient{}
		repo := NewJournalRepositoryImpl(db)

		err := repo.Record(context.Background(), transferPair()...)
		require.NoError(t, err)

		require.Len(t, db.sql, 1)
		assert.Contains(t, db.sql[0], "INSERT INTO ledger_journal")
		assert.Contains(t, db.sql[0], "$14")
		assert.True(t, strings.HasSuffix(db.sql[0], "ON CONFLICT (transaction_id) DO NOTHING"))

		args := db.args[0]
		require.Len(t, args, 14)
		assert.Equal(t, "d1", args[0])
		assert.True(t, decimal.RequireFromString("-1000").Equal(args[2].(decimal.Decimal)))
		assert.Equal(t, "debit", args[3])
		assert.Equal(t, "c1", args[7])
		assert.True(t, money.Amount(100000).Decimal().Equal(args[12].(decimal.Decimal)))
	})

	t.Run("empty_is_noop", func(t *testing.T) {
		db := &fakeClient{}
		require.NoError(t, NewJournalRepositoryImpl(db).Record(context.Background()))
		assert.Empty(t, db.sql)
	})

	t.Run("error_wrapped", func(t *testing.T) {
		db := &fakeClient{err: errors.New("connection refused")}
		err := NewJournalRepositoryImpl(db).Record(context.Background(), transferPair()...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "journal insert")
	})
}
