package repositories

import (
	"context"
	"fmt"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/mufasadev/velocity-ledger/pkg/postgresql"
	"github.com/rs/zerolog"
	"strings"
)

const journalColumns = 7

type JournalRepositoryImpl struct {
	db     postgresql.Client
	logger *zerolog.Logger
}

// NewJournalRepositoryImpl creates new instance of JournalRepositoryImpl.
func NewJournalRepositoryImpl(db postgresql.Client) repositories.JournalRepository {
	l := log.GetLogger()
	return &JournalRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

// Record inserts the entries in one statement, so a transfer's debit and credit land together.
// Entries already journaled are skipped.
func (r *JournalRepositoryImpl) Record(ctx context.Context, entries ...models.Transaction) error {
	if len(entries) == 0 {
		return nil
	}

	query, args := buildJournalInsert(entries)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("journal insert: %w", err)
	}

	r.logger.Debug().Int64("rows", tag.RowsAffected()).Msg("journal entries recorded")
	return nil
}

func buildJournalInsert(entries []models.Transaction) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("INSERT INTO ledger_journal (transaction_id, account_id, amount, kind, description, balance_after, created_at) VALUES ")

	args := make([]interface{}, 0, len(entries)*journalColumns)
	for i, e := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * journalColumns
		fmt.Fprintf(&b, "($%d, $%d, $%d::NUMERIC(20,2), $%d, $%d, $%d::NUMERIC(20,2), $%d)",
			n+1, n+2, n+3, n+4, n+5, n+6, n+7)
		args = append(args,
			e.ID,
			e.AccountID,
			e.Amount.Decimal(),
			string(e.Kind),
			e.Description,
			e.BalanceAfter.Decimal(),
			e.CreatedAt,
		)
	}
	b.WriteString(" ON CONFLICT (transaction_id) DO NOTHING")

	return b.String(), args
}
