package interactor

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"sort"
)

// QueryInteractor serves read-only views over the ledger.
type QueryInteractor struct {
	ledger         repositories.LedgerRepository
	dashboardLimit int
}

func NewQueryInteractor(ledger repositories.LedgerRepository, dashboardLimit int) *QueryInteractor {
	if dashboardLimit <= 0 {
		dashboardLimit = 5
	}
	return &QueryInteractor{ledger: ledger, dashboardLimit: dashboardLimit}
}

func (q *QueryInteractor) Account(ctx context.Context, id string) (*models.Account, error) {
	return q.ledger.GetAccount(ctx, id)
}

func (q *QueryInteractor) AccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	return q.ledger.GetAccountByNumber(ctx, number)
}

func (q *QueryInteractor) AccountsForUser(ctx context.Context, userID string) ([]models.Account, error) {
	return q.ledger.ListAccountsForUser(ctx, userID)
}

// Transactions returns the account's entries most recent first. limit <= 0 returns all of them.
func (q *QueryInteractor) Transactions(ctx context.Context, accountID string, limit int) ([]models.Transaction, error) {
	txns, err := q.ledger.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// Dashboard totals the user's balances and merges recent activity across all their accounts.
// Each account's balance and entries come from one snapshot. limit <= 0 uses the configured
// dashboard limit.
func (q *QueryInteractor) Dashboard(ctx context.Context, userID string, limit int) (*models.Dashboard, error) {
	if limit <= 0 {
		limit = q.dashboardLimit
	}

	ledgers, err := q.ledger.LedgersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts := make([]models.Account, 0, len(ledgers))
	balances := make([]money.Amount, 0, len(ledgers))
	recent := make([]models.Transaction, 0)
	for _, l := range ledgers {
		accounts = append(accounts, l.Account)
		balances = append(balances, l.Account.Balance)

		txns := l.Transactions
		if len(txns) > limit {
			txns = txns[:limit]
		}
		recent = append(recent, txns...)
	}

	total, err := money.Sum(balances...)
	if err != nil {
		return nil, err
	}

	sort.Slice(recent, func(i, j int) bool { return recent[i].Newer(recent[j]) })
	if len(recent) > limit {
		recent = recent[:limit]
	}

	return &models.Dashboard{
		TotalBalance:       total,
		Accounts:           accounts,
		RecentTransactions: recent,
	}, nil
}
