package repositories

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/pkg/money"
)

// LedgerTx is the view handed to an Update callback. Balances reflect entries staged so far;
// nothing is visible to other callers until the callback returns nil.
type LedgerTx interface {
	Balance(accountID string) (money.Amount, error)
	Append(accountID string, amount money.Amount, kind models.TransactionKind, description string) (models.Transaction, error)
}

type LedgerRepository interface {
	CreateAccount(ctx context.Context, userID, accountType string) (*models.Account, error)
	// CreateFundedAccount opens an account with an opening credit applied in the same step.
	CreateFundedAccount(ctx context.Context, userID, accountType string, opening money.Amount, description string) (*models.AccountLedger, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*models.Account, error)
	AppendTransaction(ctx context.Context, accountID string, amount money.Amount, kind models.TransactionKind, description string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)
	ListAccountsForUser(ctx context.Context, userID string) ([]models.Account, error)
	// LedgersForUser returns consistent account/log pairs, entries most recent first.
	LedgersForUser(ctx context.Context, userID string) ([]models.AccountLedger, error)
	Update(ctx context.Context, accountIDs []string, fn func(tx LedgerTx) error) error
	Accounts(ctx context.Context) ([]models.AccountLedger, error)
}
