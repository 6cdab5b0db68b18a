package interactor

import (
	"context"
	"fmt"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"github.com/rs/zerolog"
	"sync"
)

type ReconcileReport struct {
	Accounts     int
	Entries      int
	TotalBalance money.Amount
	Drifted      []string // balance differs from the sum of entries
	Negative     []string
}

func (r *ReconcileReport) Healthy() bool {
	return len(r.Drifted) == 0 && len(r.Negative) == 0
}

type ReconcileInteractor struct {
	ledger repositories.LedgerRepository
	logger *zerolog.Logger
	sync.Mutex
	runs int
}

// NewReconcileInteractor creates a new ReconcileInteractor
func NewReconcileInteractor(ledger repositories.LedgerRepository) *ReconcileInteractor {
	l := log.GetLogger()
	return &ReconcileInteractor{
		ledger: ledger,
		logger: &l,
	}
}

// Reconcile checks every account's balance against its entry log.
func (c *ReconcileInteractor) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	c.Lock()
	defer c.Unlock()

	ledgers, err := c.ledger.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Accounts: len(ledgers)}
	for _, l := range ledgers {
		var sum money.Amount
		for _, tx := range l.Transactions {
			if sum, err = sum.Add(tx.Amount); err != nil {
				return nil, err
			}
		}
		report.Entries += len(l.Transactions)

		if sum != l.Account.Balance {
			report.Drifted = append(report.Drifted, l.Account.ID)
		}
		if l.Account.Balance < 0 {
			report.Negative = append(report.Negative, l.Account.ID)
		}
		if report.TotalBalance, err = report.TotalBalance.Add(l.Account.Balance); err != nil {
			return nil, err
		}
	}

	c.runs++
	return report, nil
}

// Execute runs one reconciliation pass and reports drift as an error.
func (c *ReconcileInteractor) Execute(ctx context.Context) error {
	report, err := c.Reconcile(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg(apperrors.ErrReconcileFailed)
		return err
	}

	if !report.Healthy() {
		c.logger.Error().
			Strs("drifted", report.Drifted).
			Strs("negative", report.Negative).
			Msg(apperrors.ErrLedgerDrift)
		return fmt.Errorf("%s: %d drifted, %d negative", apperrors.ErrLedgerDrift, len(report.Drifted), len(report.Negative))
	}

	c.logger.Info().
		Int("accounts", report.Accounts).
		Int("entries", report.Entries).
		Str("total_balance", report.TotalBalance.String()).
		Msg("ledger reconciled")
	return nil
}

func (c *ReconcileInteractor) Runs() int {
	c.Lock()
	defer c.Unlock()
	return c.runs
}
