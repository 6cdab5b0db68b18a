package interactor

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

// driftingLedger reports a balance that no longer matches the entry log.
type driftingLedger struct {
	repositories.LedgerRepository
}

func (d driftingLedger) Accounts(ctx context.Context) ([]models.AccountLedger, error) {
	ledgers, err := d.LedgerRepository.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	ledgers[0].Account.Balance += 1
	ledgers[1].Account.Balance = -1
	return ledgers, nil
}

func TestReconcileHealthy(t *testing.T) {
	s := newStore()
	x := fundedAccount(t, s, "user-x", "100.00")
	y := fundedAccount(t, s, "user-y", "50.00")
	_, err := NewTransferInteractor(s, nil, nil, 3).Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("25.00"), "r")
	require.NoError(t, err)

	r := NewReconcileInteractor(s)
	report, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
	assert.Equal(t, 2, report.Accounts)
	assert.Equal(t, 4, report.Entries)
	assert.Equal(t, money.MustParse("150.00"), report.TotalBalance)

	assert.NoError(t, r.Execute(ctx))
	assert.Equal(t, 2, r.Runs())
}

func TestReconcileDrift(t *testing.T) {
	s := newStore()
	fundedAccount(t, s, "user-x", "100.00")
	fundedAccount(t, s, "user-y", "50.00")

	r := NewReconcileInteractor(driftingLedger{LedgerRepository: s})
	report, err := r.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, report.Healthy())
	assert.Len(t, report.Drifted, 2)
	assert.Len(t, report.Negative, 1)

	assert.Error(t, r.Execute(ctx))
}
