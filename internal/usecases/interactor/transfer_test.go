package interactor

import (
	"context"
	"errors"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	apperr "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/events"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/storage/memory"
	"github.com/mufasadev/velocity-ledger/internal/usecases/dtos"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var ctx = context.Background()

type recordingPublisher struct {
	sync.Mutex
	types []string
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, eventType string, _ any) error {
	p.Lock()
	defer p.Unlock()
	p.types = append(p.types, eventType)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(eventType string) int {
	p.Lock()
	defer p.Unlock()
	n := 0
	for _, t := range p.types {
		if t == eventType {
			n++
		}
	}
	return n
}

type recordingJournal struct {
	sync.Mutex
	entries []models.Transaction
	err     error
}

func (j *recordingJournal) Record(_ context.Context, entries ...models.Transaction) error {
	j.Lock()
	defer j.Unlock()
	j.entries = append(j.entries, entries...)
	return j.err
}

// flakyLedger fails the first `failures` Update calls with a lock conflict.
type flakyLedger struct {
	repositories.LedgerRepository
	failures int32
	calls    int32
}

func (f *flakyLedger) Update(ctx context.Context, ids []string, fn func(tx repositories.LedgerTx) error) error {
	if atomic.AddInt32(&f.calls, 1) <= f.failures {
		return apperr.NewTransientLockConflictError(ids[0])
	}
	return f.LedgerRepository.Update(ctx, ids, fn)
}

func newStore() *memory.LedgerStore {
	return memory.NewLedgerStore(memory.WithLockRetry(5000, 100*time.Microsecond))
}

func fundedAccount(t *testing.T, s repositories.LedgerRepository, userID, balance string) *models.Account {
	t.Helper()
	a, err := s.CreateAccount(ctx, userID, models.AccountTypeChecking)
	require.NoError(t, err)
	if amount := money.MustParse(balance); amount > 0 {
		_, err = s.AppendTransaction(ctx, a.ID, amount, models.Credit, "seed")
		require.NoError(t, err)
	}
	return a
}

func balanceOf(t *testing.T, s repositories.LedgerRepository, id string) money.Amount {
	t.Helper()
	a, err := s.GetAccount(ctx, id)
	require.NoError(t, err)
	return a.Balance
}

func TestTransfer(t *testing.T) {
	s := newStore()
	x := fundedAccount(t, s, "user-x", "1000.00")
	y := fundedAccount(t, s, "user-y", "1000.00")
	i := NewTransferInteractor(s, nil, nil, 3)

	result, err := i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("250.00"), "rent")
	require.NoError(t, err)

	assert.Equal(t, money.MustParse("-250.00"), result.Debit.Amount)
	assert.Equal(t, models.Debit, result.Debit.Kind)
	assert.Equal(t, "Transfer to "+y.AccountNumber+": rent", result.Debit.Description)
	assert.Equal(t, money.MustParse("750.00"), result.Debit.BalanceAfter)

	assert.Equal(t, money.MustParse("250.00"), result.Credit.Amount)
	assert.Equal(t, models.Credit, result.Credit.Kind)
	assert.Equal(t, "Transfer from "+x.AccountNumber+": rent", result.Credit.Description)
	assert.Equal(t, money.MustParse("1250.00"), result.Credit.BalanceAfter)

	assert.Equal(t, money.Amount(0), result.Debit.Amount+result.Credit.Amount)
	assert.Equal(t, money.MustParse("750.00"), balanceOf(t, s, x.ID))
	assert.Equal(t, money.MustParse("1250.00"), balanceOf(t, s, y.ID))
}

func TestProcessTransfer(t *testing.T) {
	s := newStore()
	x := fundedAccount(t, s, "user-x", "10.00")
	y := fundedAccount(t, s, "user-y", "0")
	i := NewTransferInteractor(s, nil, nil, 3)

	_, err := i.ProcessTransfer(ctx, &dtos.TransferDTO{
		FromAccount: x.AccountNumber,
		ToAccount:   y.AccountNumber,
		Amount:      money.MustParse("10.00"),
		Description: "all in",
	})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), balanceOf(t, s, x.ID))
	assert.Equal(t, money.MustParse("10.00"), balanceOf(t, s, y.ID))
}

func TestTransferRejected(t *testing.T) {
	s := newStore()
	x := fundedAccount(t, s, "user-x", "100.00")
	y := fundedAccount(t, s, "user-y", "100.00")
	i := NewTransferInteractor(s, nil, nil, 3)

	tests := []struct {
		name   string
		from   string
		to     string
		amount money.Amount
		target error
	}{
		{"insufficient funds", x.AccountNumber, y.AccountNumber, money.MustParse("100.01"), apperr.NewInsufficientFundsError()},
		{"zero amount", x.AccountNumber, y.AccountNumber, 0, apperr.NewInvalidAmountError("")},
		{"negative amount", x.AccountNumber, y.AccountNumber, money.MustParse("-5.00"), apperr.NewInvalidAmountError("")},
		{"self transfer", x.AccountNumber, x.AccountNumber, money.MustParse("1.00"), apperr.NewSelfTransferError()},
		{"unknown source", "VB0000000000", y.AccountNumber, money.MustParse("1.00"), apperr.NewAccountNotFoundError("")},
		{"unknown destination", x.AccountNumber, "VB0000000000", money.MustParse("1.00"), apperr.NewAccountNotFoundError("")},
		{"same unknown number", "VB0000000000", "VB0000000000", money.MustParse("1.00"), apperr.NewAccountNotFoundError("")},
		{"empty numbers", "", "", money.MustParse("1.00"), apperr.NewAccountNotFoundError("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := i.Transfer(ctx, tt.from, tt.to, tt.amount, "x")
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	// nothing was written by the rejected attempts
	assert.Equal(t, money.MustParse("100.00"), balanceOf(t, s, x.ID))
	assert.Equal(t, money.MustParse("100.00"), balanceOf(t, s, y.ID))
	txns, err := s.ListTransactions(ctx, x.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestConcurrentOpposingTransfers(t *testing.T) {
	s := newStore()
	x := fundedAccount(t, s, "user-x", "1000.00")
	y := fundedAccount(t, s, "user-y", "1000.00")
	i := NewTransferInteractor(s, nil, nil, 50)

	var wg sync.WaitGroup
	wg.Add(2)
	var errXY, errYX error
	go func() {
		defer wg.Done()
		_, errXY = i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("500.00"), "x to y")
	}()
	go func() {
		defer wg.Done()
		_, errYX = i.Transfer(ctx, y.AccountNumber, x.AccountNumber, money.MustParse("300.00"), "y to x")
	}()
	wg.Wait()

	require.NoError(t, errXY)
	require.NoError(t, errYX)
	assert.Equal(t, money.MustParse("800.00"), balanceOf(t, s, x.ID))
	assert.Equal(t, money.MustParse("1200.00"), balanceOf(t, s, y.ID))
}

func TestConcurrentTransfersConserveMoney(t *testing.T) {
	s := newStore()
	accounts := []*models.Account{
		fundedAccount(t, s, "user-a", "500.00"),
		fundedAccount(t, s, "user-b", "500.00"),
		fundedAccount(t, s, "user-c", "500.00"),
	}
	i := NewTransferInteractor(s, nil, nil, 50)

	workers, perWorker := 8, 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for n := 0; n < perWorker; n++ {
				from := accounts[r.Intn(len(accounts))]
				to := accounts[r.Intn(len(accounts))]
				if from.ID == to.ID {
					continue
				}
				amount := money.Amount(r.Intn(20000) + 1)
				_, err := i.Transfer(ctx, from.AccountNumber, to.AccountNumber, amount, "shuffle")
				if err != nil && !errors.Is(err, apperr.NewInsufficientFundsError()) {
					t.Errorf("unexpected transfer error: %v", err)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	var total money.Amount
	for _, a := range accounts {
		b := balanceOf(t, s, a.ID)
		assert.GreaterOrEqual(t, int64(b), int64(0))
		total += b
	}
	assert.Equal(t, money.MustParse("1500.00"), total)

	report, err := NewReconcileInteractor(s).Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
}

func TestTransferRetriesLockConflict(t *testing.T) {
	s := newStore()
	x := fundedAccount(t, s, "user-x", "100.00")
	y := fundedAccount(t, s, "user-y", "0")

	t.Run("recovers", func(t *testing.T) {
		ledger := &flakyLedger{LedgerRepository: s, failures: 2}
		i := NewTransferInteractor(ledger, nil, nil, 3)

		_, err := i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("1.00"), "retry")
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&ledger.calls))
	})

	t.Run("gives up", func(t *testing.T) {
		ledger := &flakyLedger{LedgerRepository: s, failures: 10}
		i := NewTransferInteractor(ledger, nil, nil, 2)

		_, err := i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("1.00"), "retry")
		assert.True(t, errors.Is(err, apperr.NewTransientLockConflictError("")))
		assert.Equal(t, int32(2), atomic.LoadInt32(&ledger.calls))
	})

	t.Run("does not retry terminal errors", func(t *testing.T) {
		ledger := &flakyLedger{LedgerRepository: s}
		i := NewTransferInteractor(ledger, nil, nil, 5)

		_, err := i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("1000.00"), "too much")
		assert.True(t, errors.Is(err, apperr.NewInsufficientFundsError()))
		assert.Equal(t, int32(1), atomic.LoadInt32(&ledger.calls))
	})
}

func TestTransferSinks(t *testing.T) {
	s := newStore()
	x := fundedAccount(t, s, "user-x", "100.00")
	y := fundedAccount(t, s, "user-y", "0")

	t.Run("records committed entries", func(t *testing.T) {
		publisher := &recordingPublisher{}
		journal := &recordingJournal{}
		i := NewTransferInteractor(s, publisher, journal, 3)

		result, err := i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("5.00"), "sinks")
		require.NoError(t, err)

		assert.Equal(t, 2, publisher.count(events.TransactionCreated))
		assert.Equal(t, 1, publisher.count(events.TransferCompleted))
		require.Len(t, journal.entries, 2)
		assert.Equal(t, result.Debit.ID, journal.entries[0].ID)
		assert.Equal(t, result.Credit.ID, journal.entries[1].ID)
	})

	t.Run("sink failures do not undo the transfer", func(t *testing.T) {
		publisher := &recordingPublisher{err: errors.New("broker down")}
		journal := &recordingJournal{err: errors.New("db down")}
		i := NewTransferInteractor(s, publisher, journal, 3)

		before := balanceOf(t, s, y.ID)
		_, err := i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("5.00"), "sinks")
		require.NoError(t, err)
		assert.Equal(t, before+money.MustParse("5.00"), balanceOf(t, s, y.ID))
	})

	t.Run("rejected transfer emits nothing", func(t *testing.T) {
		publisher := &recordingPublisher{}
		journal := &recordingJournal{}
		i := NewTransferInteractor(s, publisher, journal, 3)

		_, err := i.Transfer(ctx, x.AccountNumber, y.AccountNumber, money.MustParse("1000.00"), "sinks")
		require.Error(t, err)
		assert.Empty(t, publisher.types)
		assert.Empty(t, journal.entries)
	})
}
