package memory

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"github.com/mufasadev/velocity-ledger/pkg/util/repeat"
	"github.com/rs/zerolog"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultLockAttempts   = 100
	DefaultLockRetryDelay = time.Millisecond

	accountNumberPrefix = "VB"
	accountNumberDigits = 10
)

var errLockBusy = errors.New("account lock busy")

// accountEntry pairs an account with its log. Both only change under mu.
type accountEntry struct {
	id      string
	mu      sync.RWMutex
	account models.Account
	txns    []models.Transaction // oldest first
}

// LedgerStore is the authoritative in-memory ledger. Every account has its own lock;
// multi-account updates take them in ascending id order with a bounded wait.
type LedgerStore struct {
	mu       sync.RWMutex // guards the index maps only
	byID     map[string]*accountEntry
	byNumber map[string]*accountEntry
	byUser   map[string][]*accountEntry

	seq          atomic.Uint64
	lockAttempts int
	lockDelay    time.Duration
	now          func() time.Time
	logger       *zerolog.Logger
}

type Option func(*LedgerStore)

// WithLockRetry bounds how long an operation waits for a busy account.
func WithLockRetry(attempts int, delay time.Duration) Option {
	return func(s *LedgerStore) {
		if attempts > 0 {
			s.lockAttempts = attempts
		}
		if delay >= 0 {
			s.lockDelay = delay
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *LedgerStore) {
		s.now = now
	}
}

// NewLedgerStore creates an empty ledger.
func NewLedgerStore(opts ...Option) *LedgerStore {
	l := log.GetLogger()
	s := &LedgerStore{
		byID:         make(map[string]*accountEntry),
		byNumber:     make(map[string]*accountEntry),
		byUser:       make(map[string][]*accountEntry),
		lockAttempts: DefaultLockAttempts,
		lockDelay:    DefaultLockRetryDelay,
		now:          time.Now,
		logger:       &l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repositories.LedgerRepository = (*LedgerStore)(nil)

// CreateAccount opens a zero-balance account with a fresh unique number.
func (s *LedgerStore) CreateAccount(ctx context.Context, userID, accountType string) (*models.Account, error) {
	l, err := s.CreateFundedAccount(ctx, userID, accountType, 0, "")
	if err != nil {
		return nil, err
	}
	return &l.Account, nil
}

// CreateFundedAccount opens an account whose log starts with an opening credit. The account
// becomes visible with the credit already applied; a zero opening amount writes no entry.
func (s *LedgerStore) CreateFundedAccount(ctx context.Context, userID, accountType string, opening money.Amount, description string) (*models.AccountLedger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opening < 0 {
		return nil, apperrors.NewInvalidAmountError("opening credit must not be negative")
	}

	e := &accountEntry{
		id: uuid.NewString(),
		account: models.Account{
			UserID:      userID,
			AccountType: accountType,
			CreatedAt:   s.now(),
		},
	}
	e.account.ID = e.id

	if opening > 0 {
		e.account.Balance = opening
		e.txns = append(e.txns, models.Transaction{
			ID:           uuid.NewString(),
			AccountID:    e.id,
			Amount:       opening,
			Kind:         models.Credit,
			Description:  description,
			BalanceAfter: opening,
			Seq:          s.seq.Add(1),
			CreatedAt:    s.now(),
		})
	}

	s.mu.Lock()
	number := generateAccountNumber()
	for {
		if _, taken := s.byNumber[number]; !taken {
			break
		}
		number = generateAccountNumber()
	}
	e.account.AccountNumber = number

	s.byID[e.id] = e
	s.byNumber[number] = e
	s.byUser[userID] = append(s.byUser[userID], e)
	out := snapshot(e)
	s.mu.Unlock()

	s.logger.Debug().Str("account_id", e.id).Str("user_id", userID).Str("opening", opening.String()).Msg("account created")
	return &out, nil
}

// GetAccount returns a snapshot of the account with the given id.
func (s *LedgerStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return s.readAccount(ctx, e)
}

// GetAccountByNumber returns a snapshot of the account with the given number.
func (s *LedgerStore) GetAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	s.mu.RLock()
	e, ok := s.byNumber[number]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewAccountNotFoundError(number)
	}
	return s.readAccount(ctx, e)
}

// AppendTransaction applies a signed amount to one account and records it.
func (s *LedgerStore) AppendTransaction(ctx context.Context, accountID string, amount money.Amount, kind models.TransactionKind, description string) (*models.Transaction, error) {
	var created models.Transaction
	err := s.Update(ctx, []string{accountID}, func(tx repositories.LedgerTx) error {
		var err error
		created, err = tx.Append(accountID, amount, kind, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListTransactions returns the account's entries, most recent first.
func (s *LedgerStore) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	e, err := s.entry(accountID)
	if err != nil {
		return nil, err
	}
	if err = s.rlock(ctx, e); err != nil {
		return nil, err
	}
	defer e.mu.RUnlock()

	out := append([]models.Transaction(nil), e.txns...)
	reverse(out)
	return out, nil
}

// ListAccountsForUser returns the user's accounts in opening order. Unknown users have none.
func (s *LedgerStore) ListAccountsForUser(ctx context.Context, userID string) ([]models.Account, error) {
	s.mu.RLock()
	entries := append([]*accountEntry(nil), s.byUser[userID]...)
	s.mu.RUnlock()

	out := make([]models.Account, 0, len(entries))
	for _, e := range entries {
		a, err := s.readAccount(ctx, e)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// LedgersForUser returns each of the user's accounts together with its log, most recent entry
// first. Every account/log pair is read under one lock, so a balance always matches its entries.
func (s *LedgerStore) LedgersForUser(ctx context.Context, userID string) ([]models.AccountLedger, error) {
	s.mu.RLock()
	entries := append([]*accountEntry(nil), s.byUser[userID]...)
	s.mu.RUnlock()

	out := make([]models.AccountLedger, 0, len(entries))
	for _, e := range entries {
		if err := s.rlock(ctx, e); err != nil {
			return nil, err
		}
		l := snapshot(e)
		e.mu.RUnlock()
		reverse(l.Transactions)
		out = append(out, l)
	}
	return out, nil
}

// Accounts returns every account with its full log. Each pair is consistent on its own;
// there is no global snapshot across accounts.
func (s *LedgerStore) Accounts(ctx context.Context) ([]models.AccountLedger, error) {
	s.mu.RLock()
	entries := make([]*accountEntry, 0, len(s.byID))
	for _, e := range s.byID {
		entries = append(entries, e)
	}
	s.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	out := make([]models.AccountLedger, 0, len(entries))
	for _, e := range entries {
		if err := s.rlock(ctx, e); err != nil {
			return nil, err
		}
		out = append(out, snapshot(e))
		e.mu.RUnlock()
	}
	return out, nil
}

// Update runs fn with exclusive access to the given accounts. Locks are taken in ascending
// id order so concurrent updates over the same pair cannot deadlock. Entries appended by fn
// become visible together, and only if fn returns nil.
func (s *LedgerStore) Update(ctx context.Context, accountIDs []string, fn func(tx repositories.LedgerTx) error) error {
	ids := uniqueSorted(accountIDs)
	entries := make([]*accountEntry, 0, len(ids))
	for _, id := range ids {
		e, err := s.entry(id)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	locked := make([]*accountEntry, 0, len(entries))
	defer func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].mu.Unlock()
		}
	}()
	for _, e := range entries {
		if err := s.lock(ctx, e); err != nil {
			return err
		}
		locked = append(locked, e)
	}

	tx := &ledgerTx{
		store:    s,
		entries:  make(map[string]*accountEntry, len(entries)),
		balances: make(map[string]money.Amount, len(entries)),
		staged:   make(map[string][]models.Transaction, len(entries)),
	}
	for _, e := range entries {
		tx.entries[e.id] = e
		tx.balances[e.id] = e.account.Balance
	}

	if err := fn(tx); err != nil {
		return err
	}

	for id, txns := range tx.staged {
		e := tx.entries[id]
		e.account.Balance = tx.balances[id]
		e.txns = append(e.txns, txns...)
	}
	if len(tx.staged) > 0 {
		s.logger.Debug().Strs("accounts", ids).Int("entries", tx.count).Msg("ledger update committed")
	}
	return nil
}

func (s *LedgerStore) entry(id string) (*accountEntry, error) {
	s.mu.RLock()
	e, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewAccountNotFoundError(id)
	}
	return e, nil
}

func (s *LedgerStore) readAccount(ctx context.Context, e *accountEntry) (*models.Account, error) {
	if err := s.rlock(ctx, e); err != nil {
		return nil, err
	}
	a := e.account
	e.mu.RUnlock()
	return &a, nil
}

func (s *LedgerStore) lock(ctx context.Context, e *accountEntry) error {
	return s.acquire(ctx, e, e.mu.TryLock)
}

func (s *LedgerStore) rlock(ctx context.Context, e *accountEntry) error {
	return s.acquire(ctx, e, e.mu.TryRLock)
}

func (s *LedgerStore) acquire(ctx context.Context, e *accountEntry, try func() bool) error {
	err := repeat.While(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if try() {
			return nil
		}
		return errLockBusy
	}, s.lockAttempts, s.lockDelay, func(err error) bool {
		return errors.Is(err, errLockBusy)
	})

	if errors.Is(err, errLockBusy) {
		s.logger.Warn().Str("account_id", e.id).Int("attempts", s.lockAttempts).Msg("account lock not acquired")
		return apperrors.NewTransientLockConflictError(e.id)
	}
	return err
}

type ledgerTx struct {
	store    *LedgerStore
	entries  map[string]*accountEntry
	balances map[string]money.Amount
	staged   map[string][]models.Transaction
	count    int
}

func (tx *ledgerTx) Balance(accountID string) (money.Amount, error) {
	b, ok := tx.balances[accountID]
	if !ok {
		return 0, fmt.Errorf("account %s is not part of this update", accountID)
	}
	return b, nil
}

func (tx *ledgerTx) Append(accountID string, amount money.Amount, kind models.TransactionKind, description string) (models.Transaction, error) {
	current, err := tx.Balance(accountID)
	if err != nil {
		return models.Transaction{}, err
	}

	switch {
	case kind != models.Credit && kind != models.Debit:
		return models.Transaction{}, apperrors.NewBadRequestError(fmt.Sprintf("unknown transaction kind %q", kind))
	case kind == models.Credit && amount <= 0:
		return models.Transaction{}, apperrors.NewInvalidAmountError("credit must be positive")
	case kind == models.Debit && amount >= 0:
		return models.Transaction{}, apperrors.NewInvalidAmountError("debit must be negative")
	}

	next, err := current.Add(amount)
	if err != nil {
		return models.Transaction{}, apperrors.NewInvalidAmountError(err.Error())
	}
	if next < 0 {
		return models.Transaction{}, apperrors.NewInsufficientFundsError()
	}

	t := models.Transaction{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		Amount:       amount,
		Kind:         kind,
		Description:  description,
		BalanceAfter: next,
		Seq:          tx.store.seq.Add(1),
		CreatedAt:    tx.store.now(),
	}
	tx.balances[accountID] = next
	tx.staged[accountID] = append(tx.staged[accountID], t)
	tx.count++
	return t, nil
}

// snapshot copies the entry. The caller holds e.mu or has not yet published e.
func snapshot(e *accountEntry) models.AccountLedger {
	return models.AccountLedger{
		Account:      e.account,
		Transactions: append([]models.Transaction(nil), e.txns...),
	}
}

func reverse(txns []models.Transaction) {
	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}
}

func uniqueSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// generateAccountNumber returns "VB" followed by ten digits taken from a random uuid.
func generateAccountNumber() string {
	id := uuid.New()
	digits := new(big.Int).SetBytes(id[:]).String()
	for len(digits) < accountNumberDigits {
		digits = "0" + digits
	}
	return accountNumberPrefix + digits[:accountNumberDigits]
}
