package models

import (
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"time"
)

type TransactionKind string

const (
	Credit TransactionKind = "credit"
	Debit  TransactionKind = "debit"
)

// Transaction is an immutable ledger entry. Credits carry positive amounts, debits negative ones.
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Amount       money.Amount    `json:"amount"`
	Kind         TransactionKind `json:"transaction_type"`
	Description  string          `json:"description"`
	BalanceAfter money.Amount    `json:"balance_after"`
	Seq          uint64          `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Newer orders entries most recent first; Seq breaks timestamp ties.
func (t Transaction) Newer(other Transaction) bool {
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.After(other.CreatedAt)
	}
	return t.Seq > other.Seq
}

// TransferResult is the debit/credit pair written by one transfer.
type TransferResult struct {
	Debit  Transaction `json:"debit"`
	Credit Transaction `json:"credit"`
}

// AccountLedger is one account together with its full entry log, read under a single lock.
type AccountLedger struct {
	Account      Account
	Transactions []Transaction
}
