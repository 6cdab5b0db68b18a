package models

import (
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"time"
)

const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
)

// ValidAccountTypes lists the account types a user may open.
var ValidAccountTypes = map[string]struct{}{
	AccountTypeChecking: {},
	AccountTypeSavings:  {},
}

type Account struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	AccountNumber string       `json:"account_number"`
	Balance       money.Amount `json:"balance"`
	AccountType   string       `json:"account_type"`
	CreatedAt     time.Time    `json:"created_at"`
}
