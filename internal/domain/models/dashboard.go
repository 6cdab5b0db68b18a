package models

import "github.com/mufasadev/velocity-ledger/pkg/money"

type Dashboard struct {
	TotalBalance       money.Amount  `json:"total_balance"`
	Accounts           []Account     `json:"accounts"`
	RecentTransactions []Transaction `json:"recent_transactions"`
}
