package dtos

import "github.com/mufasadev/velocity-ledger/pkg/money"

type TransferDTO struct {
	FromAccount string       `json:"from_account" validate:"required"`
	ToAccount   string       `json:"to_account" validate:"required"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description" validate:"max=140"`
}
