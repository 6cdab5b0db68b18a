package interactor

import (
	"context"
	"fmt"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/internal/usecases/dtos"
	"github.com/mufasadev/velocity-ledger/pkg/log"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"github.com/mufasadev/velocity-ledger/pkg/util/repeat"
	"github.com/rs/zerolog"
	"time"
)

const transferRetryDelay = 5 * time.Millisecond

type TransferInteractor struct {
	ledger   repositories.LedgerRepository
	notifier *ledgerNotifier
	attempts int
	logger   *zerolog.Logger
}

// NewTransferInteractor creates a TransferInteractor. attempts caps how many times a transfer
// that hit a busy account is retried as a whole.
func NewTransferInteractor(ledger repositories.LedgerRepository, publisher repositories.EventPublisher, journal repositories.JournalRepository, attempts int) *TransferInteractor {
	l := log.GetLogger()
	return &TransferInteractor{
		ledger:   ledger,
		notifier: &ledgerNotifier{publisher: publisher, journal: journal, logger: &l},
		attempts: attempts,
		logger:   &l,
	}
}

// ProcessTransfer runs a transfer described by a request DTO.
func (i *TransferInteractor) ProcessTransfer(ctx context.Context, dto *dtos.TransferDTO) (*models.TransferResult, error) {
	return i.Transfer(ctx, dto.FromAccount, dto.ToAccount, dto.Amount, dto.Description)
}

// Transfer moves amount from one account to another. The debit and the credit are
// committed together or not at all. Both numbers must resolve before a self-transfer is reported.
func (i *TransferInteractor) Transfer(ctx context.Context, fromNumber, toNumber string, amount money.Amount, description string) (*models.TransferResult, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewInvalidAmountError("must be greater than zero")
	}

	var result *models.TransferResult
	err := repeat.While(func() error {
		var err error
		result, err = i.transferOnce(ctx, fromNumber, toNumber, amount, description)
		return err
	}, i.attempts, transferRetryDelay, apperrors.IsRetryable)
	if err != nil {
		i.logger.Warn().Err(err).
			Str("from", fromNumber).
			Str("to", toNumber).
			Str("amount", amount.String()).
			Msg(apperrors.ErrFailedProcessTransfer)
		return nil, err
	}

	i.logger.Info().
		Str("from", fromNumber).
		Str("to", toNumber).
		Str("amount", amount.String()).
		Msg("transfer committed")
	i.notifier.transferCompleted(ctx, fromNumber, toNumber, result)
	return result, nil
}

func (i *TransferInteractor) transferOnce(ctx context.Context, fromNumber, toNumber string, amount money.Amount, description string) (*models.TransferResult, error) {
	from, err := i.ledger.GetAccountByNumber(ctx, fromNumber)
	if err != nil {
		return nil, err
	}
	to, err := i.ledger.GetAccountByNumber(ctx, toNumber)
	if err != nil {
		return nil, err
	}
	if from.ID == to.ID {
		return nil, apperrors.NewSelfTransferError()
	}

	result := &models.TransferResult{}
	err = i.ledger.Update(ctx, []string{from.ID, to.ID}, func(tx repositories.LedgerTx) error {
		balance, err := tx.Balance(from.ID)
		if err != nil {
			return err
		}
		if balance < amount {
			return apperrors.NewInsufficientFundsError()
		}

		result.Debit, err = tx.Append(from.ID, amount.Neg(), models.Debit, fmt.Sprintf("Transfer to %s: %s", toNumber, description))
		if err != nil {
			return err
		}
		result.Credit, err = tx.Append(to.ID, amount, models.Credit, fmt.Sprintf("Transfer from %s: %s", fromNumber, description))
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
