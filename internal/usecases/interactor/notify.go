package interactor

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
	"github.com/mufasadev/velocity-ledger/internal/domain/repositories"
	apperrors "github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/events"
	"github.com/rs/zerolog"
)

// ledgerNotifier copies committed ledger changes to the outbound sinks. The ledger is already
// committed when it runs, so sink failures are logged and swallowed.
type ledgerNotifier struct {
	publisher repositories.EventPublisher
	journal   repositories.JournalRepository
	logger    *zerolog.Logger
}

func (n *ledgerNotifier) accountOpened(ctx context.Context, a *models.Account) {
	n.publish(ctx, events.AccountEventsStream, events.AccountOpened, events.AccountOpenedEvent{
		AccountID:     a.ID,
		AccountNumber: a.AccountNumber,
		UserID:        a.UserID,
		AccountType:   a.AccountType,
	})
}

func (n *ledgerNotifier) entriesCommitted(ctx context.Context, entries ...models.Transaction) {
	if n.journal != nil {
		if err := n.journal.Record(ctx, entries...); err != nil {
			n.logger.Error().Err(err).Int("entries", len(entries)).Msg(apperrors.ErrFailedWriteJournal)
		}
	}
	for _, e := range entries {
		n.publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
			TransactionID: e.ID,
			AccountID:     e.AccountID,
			Amount:        e.Amount.String(),
			Type:          string(e.Kind),
			BalanceAfter:  e.BalanceAfter.String(),
			Description:   e.Description,
		})
	}
}

func (n *ledgerNotifier) transferCompleted(ctx context.Context, from, to string, r *models.TransferResult) {
	n.entriesCommitted(ctx, r.Debit, r.Credit)
	n.publish(ctx, events.TransactionEventsStream, events.TransferCompleted, events.TransferCompletedEvent{
		FromAccount: from,
		ToAccount:   to,
		Amount:      r.Credit.Amount.String(),
		DebitID:     r.Debit.ID,
		CreditID:    r.Credit.ID,
	})
}

func (n *ledgerNotifier) publish(ctx context.Context, stream, eventType string, data any) {
	if n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, stream, eventType, data); err != nil {
		n.logger.Error().Err(err).Str("event", eventType).Msg(apperrors.ErrFailedPublishEvent)
	}
}
