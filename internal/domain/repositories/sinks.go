package repositories

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/domain/models"
)

// EventPublisher ships ledger events to an outbound broker.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
	Close() error
}

// JournalRepository keeps a write-only copy of committed ledger entries.
type JournalRepository interface {
	Record(ctx context.Context, entries ...models.Transaction) error
}
