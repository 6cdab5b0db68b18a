package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	AccountOpened      = "account.opened"
	TransactionCreated = "transaction.created"
	TransferCompleted  = "transfer.completed"
)

// Stream names
const (
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Event is the envelope every publisher writes.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AccountOpenedEvent struct {
	AccountID     string `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	UserID        string `json:"userId"`
	AccountType   string `json:"accountType"`
}

type TransactionCreatedEvent struct {
	TransactionID string `json:"transactionId"`
	AccountID     string `json:"accountId"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	BalanceAfter  string `json:"balanceAfter"`
	Description   string `json:"description"`
}

type TransferCompletedEvent struct {
	FromAccount string `json:"fromAccount"`
	ToAccount   string `json:"toAccount"`
	Amount      string `json:"amount"`
	DebitID     string `json:"debitId"`
	CreditID    string `json:"creditId"`
}

func encode(eventType string, data any) ([]byte, error) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return eventJSON, nil
}
