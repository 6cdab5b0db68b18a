package di

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/config"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewPublisher(t *testing.T) {
	p, err := NewPublisher(config.Events{Driver: "none"})
	require.NoError(t, err)
	assert.IsType(t, events.NoopPublisher{}, p)

	_, err = NewPublisher(config.Events{Driver: "kafka"})
	assert.Error(t, err)
}

func TestNewJournalDisabled(t *testing.T) {
	journal, closeFn, err := NewJournal(context.Background(), config.PostgreSQL{Enabled: "false"})
	require.NoError(t, err)
	assert.Nil(t, journal)
	closeFn()
}

func TestNewContainer(t *testing.T) {
	c := NewContainer(config.Parse(), nil, nil)
	assert.NotNil(t, c.UserHandler)
	assert.NotNil(t, c.AccountHandler)
	assert.NotNil(t, c.TransferHandler)
	assert.NotNil(t, c.ReconcileInteractor)
	assert.NoError(t, c.ReconcileInteractor.Execute(context.Background()))
}
