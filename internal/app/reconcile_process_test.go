package app

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"sync/atomic"
	"testing"
	"time"
)

type countingHandler struct {
	calls atomic.Int32
	err   error
}

func (h *countingHandler) Execute(ctx context.Context) error {
	h.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	return h.err
}

func TestReconcileProcessRunsUntilCancelled(t *testing.T) {
	h := &countingHandler{err: errors.New("drift")}
	p := NewReconcileProcess(h, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return h.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("process did not stop")
	}
}
