package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

// busyTerminal reports events without pause until it is finalized.
type busyTerminal struct {
	closed chan struct{}
	once   sync.Once
}

func newBusyTerminal() *busyTerminal {
	return &busyTerminal{closed: make(chan struct{})}
}

func (b *busyTerminal) PollEvent() tcell.Event {
	select {
	case <-b.closed:
		return nil
	default:
		return tcell.NewEventInterrupt(nil)
	}
}

func (b *busyTerminal) Fini() {
	b.once.Do(func() { close(b.closed) })
}

func serveWithTimeout(t *testing.T, ctx context.Context, run func(context.Context, <-chan tcell.Event) error) error {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- serve(ctx, newBusyTerminal(), 0, run) }()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
		return nil
	}
}

func TestServe_QuitReleasesBlockedPump(t *testing.T) {
	quit := func(ctx context.Context, events <-chan tcell.Event) error {
		// let the pump block on a full channel first
		time.Sleep(20 * time.Millisecond)
		return nil
	}

	assert.NoError(t, serveWithTimeout(t, context.Background(), quit))
}

func TestServe_ReturnsRunError(t *testing.T) {
	failure := errors.New("draw failed")
	run := func(ctx context.Context, events <-chan tcell.Event) error {
		<-events
		return failure
	}

	assert.ErrorIs(t, serveWithTimeout(t, context.Background(), run), failure)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	run := func(ctx context.Context, events <-chan tcell.Event) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-events:
				cancel()
			}
		}
	}

	assert.NoError(t, serveWithTimeout(t, ctx, run))
}
