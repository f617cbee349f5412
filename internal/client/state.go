// Package client is the Go side of the mobile app: an HTTP client for the
// API and per-screen models whose every operation is tracked by a Holder.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Success:
		return "Success"
	case Error:
		return "Error"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is one of four variants. Data is set only in Success and Message
// only in Error.
type State[T any] struct {
	Phase   Phase
	Data    T
	Message string
}

// Holder tracks a single operation. The zero value is Idle and ready to use.
//
// Each Run bumps a generation counter; a result only lands if no newer Run,
// Fail or Reset happened in between, so a retriggered operation never shows
// a stale outcome.
type Holder[T any] struct {
	mu    sync.Mutex
	state State[T]
	gen   uint64
}

func (h *Holder[T]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Run moves to Loading before returning, then calls fn on its own goroutine
// and resolves to Success or Error("<op> failed: <reason>"). The returned
// channel closes once fn has returned, whether or not its result landed.
func (h *Holder[T]) Run(ctx context.Context, op string, fn func(context.Context) (T, error)) <-chan struct{} {
	h.mu.Lock()
	h.gen++
	gen := h.gen
	h.state = State[T]{Phase: Loading}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		data, err := fn(ctx)

		h.mu.Lock()
		defer h.mu.Unlock()
		if gen != h.gen {
			return
		}
		if err != nil {
			h.state = State[T]{Phase: Error, Message: op + " failed: " + reason(err)}
			return
		}
		h.state = State[T]{Phase: Success, Data: data}
	}()
	return done
}

// Fail sets Error synchronously, for checks made before any request is sent.
func (h *Holder[T]) Fail(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.state = State[T]{Phase: Error, Message: message}
}

// Reset acknowledges the last outcome and returns to Idle.
func (h *Holder[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.state = State[T]{}
}

func reason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
