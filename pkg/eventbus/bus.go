// Package eventbus is an in-process publish/subscribe registry keyed by event kind.
//
// Handlers for the same kind run in the order they were subscribed, on the
// publisher's goroutine. A failing or panicking handler never stops the ones after
// it: the failure is handed to the bus's error handler and delivery continues.
package eventbus

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
)

// Kind names a family of events, e.g. "InteractionCreate".
type Kind string

// Handler consumes one event payload.
type Handler func(ctx context.Context, payload any) error

// ErrorHandler receives every error returned (or panic raised) by a handler.
type ErrorHandler func(kind Kind, err error)

// PanicError is reported when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", p.Value)
}

// Bus is safe for concurrent Subscribe and Publish.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	onError  ErrorHandler
}

// New creates a bus. If onError is nil, handler failures are logged.
func New(onError ErrorHandler) *Bus {
	if onError == nil {
		onError = func(kind Kind, err error) {
			log.Printf("[ERR] %s handler failed: %v", kind, err)
		}
	}
	return &Bus{
		handlers: make(map[Kind][]Handler),
		onError:  onError,
	}
}

// Subscribe registers h for kind. Registrations live as long as the bus.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers[kind] = append(b.handlers[kind], h)
	b.mu.Unlock()
}

// Publish delivers payload to every handler currently registered for kind and
// returns how many handlers ran.
func (b *Bus) Publish(ctx context.Context, kind Kind, payload any) int {
	b.mu.RLock()
	// Slots below len are never rewritten, so the snapshot stays valid after unlock.
	subs := b.handlers[kind]
	b.mu.RUnlock()

	for _, h := range subs {
		if err := invoke(ctx, h, payload); err != nil {
			b.onError(kind, err)
		}
	}
	return len(subs)
}

// Subscribers returns the number of handlers registered for kind.
func (b *Bus) Subscribers(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[kind])
}

func invoke(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h(ctx, payload)
}
