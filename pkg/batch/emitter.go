package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultCapacity is the record count that triggers a flush when none is configured.
const DefaultCapacity = 10

var tracer = otel.Tracer("server-herald/pkg/batch")

// Emitter buffers records into one open batch and flushes it to the sink once it
// holds capacity records. Safe for concurrent use.
type Emitter[T any] struct {
	capacity int
	sink     Sink[T]

	mu   sync.Mutex
	open Batch[T]

	flushes atomic.Uint64
	dropped atomic.Uint64
}

// NewEmitter creates an emitter. capacity must be positive.
func NewEmitter[T any](capacity int, sink Sink[T]) (*Emitter[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("batch capacity must be positive, got %d", capacity)
	}
	if sink == nil {
		return nil, fmt.Errorf("batch sink is nil")
	}
	return &Emitter[T]{capacity: capacity, sink: sink}, nil
}

// Append adds rec to the open batch, opening one if needed. When the batch
// reaches capacity it is swapped for a fresh one and sent on the caller's
// goroutine; other callers keep appending to the new batch meanwhile.
//
// A record the transport refuses with ErrBatchFull is dropped, and the batch
// that refused it is sent as it stands.
func (e *Emitter[T]) Append(ctx context.Context, rec T) error {
	e.mu.Lock()
	if e.open == nil {
		b, err := e.sink.NewBatch(ctx)
		if err != nil {
			e.mu.Unlock()
			e.dropped.Add(1)
			return &AppendError{Err: fmt.Errorf("open batch: %w", err)}
		}
		e.open = b
	}

	if err := e.open.TryAdd(rec); err != nil {
		e.dropped.Add(1)
		rejected := &AppendError{Err: err}
		if !errors.Is(err, ErrBatchFull) || e.open.Len() == 0 {
			e.mu.Unlock()
			return rejected
		}
		// The transport filled up below capacity; seal what it holds so later
		// records land in a fresh batch.
		full := e.swapLocked(ctx)
		e.mu.Unlock()
		if sendErr := e.send(ctx, full); sendErr != nil {
			return errors.Join(rejected, sendErr)
		}
		return rejected
	}

	if e.open.Len() < e.capacity {
		e.mu.Unlock()
		return nil
	}

	full := e.swapLocked(ctx)
	e.mu.Unlock()

	return e.send(ctx, full)
}

// Flush sends the open batch if it holds any records.
func (e *Emitter[T]) Flush(ctx context.Context) error {
	e.mu.Lock()
	if e.open == nil || e.open.Len() == 0 {
		e.mu.Unlock()
		return nil
	}
	full := e.swapLocked(ctx)
	e.mu.Unlock()

	return e.send(ctx, full)
}

// Pending returns the number of records in the open batch.
func (e *Emitter[T]) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open == nil {
		return 0
	}
	return e.open.Len()
}

// Flushes returns how many batches have been handed to the sink.
func (e *Emitter[T]) Flushes() uint64 { return e.flushes.Load() }

// Dropped returns how many records were refused by Append.
func (e *Emitter[T]) Dropped() uint64 { return e.dropped.Load() }

// swapLocked detaches the open batch and opens its replacement. If the sink cannot
// open one now, the next Append retries.
func (e *Emitter[T]) swapLocked(ctx context.Context) Batch[T] {
	full := e.open
	e.open = nil
	if next, err := e.sink.NewBatch(ctx); err == nil {
		e.open = next
	}
	return full
}

func (e *Emitter[T]) send(ctx context.Context, b Batch[T]) error {
	size := b.Len()
	ctx, span := tracer.Start(ctx, "batch.send",
		trace.WithAttributes(attribute.Int("batch.size", size)))
	defer span.End()

	e.flushes.Add(1)
	if err := e.sink.Send(ctx, b); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return &SendError{Size: size, Err: err}
	}
	return nil
}
