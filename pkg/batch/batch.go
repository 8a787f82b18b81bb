// Package batch accumulates records and hands them to a sink in size-bounded
// batches. Flushing is size-triggered only: a batch below capacity stays open
// until more records arrive or Flush is called.
package batch

import (
	"context"
	"errors"
	"fmt"
)

// ErrBatchFull is returned by Batch.TryAdd when the transport cannot fit the record.
var ErrBatchFull = errors.New("batch is full")

// Batch is the transport's representation of one batch. It may refuse records on
// its own limits (payload bytes, event count) independently of the emitter's
// capacity.
type Batch[T any] interface {
	TryAdd(rec T) error
	Len() int
}

// Sink creates batches and delivers them.
type Sink[T any] interface {
	NewBatch(ctx context.Context) (Batch[T], error)
	Send(ctx context.Context, b Batch[T]) error
}

// AppendError means the record was dropped and not buffered.
type AppendError struct {
	Err error
}

func (e *AppendError) Error() string { return fmt.Sprintf("append record: %v", e.Err) }
func (e *AppendError) Unwrap() error { return e.Err }

// SendError means a full batch could not be delivered. The emitter has already
// moved on to a new batch.
type SendError struct {
	Size int
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send batch of %d records: %v", e.Size, e.Err)
}
func (e *SendError) Unwrap() error { return e.Err }

// SliceBatch is an in-memory Batch. A zero limit means no transport limit.
type SliceBatch[T any] struct {
	max     int
	records []T
}

// NewSliceBatch returns an empty SliceBatch holding at most limit records.
func NewSliceBatch[T any](limit int) *SliceBatch[T] {
	return &SliceBatch[T]{max: limit}
}

func (b *SliceBatch[T]) TryAdd(rec T) error {
	if b.max > 0 && len(b.records) >= b.max {
		return ErrBatchFull
	}
	b.records = append(b.records, rec)
	return nil
}

func (b *SliceBatch[T]) Len() int { return len(b.records) }

// Records returns the buffered records in append order.
func (b *SliceBatch[T]) Records() []T { return b.records }

// FuncSink adapts a plain function into a Sink backed by SliceBatch.
type FuncSink[T any] func(ctx context.Context, records []T) error

func (f FuncSink[T]) NewBatch(context.Context) (Batch[T], error) {
	return NewSliceBatch[T](0), nil
}

func (f FuncSink[T]) Send(ctx context.Context, b Batch[T]) error {
	sb, ok := b.(*SliceBatch[T])
	if !ok {
		return fmt.Errorf("unexpected batch type %T", b)
	}
	return f(ctx, sb.Records())
}
