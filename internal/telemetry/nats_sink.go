package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"server-herald/pkg/batch"
)

const flushTimeout = 5 * time.Second

// NATSSink publishes every batch as one JSON array message. A batch never grows
// past the server's max payload; records that do not fit are refused.
type NATSSink struct {
	nc       *nats.Conn
	subject  string
	maxBytes int
}

func NewNATSSink(nc *nats.Conn, subject string) *NATSSink {
	return &NATSSink{nc: nc, subject: subject, maxBytes: int(nc.MaxPayload())}
}

func (s *NATSSink) NewBatch(context.Context) (batch.Batch[Record], error) {
	if s.nc.IsClosed() {
		return nil, nats.ErrConnectionClosed
	}
	return newJSONBatch(s.maxBytes), nil
}

func (s *NATSSink) Send(ctx context.Context, b batch.Batch[Record]) error {
	jb, ok := b.(*jsonBatch)
	if !ok {
		return fmt.Errorf("unexpected batch type %T", b)
	}
	if err := s.nc.Publish(s.subject, jb.payload()); err != nil {
		return fmt.Errorf("publish to %s: %w", s.subject, err)
	}
	if _, ok := ctx.Deadline(); ok {
		return s.nc.FlushWithContext(ctx)
	}
	return s.nc.FlushTimeout(flushTimeout)
}

// jsonBatch holds pre-encoded records and tracks the size of the final array.
type jsonBatch struct {
	maxBytes int
	size     int
	records  []json.RawMessage
}

func newJSONBatch(maxBytes int) *jsonBatch {
	return &jsonBatch{maxBytes: maxBytes, size: 2} // "[]"
}

func (b *jsonBatch) TryAdd(rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	added := len(raw)
	if len(b.records) > 0 {
		added++ // comma
	}
	if b.maxBytes > 0 && b.size+added > b.maxBytes {
		return batch.ErrBatchFull
	}
	b.records = append(b.records, raw)
	b.size += added
	return nil
}

func (b *jsonBatch) Len() int { return len(b.records) }

func (b *jsonBatch) payload() []byte {
	var buf bytes.Buffer
	buf.Grow(b.size)
	buf.WriteByte('[')
	for i, raw := range b.records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
