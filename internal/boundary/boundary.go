// Package boundary is the process-wide error boundary. Every error no component
// recovered ends up here: it is logged, persisted, and the process keeps running.
package boundary

import (
	"errors"
	"log"
	"time"

	st "server-herald/internal/storagetypes"
	"server-herald/pkg/eventbus"
)

// Sink persists error records.
type Sink interface {
	AppendError(rec st.ErrorRecord) error
}

// attributed is implemented by errors that know which command and guild failed.
type attributed interface {
	CommandName() string
	Guild() string
}

type Boundary struct {
	sink  Sink
	debug bool
	now   func() time.Time
}

// New creates a boundary. sink may be nil, in which case errors are only logged.
func New(sink Sink, debug bool) *Boundary {
	return &Boundary{sink: sink, debug: debug, now: time.Now}
}

// Handle matches eventbus.ErrorHandler.
func (b *Boundary) Handle(kind eventbus.Kind, err error) {
	if err == nil {
		return
	}
	log.Printf("[ERR] %s: %v", kind, err)

	var pe *eventbus.PanicError
	if b.debug && errors.As(err, &pe) {
		log.Printf("[DEBUG] %s", pe.Stack)
	}

	if b.sink == nil {
		return
	}
	rec := st.ErrorRecord{
		Source:   string(kind),
		Message:  err.Error(),
		Datetime: b.now().UTC(),
	}
	var attr attributed
	if errors.As(err, &attr) {
		rec.Command = attr.CommandName()
		rec.GuildID = attr.Guild()
	}
	if serr := b.sink.AppendError(rec); serr != nil {
		log.Printf("[WARN] Failed to persist error record: %v", serr)
	}
}
