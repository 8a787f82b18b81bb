// Package dispatch routes command invocations to the command table and applies
// one failure policy to every command: report to the diagnostic channel, answer
// the invoker with a generic message, then hand the error back for the
// process-wide boundary.
package dispatch

import (
	"context"
	"log"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"server-herald/pkg/cmd"
	"server-herald/pkg/eventbus"
)

// DefaultFailureMessage is what users see when a command fails.
const DefaultFailureMessage = "Something went wrong while running that command."

var tracer = otel.Tracer("server-herald/internal/dispatch")

// Decoder turns a raw event into an invocation. It returns false for events that
// are not command invocations.
type Decoder func(payload any) (*cmd.Invocation, bool)

// DiagnosticReporter delivers free-form failure reports to operators.
type DiagnosticReporter interface {
	Report(ctx context.Context, text string) error
}

type Option func(*Dispatcher)

// WithDiagnostics enables failure reports. Pass nil to keep them off.
func WithDiagnostics(r DiagnosticReporter) Option {
	return func(d *Dispatcher) { d.diagnostics = r }
}

// WithFailureMessage overrides the generic failure reply.
func WithFailureMessage(msg string) Option {
	return func(d *Dispatcher) {
		if msg != "" {
			d.failureMessage = msg
		}
	}
}

// WithDebug logs ignored and unknown commands.
func WithDebug(on bool) Option {
	return func(d *Dispatcher) { d.debug = on }
}

type Dispatcher struct {
	table          *cmd.Table
	decode         Decoder
	diagnostics    DiagnosticReporter
	failureMessage string
	debug          bool
}

func New(table *cmd.Table, decode Decoder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		table:          table,
		decode:         decode,
		failureMessage: DefaultFailureMessage,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle is an eventbus.Handler. Non-command events and unknown commands are
// ignored; a failing command returns *HandlerError after recovery has run.
func (d *Dispatcher) Handle(ctx context.Context, payload any) error {
	inv, ok := d.decode(payload)
	if !ok {
		return nil
	}

	c, ok := d.table.Get(inv.Command)
	if !ok {
		if d.debug {
			log.Printf("[DEBUG] Ignoring unknown command: %s", inv.Command)
		}
		return nil
	}

	return d.Dispatch(ctx, c, inv)
}

// Dispatch runs c for inv on the caller's goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, c cmd.Command, inv *cmd.Invocation) error {
	ctx, span := tracer.Start(ctx, "command "+c.Name(),
		trace.WithAttributes(
			attribute.String("command.name", c.Name()),
			attribute.String("discord.guild_id", inv.GuildID),
		))
	defer span.End()

	err := run(ctx, c, inv)
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "command failed")

	return d.recoverFailure(ctx, c, inv, err)
}

func (d *Dispatcher) recoverFailure(ctx context.Context, c cmd.Command, inv *cmd.Invocation, err error) error {
	herr := &HandlerError{
		Command: c.Name(),
		GuildID: inv.GuildID,
		Options: inv.Options,
		Err:     err,
	}

	if d.diagnostics != nil {
		report := newErrorReport(herr)
		if derr := safeReport(ctx, d.diagnostics, report.String()); derr != nil {
			log.Printf("[WARN] Failed to deliver diagnostic for /%s: %v", c.Name(), derr)
		}
	}

	if inv.Reply != nil {
		if rerr := cmd.Respond(ctx, inv.Reply, d.failureMessage); rerr != nil {
			log.Printf("[WARN] Failed to send failure reply for /%s: %v", c.Name(), rerr)
		}
	}

	return herr
}

func run(ctx context.Context, c cmd.Command, inv *cmd.Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &eventbus.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return c.Run(ctx, inv)
}

func safeReport(ctx context.Context, r DiagnosticReporter, text string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &eventbus.PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	return r.Report(ctx, text)
}
