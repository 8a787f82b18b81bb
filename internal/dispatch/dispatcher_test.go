package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"server-herald/pkg/cmd"
	"server-herald/pkg/eventbus"
)

type funcCommand struct {
	name string
	run  func(ctx context.Context, inv *cmd.Invocation) error
}

func (f *funcCommand) Name() string        { return f.name }
func (f *funcCommand) Description() string { return "test command " + f.name }
func (f *funcCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	return f.run(ctx, inv)
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []string
	edits   []string
}

func (r *fakeReplier) Reply(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, text)
	return nil
}

func (r *fakeReplier) EditReply(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, text)
	return nil
}

func (r *fakeReplier) Replied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.replies) > 0
}

type fakeDiagnostics struct {
	reports []string
	err     error
}

func (f *fakeDiagnostics) Report(_ context.Context, text string) error {
	f.reports = append(f.reports, text)
	return f.err
}

// decodeInvocation accepts only *cmd.Invocation payloads.
func decodeInvocation(payload any) (*cmd.Invocation, bool) {
	inv, ok := payload.(*cmd.Invocation)
	return inv, ok
}

func newTable(t *testing.T, cmds ...cmd.Command) *cmd.Table {
	t.Helper()
	table, err := cmd.NewTable(cmds...)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestHandle_CaseInsensitiveDispatch(t *testing.T) {
	called := false
	ping := &funcCommand{name: "ping", run: func(ctx context.Context, inv *cmd.Invocation) error {
		called = true
		return cmd.Respond(ctx, inv.Reply, "pong")
	}}
	d := New(newTable(t, ping), decodeInvocation)

	r := &fakeReplier{}
	if err := d.Handle(context.Background(), &cmd.Invocation{Command: "PING", Reply: r}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !called {
		t.Fatal("ping handler was not invoked for PING")
	}
	if len(r.replies) != 1 || r.replies[0] != "pong" {
		t.Errorf("unexpected replies %v", r.replies)
	}
}

func TestHandle_UnknownCommandHasNoSideEffects(t *testing.T) {
	diag := &fakeDiagnostics{}
	d := New(newTable(t, &funcCommand{name: "ping", run: func(context.Context, *cmd.Invocation) error {
		t.Error("unexpected handler call")
		return nil
	}}), decodeInvocation, WithDiagnostics(diag), WithDebug(true))

	r := &fakeReplier{}
	if err := d.Handle(context.Background(), &cmd.Invocation{Command: "deploy", Reply: r}); err != nil {
		t.Fatalf("expected nil for unknown command, got %v", err)
	}
	if len(r.replies)+len(r.edits) != 0 {
		t.Errorf("unknown command produced output: %v %v", r.replies, r.edits)
	}
	if len(diag.reports) != 0 {
		t.Errorf("unknown command produced diagnostics: %v", diag.reports)
	}
}

func TestHandle_IgnoresNonCommandEvents(t *testing.T) {
	d := New(newTable(t), decodeInvocation)
	if err := d.Handle(context.Background(), "button click"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestHandle_FailureWithoutDiagnostics(t *testing.T) {
	boom := errors.New("boom")
	broken := &funcCommand{name: "broken", run: func(context.Context, *cmd.Invocation) error { return boom }}
	d := New(newTable(t, broken), decodeInvocation)

	r := &fakeReplier{}
	err := d.Handle(context.Background(), &cmd.Invocation{Command: "broken", GuildID: "g1", Reply: r})

	var herr *HandlerError
	if !errors.As(err, &herr) || !errors.Is(err, boom) {
		t.Fatalf("expected HandlerError wrapping boom, got %v", err)
	}
	if herr.Command != "broken" || herr.GuildID != "g1" {
		t.Errorf("unexpected HandlerError %+v", herr)
	}
	if len(r.replies) != 1 || r.replies[0] != DefaultFailureMessage {
		t.Errorf("expected one generic reply, got %v", r.replies)
	}
	if len(r.edits) != 0 {
		t.Errorf("expected no edits, got %v", r.edits)
	}
}

func TestHandle_FailureAfterReplyEdits(t *testing.T) {
	slow := &funcCommand{name: "slow", run: func(ctx context.Context, inv *cmd.Invocation) error {
		if err := inv.Reply.Reply(ctx, "working..."); err != nil {
			return err
		}
		return errors.New("gave up")
	}}
	d := New(newTable(t, slow), decodeInvocation, WithFailureMessage("Nope."))

	r := &fakeReplier{}
	_ = d.Handle(context.Background(), &cmd.Invocation{Command: "slow", Reply: r})

	if len(r.replies) != 1 || r.replies[0] != "working..." {
		t.Errorf("failure path sent an extra reply: %v", r.replies)
	}
	if len(r.edits) != 1 || r.edits[0] != "Nope." {
		t.Errorf("expected one edit with the failure message, got %v", r.edits)
	}
}

func TestHandle_DiagnosticsReportAndFailureDoesNotMask(t *testing.T) {
	boom := errors.New("boom")
	diag := &fakeDiagnostics{err: errors.New("channel gone")}
	broken := &funcCommand{name: "broken", run: func(context.Context, *cmd.Invocation) error { return boom }}
	d := New(newTable(t, broken), decodeInvocation, WithDiagnostics(diag))

	r := &fakeReplier{}
	err := d.Handle(context.Background(), &cmd.Invocation{
		Command: "broken",
		Options: map[string]any{"target": "everyone"},
		Reply:   r,
	})

	if !errors.Is(err, boom) {
		t.Fatalf("diagnostic failure masked the original error: %v", err)
	}
	if len(diag.reports) != 1 {
		t.Fatalf("expected 1 diagnostic report, got %d", len(diag.reports))
	}
	report := diag.reports[0]
	for _, want := range []string{"`broken`", `"target":"everyone"`, "boom"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if len(r.replies) != 1 {
		t.Errorf("invoker was not answered after diagnostic failure: %v", r.replies)
	}
}

type panickyDiagnostics struct{}

func (panickyDiagnostics) Report(context.Context, string) error { panic("reporter bug") }

func TestHandle_PanicsAreContained(t *testing.T) {
	crash := &funcCommand{name: "crash", run: func(context.Context, *cmd.Invocation) error { panic("nil map") }}
	d := New(newTable(t, crash), decodeInvocation, WithDiagnostics(panickyDiagnostics{}))

	r := &fakeReplier{}
	err := d.Handle(context.Background(), &cmd.Invocation{Command: "crash", Reply: r})

	var pe *eventbus.PanicError
	if !errors.As(err, &pe) || pe.Value != "nil map" {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if len(r.replies) != 1 {
		t.Errorf("expected generic reply after panic, got %v", r.replies)
	}
}

func TestHandle_NilReplierIsTolerated(t *testing.T) {
	broken := &funcCommand{name: "broken", run: func(context.Context, *cmd.Invocation) error { return errors.New("x") }}
	d := New(newTable(t, broken), decodeInvocation)
	if err := d.Handle(context.Background(), &cmd.Invocation{Command: "broken"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDispatcher_ThroughBusReachesBoundary(t *testing.T) {
	var mu sync.Mutex
	var surfaced []error
	bus := eventbus.New(func(_ eventbus.Kind, err error) {
		mu.Lock()
		surfaced = append(surfaced, err)
		mu.Unlock()
	})

	broken := &funcCommand{name: "broken", run: func(context.Context, *cmd.Invocation) error { return errors.New("boom") }}
	d := New(newTable(t, broken), decodeInvocation)
	bus.Subscribe("InteractionCreate", d.Handle)

	r := &fakeReplier{}
	bus.Publish(context.Background(), "InteractionCreate", &cmd.Invocation{Command: "broken", Reply: r})

	if len(surfaced) != 1 {
		t.Fatalf("expected 1 surfaced error, got %d", len(surfaced))
	}
	var herr *HandlerError
	if !errors.As(surfaced[0], &herr) {
		t.Errorf("expected HandlerError at the boundary, got %v", surfaced[0])
	}
	if len(r.replies) != 1 || r.replies[0] != DefaultFailureMessage {
		t.Errorf("expected generic reply, got %v", r.replies)
	}
}

func TestDispatcher_SlowCommandDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	slow := &funcCommand{name: "slow", run: func(context.Context, *cmd.Invocation) error {
		close(started)
		<-release
		return nil
	}}
	fast := &funcCommand{name: "fast", run: func(context.Context, *cmd.Invocation) error { return nil }}
	d := New(newTable(t, slow, fast), decodeInvocation)

	done := make(chan struct{})
	go func() {
		_ = d.Handle(context.Background(), &cmd.Invocation{Command: "slow", Reply: &fakeReplier{}})
		close(done)
	}()
	<-started

	fastDone := make(chan error, 1)
	go func() {
		fastDone <- d.Handle(context.Background(), &cmd.Invocation{Command: "fast", Reply: &fakeReplier{}})
	}()

	select {
	case err := <-fastDone:
		if err != nil {
			t.Fatalf("fast: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fast command waited for slow command")
	}

	close(release)
	<-done
}

func TestErrorReport_EmptyOptions(t *testing.T) {
	r := newErrorReport(&HandlerError{Command: "ping", Err: errors.New("x")})
	if r.Options != "{}" {
		t.Errorf("Options = %q, want {}", r.Options)
	}
}
