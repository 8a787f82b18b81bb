package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestBus_PublishInRegistrationOrder(t *testing.T) {
	b := New(nil)
	var got []int

	for i := 1; i <= 3; i++ {
		n := i
		b.Subscribe("tick", func(_ context.Context, _ any) error {
			got = append(got, n)
			return nil
		})
	}

	if ran := b.Publish(context.Background(), "tick", nil); ran != 3 {
		t.Fatalf("expected 3 handlers to run, got %d", ran)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestBus_PayloadOnlyToMatchingKind(t *testing.T) {
	b := New(nil)
	var got any
	b.Subscribe("message", func(_ context.Context, p any) error {
		got = p
		return nil
	})
	b.Subscribe("other", func(_ context.Context, _ any) error {
		t.Error("handler for another kind was invoked")
		return nil
	})

	b.Publish(context.Background(), "message", "hello")
	if got != "hello" {
		t.Errorf("expected payload hello, got %v", got)
	}
	if ran := b.Publish(context.Background(), "nobody", 1); ran != 0 {
		t.Errorf("expected no handlers for unknown kind, got %d", ran)
	}
}

func TestBus_FailureIsolation(t *testing.T) {
	boom := errors.New("boom")
	var mu sync.Mutex
	var reported []error

	b := New(func(kind Kind, err error) {
		if kind != "evt" {
			t.Errorf("unexpected kind %s", kind)
		}
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	})

	lastRan := false
	b.Subscribe("evt", func(_ context.Context, _ any) error { return boom })
	b.Subscribe("evt", func(_ context.Context, _ any) error { panic("kaboom") })
	b.Subscribe("evt", func(_ context.Context, _ any) error {
		lastRan = true
		return nil
	})

	b.Publish(context.Background(), "evt", nil)

	if !lastRan {
		t.Fatal("handler after failing handlers did not run")
	}
	if len(reported) != 2 {
		t.Fatalf("expected 2 reported errors, got %d", len(reported))
	}
	if !errors.Is(reported[0], boom) {
		t.Errorf("expected first error to be boom, got %v", reported[0])
	}
	var pe *PanicError
	if !errors.As(reported[1], &pe) || pe.Value != "kaboom" {
		t.Errorf("expected PanicError(kaboom), got %v", reported[1])
	}
}

func TestBus_NoDeliveryBeforeSubscribe(t *testing.T) {
	b := New(nil)
	calls := 0
	b.Publish(context.Background(), "evt", nil)
	b.Subscribe("evt", func(_ context.Context, _ any) error {
		calls++
		return nil
	})
	if calls != 0 {
		t.Fatalf("handler saw an event published before it subscribed")
	}
	b.Publish(context.Background(), "evt", nil)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if b.Subscribers("evt") != 1 {
		t.Errorf("expected 1 subscriber, got %d", b.Subscribers("evt"))
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	b := New(nil)
	var mu sync.Mutex
	count := 0
	b.Subscribe("evt", func(_ context.Context, _ any) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(context.Background(), "evt", nil)
		}()
	}
	wg.Wait()

	if count != 50 {
		t.Errorf("expected 50 deliveries, got %d", count)
	}
}
