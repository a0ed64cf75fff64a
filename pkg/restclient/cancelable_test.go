package restclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCancelableResolves(t *testing.T) {
	p := NewCancelable(nil, func(p *CancelableRequest[string]) {
		p.Resolve("done")
	})

	v, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if v != "done" {
		t.Fatalf("unexpected value: %q", v)
	}
	if !p.IsResolved() || p.IsPending() || p.IsRejected() || p.IsCancelled() {
		t.Fatalf("unexpected state flags after resolve")
	}
}

func TestCancelableFirstTransitionWins(t *testing.T) {
	block := make(chan struct{})
	p := NewCancelable(nil, func(p *CancelableRequest[int]) {
		<-block
	})

	p.Resolve(1)
	p.Reject(errors.New("late"))
	p.Cancel()
	close(block)

	v, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected first resolve to win, got %d", v)
	}
}

func TestCancelRunsHandlersOnceAndRejectsWithCancelError(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	defer close(block)

	var aborts int
	p := NewCancelable(nil, func(p *CancelableRequest[int]) {
		p.OnCancel(func() { aborts++ })
		close(started)
		<-block
	})
	<-started

	p.Cancel()
	p.Cancel()

	_, err := p.Await(context.Background())
	if !IsCancelled(err) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if aborts != 1 {
		t.Fatalf("expected abort handler to run exactly once, ran %d times", aborts)
	}

	// Settling after cancellation must be a silent no-op.
	p.Resolve(9)
	p.Reject(errors.New("late"))
	if !p.IsCancelled() {
		t.Fatalf("state changed after cancellation")
	}
}

func TestCancelSurvivesPanickingHandler(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	defer close(block)

	var ran bool
	p := NewCancelable(nil, func(p *CancelableRequest[int]) {
		p.OnCancel(func() { panic("boom") })
		p.OnCancel(func() { ran = true })
		close(started)
		<-block
	})
	<-started

	p.Cancel()
	if !ran {
		t.Fatalf("handler after the panicking one did not run")
	}
}

func TestOnCancelAfterSettlementIsDiscarded(t *testing.T) {
	p := NewCancelable(nil, func(p *CancelableRequest[int]) {
		p.Resolve(1)
	})
	if _, err := p.Await(context.Background()); err != nil {
		t.Fatalf("Await: %v", err)
	}

	p.OnCancel(func() { t.Fatalf("handler registered after settlement was invoked") })
	p.Cancel()
	if !p.IsResolved() {
		t.Fatalf("resolved request changed state")
	}
}

func TestAwaitContextExpiryCancels(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	p := NewCancelable(nil, func(p *CancelableRequest[int]) {
		<-block
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Await(ctx)
	if !IsCancelled(err) {
		t.Fatalf("expected cancellation error after ctx expiry, got %v", err)
	}
	if !p.IsCancelled() {
		t.Fatalf("request not in cancelled state")
	}
}
