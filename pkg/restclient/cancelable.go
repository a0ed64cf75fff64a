package restclient

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Package restclient implements the console API request core: a cancelable
// request primitive plus an executor that builds URLs, resolves credentials,
// runs interceptor chains, and classifies responses.

// CancelError is the settlement error of a cancelled request. Callers use it
// (via IsCancelled) to tell "I cancelled this" apart from an actual failure.
type CancelError struct {
	Reason string
}

func (e *CancelError) Error() string {
	if e.Reason == "" {
		return "request aborted"
	}
	return e.Reason
}

// Cancelled always reports true; the type itself is the marker.
func (e *CancelError) Cancelled() bool { return true }

// IsCancelled reports whether err (or anything it wraps) is a CancelError.
func IsCancelled(err error) bool {
	var ce *CancelError
	return errors.As(err, &ce)
}

type requestState int

const (
	statePending requestState = iota
	stateResolved
	stateRejected
	stateCancelled
)

// CancelableRequest represents one in-flight asynchronous exchange. It starts
// pending and settles exactly once into resolved, rejected, or cancelled;
// the first transition wins and every later one is a silent no-op.
type CancelableRequest[T any] struct {
	mu       sync.Mutex
	state    requestState
	value    T
	err      error
	done     chan struct{}
	handlers []func()
	log      *zap.SugaredLogger
}

// NewCancelable builds a pending request and runs exec against it in its own
// goroutine. exec is expected to eventually call Resolve or Reject; a caller
// holding the returned value may Cancel it at any point.
func NewCancelable[T any](log *zap.SugaredLogger, exec func(p *CancelableRequest[T])) *CancelableRequest[T] {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p := &CancelableRequest[T]{
		done: make(chan struct{}),
		log:  log,
	}
	go exec(p)
	return p
}

// Resolve settles the request with value. No-op once settled.
func (p *CancelableRequest[T]) Resolve(value T) {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return
	}
	p.state = stateResolved
	p.value = value
	p.handlers = nil
	p.mu.Unlock()
	close(p.done)
}

// Reject settles the request with err. No-op once settled.
func (p *CancelableRequest[T]) Reject(err error) {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return
	}
	p.state = stateRejected
	p.err = err
	p.handlers = nil
	p.mu.Unlock()
	close(p.done)
}

// OnCancel registers cleanup to run if the request is cancelled. Handlers
// registered after the request has settled are discarded, never invoked.
func (p *CancelableRequest[T]) OnCancel(handler func()) {
	if handler == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != statePending {
		return
	}
	p.handlers = append(p.handlers, handler)
}

// Cancel aborts a pending request: it runs every registered cancellation
// handler synchronously, then settles the request with a CancelError.
// A panicking handler is recovered and logged so it cannot block the rest.
// No-op once settled.
func (p *CancelableRequest[T]) Cancel() {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return
	}
	p.state = stateCancelled
	p.err = &CancelError{Reason: "Request aborted"}
	handlers := p.handlers
	p.handlers = nil
	p.mu.Unlock()

	for _, h := range handlers {
		p.runCancelHandler(h)
	}
	close(p.done)
}

func (p *CancelableRequest[T]) runCancelHandler(h func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("cancellation handler panicked", "panic", r)
		}
	}()
	h()
}

// Await blocks until the request settles and returns its value or error.
// If ctx expires first the request is cancelled, so Await(ctx) is also the
// way callers attach a timeout to a call.
func (p *CancelableRequest[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.Cancel()
		<-p.done
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.err
}

// IsPending reports whether the request has not settled yet.
func (p *CancelableRequest[T]) IsPending() bool { return p.is(statePending) }

// IsResolved reports whether the request settled successfully.
func (p *CancelableRequest[T]) IsResolved() bool { return p.is(stateResolved) }

// IsRejected reports whether the request settled with a failure.
func (p *CancelableRequest[T]) IsRejected() bool { return p.is(stateRejected) }

// IsCancelled reports whether the request was cancelled.
func (p *CancelableRequest[T]) IsCancelled() bool { return p.is(stateCancelled) }

func (p *CancelableRequest[T]) is(s requestState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == s
}
