package event

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/phasekit/pkg/log"
)

// Promise errors.
var (
	// ErrUnresolved is returned when reading a promise's value before it
	// resolved. This is always a caller bug.
	ErrUnresolved = errors.New("phasekit: promise not resolved")

	// ErrCanceled is returned to awaiters when a promise is canceled or
	// reset while they are suspended.
	ErrCanceled = errors.New("phasekit: promise canceled")
)

type disposition uint8

const (
	dispPending disposition = iota
	dispResolved
	dispCanceled
)

func (d disposition) String() string {
	switch d {
	case dispPending:
		return "pending"
	case dispResolved:
		return "resolved"
	case dispCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type listener[T any] struct {
	id Handle
	fn func(T)
}

// Promise is a one-shot event carrying a typed result. It is built on
// Event: untyped callbacks go through the inner event, typed callbacks
// additionally receive the resolved value, and Await exposes the result
// as a suspension point.
//
// A promise has three dispositions: pending, resolved, and canceled.
// Resolved and canceled are mutually exclusive and permanent until Reset.
type Promise[T any] struct {
	mu     sync.Mutex
	logger log.Logger
	ev     *Event
	disp   disposition
	value  T
	done   chan struct{}
	typed  []listener[T]
	nextID Handle
}

// NewPromise creates a pending promise.
func NewPromise[T any](opts ...Option) *Promise[T] {
	c := buildConfig(opts)
	return &Promise[T]{
		logger: c.logger,
		ev:     &Event{logger: c.logger},
		done:   make(chan struct{}),
	}
}

// Register adds an untyped callback, with the same replay contract as
// Event.Register: it is invoked immediately if the promise has already
// resolved. Cancellation does not invoke callbacks.
func (p *Promise[T]) Register(fn func()) Handle {
	return p.ev.Register(fn)
}

// Unregister removes a still-pending untyped callback.
func (p *Promise[T]) Unregister(h Handle) {
	p.ev.Unregister(h)
}

// Listen adds a typed callback receiving the resolved value. If the
// promise has already resolved, fn is invoked immediately with the
// stored value and the zero Handle is returned.
func (p *Promise[T]) Listen(fn func(T)) Handle {
	p.mu.Lock()
	if p.disp == dispResolved {
		v := p.value
		p.mu.Unlock()
		invokeTyped(p.logger, fn, v)
		return 0
	}
	p.nextID++
	h := p.nextID
	p.typed = append(p.typed, listener[T]{id: h, fn: fn})
	p.mu.Unlock()
	return h
}

// UnregisterListener removes a still-pending typed callback.
func (p *Promise[T]) UnregisterListener(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, l := range p.typed {
		if l.id == h {
			p.typed = append(p.typed[:i], p.typed[i+1:]...)
			return
		}
	}
}

// Resolve stores v, unblocks awaiters, fires untyped callbacks, then
// invokes typed callbacks in registration order. Resolving a promise
// that already resolved or was canceled is a logged no-op.
func (p *Promise[T]) Resolve(v T) {
	p.mu.Lock()
	if p.disp != dispPending {
		disp := p.disp
		p.mu.Unlock()
		p.logger.Warn("promise completed twice",
			log.String("disposition", disp.String()),
		)
		return
	}
	p.disp = dispResolved
	p.value = v
	typed := p.typed
	p.typed = nil
	close(p.done)
	p.mu.Unlock()

	p.ev.Fire()
	for _, l := range typed {
		invokeTyped(p.logger, l.fn, v)
	}
}

// Cancel moves a pending promise to the canceled disposition. Awaiters
// receive ErrCanceled; registered callbacks are not invoked. Canceling a
// promise that already completed is a logged no-op, and a Resolve after
// Cancel is rejected the same way.
func (p *Promise[T]) Cancel() {
	p.mu.Lock()
	if p.disp != dispPending {
		disp := p.disp
		p.mu.Unlock()
		p.logger.Warn("promise completed twice",
			log.String("disposition", disp.String()),
		)
		return
	}
	p.disp = dispCanceled
	close(p.done)
	p.mu.Unlock()
}

// Value returns the resolved value. It fails with ErrUnresolved while the
// promise is pending and ErrCanceled after cancellation; it never returns
// a silent default.
func (p *Promise[T]) Value() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	switch p.disp {
	case dispResolved:
		return p.value, nil
	case dispCanceled:
		return zero, ErrCanceled
	default:
		return zero, ErrUnresolved
	}
}

// Await suspends the calling goroutine until the promise completes or ctx
// is done. It returns the resolved value, ErrCanceled if the promise was
// canceled or reset while waiting, or ctx.Err().
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-done:
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disp == dispResolved {
		return p.value, nil
	}
	return zero, ErrCanceled
}

// Done returns a channel closed when the promise completes. After Reset a
// new channel is returned.
func (p *Promise[T]) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Resolved reports whether the promise holds a value.
func (p *Promise[T]) Resolved() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disp == dispResolved
}

// Canceled reports whether the promise was canceled.
func (p *Promise[T]) Canceled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disp == dispCanceled
}

// Reset atomically clears the value, the disposition, and all pending
// callbacks, returning the promise to a fresh pending state. Awaiters
// still suspended on the previous generation are unblocked with
// ErrCanceled rather than left hanging.
func (p *Promise[T]) Reset() {
	p.mu.Lock()
	if p.disp == dispPending {
		close(p.done)
	}
	p.disp = dispPending
	var zero T
	p.value = zero
	p.typed = nil
	p.done = make(chan struct{})
	p.mu.Unlock()

	p.ev.Reset()
}

func invokeTyped[T any](logger log.Logger, fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("listener panic", log.Any("panic", r))
		}
	}()
	fn(v)
}
