package event

import (
	"sync"

	"github.com/bft-labs/phasekit/pkg/log"
)

// Handle identifies a registered callback so that it can later be removed.
// Removal matches by handle identity, not callback equality, so the same
// function may be registered more than once.
type Handle uint64

// config holds optional settings shared by Event and Promise constructors.
type config struct {
	logger log.Logger
}

// Option configures an Event or Promise.
type Option func(*config)

// WithLogger sets the logger used to report anomalies such as double
// fires and panicking listeners. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func buildConfig(opts []Option) config {
	c := config{logger: log.NewNoopLogger()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type registration struct {
	id Handle
	fn func()
}

// Event is a one-shot notification. It fires at most once: callbacks
// registered before Fire are invoked in registration order when it fires,
// and callbacks registered afterward are invoked immediately.
//
// All methods are safe for concurrent use. Callbacks are always invoked
// outside the internal lock, so a callback may re-enter the event.
type Event struct {
	mu      sync.Mutex
	logger  log.Logger
	fired   bool
	nextID  Handle
	pending []registration
}

// NewEvent creates an unfired event.
func NewEvent(opts ...Option) *Event {
	c := buildConfig(opts)
	return &Event{logger: c.logger}
}

// Register adds a callback. If the event has already fired, fn is invoked
// immediately on the calling goroutine and the zero Handle is returned;
// otherwise fn is queued and a Handle usable with Unregister is returned.
func (e *Event) Register(fn func()) Handle {
	e.mu.Lock()
	if e.fired {
		e.mu.Unlock()
		invoke(e.logger, fn)
		return 0
	}
	e.nextID++
	h := e.nextID
	e.pending = append(e.pending, registration{id: h, fn: fn})
	e.mu.Unlock()
	return h
}

// Unregister removes a still-pending callback. Callbacks that have
// already been invoked are unaffected.
func (e *Event) Unregister(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.pending {
		if r.id == h {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			return
		}
	}
}

// Fire marks the event fired and invokes every pending callback in
// registration order. Firing twice is a logged no-op, not an error.
//
// The pending list is snapshotted under the lock and drained outside it:
// callbacks registered while firing is in progress are invoked
// immediately by Register and never twice.
func (e *Event) Fire() {
	e.mu.Lock()
	if e.fired {
		e.mu.Unlock()
		e.logger.Warn("event fired twice")
		return
	}
	e.fired = true
	snapshot := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, r := range snapshot {
		invoke(e.logger, r.fn)
	}
}

// Fired reports whether the event has fired.
func (e *Event) Fired() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fired
}

// Reset returns the event to its initial unfired state, dropping any
// pending callbacks. Callbacks registered afterward behave as if the
// event had never fired.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fired = false
	e.pending = nil
}

// invoke runs fn, recovering and logging a panic so one failing listener
// cannot block the others.
func invoke(logger log.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("listener panic", log.Any("panic", r))
		}
	}()
	fn()
}
