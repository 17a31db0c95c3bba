package observable

import (
	"reflect"
	"sync"

	"github.com/bft-labs/phasekit/pkg/log"
)

// Handle identifies a subscribed listener so that it can later be removed.
type Handle uint64

// Mutable is an optional capability for values that can report in-place
// mutation. When a Value takes ownership of a T implementing Mutable[T],
// it subscribes to the value's mutation reports and forwards them to its
// own listeners, so structural replacement and in-place mutation surface
// through the same channel. OnMutate returns a cancel function the
// container calls when it releases the value.
type Mutable[T any] interface {
	OnMutate(fn func(old, new T)) (cancel func())
}

// Option configures a Value.
type Option[T any] func(*Value[T])

// WithEquality sets the equality rule used by Set to short-circuit
// no-op writes. Defaults to reflect.DeepEqual.
func WithEquality[T any](eq func(a, b T) bool) Option[T] {
	return func(v *Value[T]) {
		v.eq = eq
	}
}

// WithLogger sets the logger used to report panicking listeners.
// Defaults to a no-op logger.
func WithLogger[T any](logger log.Logger) Option[T] {
	return func(v *Value[T]) {
		v.logger = logger
	}
}

type subscription[T any] struct {
	id Handle
	fn func(old, new T)
}

// Value holds a current value of type T and notifies subscribers with
// (old, new) pairs whenever the value is replaced, or whenever the held
// value reports an internal mutation through the Mutable capability.
//
// All methods are safe for concurrent use. Listeners run outside the
// internal lock on the goroutine that triggered the change.
type Value[T any] struct {
	mu     sync.Mutex
	logger log.Logger
	cur    T
	eq     func(a, b T) bool
	subs   []subscription[T]
	nextID Handle
	unhook func()
}

// New creates a Value holding initial. If initial implements Mutable[T],
// the container subscribes to its mutation reports immediately.
func New[T any](initial T, opts ...Option[T]) *Value[T] {
	v := &Value[T]{
		logger: log.NewNoopLogger(),
		cur:    initial,
		eq: func(a, b T) bool {
			return reflect.DeepEqual(a, b)
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	v.mu.Lock()
	v.hook(initial)
	v.mu.Unlock()
	return v
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set replaces the current value and notifies all subscribers with
// (old, new). If new is equal to the current value under the container's
// equality rule, Set is a no-op and nothing is notified. The mutation
// hook is moved from the old value to the new one.
func (v *Value[T]) Set(new T) {
	v.mu.Lock()
	old := v.cur
	if v.eq(old, new) {
		v.mu.Unlock()
		return
	}
	if v.unhook != nil {
		v.unhook()
		v.unhook = nil
	}
	v.cur = new
	v.hook(new)
	snapshot := v.snapshot()
	v.mu.Unlock()

	v.notify(snapshot, old, new)
}

// Subscribe registers a change listener invoked with (old, new) on every
// replacement and every reported internal mutation.
func (v *Value[T]) Subscribe(fn func(old, new T)) Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	h := v.nextID
	v.subs = append(v.subs, subscription[T]{id: h, fn: fn})
	return h
}

// Unsubscribe removes a previously registered listener.
func (v *Value[T]) Unsubscribe(h Handle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.subs {
		if s.id == h {
			v.subs = append(v.subs[:i], v.subs[i+1:]...)
			return
		}
	}
}

// hook subscribes to val's mutation reports when it implements
// Mutable[T]. Caller must hold v.mu.
func (v *Value[T]) hook(val T) {
	m, ok := any(val).(Mutable[T])
	if !ok {
		return
	}
	v.unhook = m.OnMutate(v.forward)
}

// forward relays an internal mutation reported by the held value to all
// listeners, with whatever (old, new) the value itself reports.
func (v *Value[T]) forward(old, new T) {
	v.mu.Lock()
	snapshot := v.snapshot()
	v.mu.Unlock()
	v.notify(snapshot, old, new)
}

// snapshot copies the subscriber list. Caller must hold v.mu.
func (v *Value[T]) snapshot() []subscription[T] {
	return append([]subscription[T]{}, v.subs...)
}

func (v *Value[T]) notify(subs []subscription[T], old, new T) {
	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					v.logger.Error("listener panic", log.Any("panic", r))
				}
			}()
			s.fn(old, new)
		}()
	}
}
