package lifecycle

import (
	"context"
	"fmt"

	"github.com/bft-labs/phasekit/pkg/event"
	"github.com/bft-labs/phasekit/pkg/log"
	"github.com/bft-labs/phasekit/pkg/observable"
)

// Hooks supplies the phase-specific logic a concrete component runs
// during each operation. A nil hook succeeds immediately. Hooks doing
// asynchronous work should honor ctx cancellation.
type Hooks struct {
	Initialize   func(ctx context.Context) error
	Restart      func(ctx context.Context) error
	Uninitialize func(ctx context.Context) error
	FixFault     func(ctx context.Context) error
}

func (h Hooks) forOp(op Op) func(ctx context.Context) error {
	switch op {
	case OpInitialize:
		return h.Initialize
	case OpRestart:
		return h.Restart
	case OpUninitialize:
		return h.Uninitialize
	case OpFixFault:
		return h.FixFault
	default:
		return nil
	}
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger for transition diagnostics. Defaults to a
// no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithGuard narrows the guard for op: the operation is admitted only when
// both the default guard and g accept the current phase. Guards can never
// be loosened beyond the defaults, since the ready-promise bookkeeping
// depends on the default phase invariants.
func WithGuard(op Op, g Guard) Option {
	return func(m *Machine) {
		m.extra[op] = g
	}
}

// Machine is a lifecycle state machine coordinating the phase of a single
// component instance. The current phase is held in an observable value
// container; the "became ready" signal is a one-shot promise resolved
// when the machine reaches PhaseInitialized and reset when it returns to
// PhaseUninitialized.
//
// Operations may be invoked from multiple goroutines. The guard check and
// the transient-phase write are intentionally not one atomic region,
// matching the admission model described in the package documentation:
// two truly simultaneous conflicting transitions are a caller error, not
// a condition the engine resolves.
type Machine struct {
	phase  *observable.Value[Phase]
	ready  *event.Promise[struct{}]
	hooks  Hooks
	extra  map[Op]Guard
	logger log.Logger
}

// New creates a machine in PhaseUninitialized with the given hooks.
func New(hooks Hooks, opts ...Option) *Machine {
	m := &Machine{
		hooks:  hooks,
		extra:  make(map[Op]Guard),
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.phase = observable.New(PhaseUninitialized,
		observable.WithEquality[Phase](func(a, b Phase) bool { return a == b }),
		observable.WithLogger[Phase](m.logger),
	)
	m.ready = event.NewPromise[struct{}](event.WithLogger(m.logger))
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase.Get()
}

// Subscribe registers a listener invoked with (old, new) on every phase
// change, including transient phases.
func (m *Machine) Subscribe(fn func(old, new Phase)) observable.Handle {
	return m.phase.Subscribe(fn)
}

// Unsubscribe removes a phase listener.
func (m *Machine) Unsubscribe(h observable.Handle) {
	m.phase.Unsubscribe(h)
}

// Ready returns the promise resolved each time the machine reaches
// PhaseInitialized and reset each time it returns to PhaseUninitialized.
func (m *Machine) Ready() *event.Promise[struct{}] {
	return m.ready
}

// OnReady registers a callback invoked once per Initialize success. If
// the machine is already initialized, fn runs immediately.
func (m *Machine) OnReady(fn func()) event.Handle {
	return m.ready.Register(fn)
}

// AwaitReady suspends until the machine becomes ready, the ready promise
// is canceled, or ctx is done.
func (m *Machine) AwaitReady(ctx context.Context) error {
	_, err := m.ready.Await(ctx)
	return err
}

// CanInitialize reports whether Initialize would be admitted.
func (m *Machine) CanInitialize() bool { return m.allowed(OpInitialize, m.phase.Get()) }

// CanRestart reports whether Restart would be admitted.
func (m *Machine) CanRestart() bool { return m.allowed(OpRestart, m.phase.Get()) }

// CanUninitialize reports whether Uninitialize would be admitted.
func (m *Machine) CanUninitialize() bool { return m.allowed(OpUninitialize, m.phase.Get()) }

// CanFixFault reports whether FixFault would be admitted.
func (m *Machine) CanFixFault() bool { return m.allowed(OpFixFault, m.phase.Get()) }

// Initialize runs the initialize transition on the calling goroutine:
// Uninitialized -> Initializing -> Initialized. A guard rejection is a
// logged no-op; a hook error drives the machine to PhaseFaulted and is
// returned to the caller.
func (m *Machine) Initialize(ctx context.Context) error {
	return m.transition(ctx, OpInitialize)
}

// Restart runs the restart transition: back to Uninitialized through
// PhaseRestarting, from Initialized, Uninitialized, or Faulted.
func (m *Machine) Restart(ctx context.Context) error {
	return m.transition(ctx, OpRestart)
}

// Uninitialize runs the teardown transition: Initialized or Faulted ->
// Uninitializing -> Uninitialized.
func (m *Machine) Uninitialize(ctx context.Context) error {
	return m.transition(ctx, OpUninitialize)
}

// FixFault runs the recovery transition: Faulted -> Fixing ->
// Uninitialized. The engine never retries on its own; recovering from a
// failed transition is the caller's responsibility via this operation.
func (m *Machine) FixFault(ctx context.Context) error {
	return m.transition(ctx, OpFixFault)
}

// InitializeAsync runs Initialize without blocking the caller. The
// returned channel delivers the transition's outcome exactly once; hook
// failures surface there instead of an immediate return.
func (m *Machine) InitializeAsync(ctx context.Context) <-chan error {
	return m.async(ctx, OpInitialize)
}

// RestartAsync runs Restart without blocking the caller.
func (m *Machine) RestartAsync(ctx context.Context) <-chan error {
	return m.async(ctx, OpRestart)
}

// UninitializeAsync runs Uninitialize without blocking the caller.
func (m *Machine) UninitializeAsync(ctx context.Context) <-chan error {
	return m.async(ctx, OpUninitialize)
}

// FixFaultAsync runs FixFault without blocking the caller.
func (m *Machine) FixFaultAsync(ctx context.Context) <-chan error {
	return m.async(ctx, OpFixFault)
}

// Close is the fail-safe teardown for a machine whose owner is going
// away. If the machine is outside PhaseUninitialized it attempts an
// Uninitialize transition, and it cancels the ready promise if it was
// never resolved so suspended waiters are unblocked rather than left
// hanging. A closed machine is spent: cancellation is permanent, so the
// machine should not be driven again after Close.
func (m *Machine) Close(ctx context.Context) error {
	var err error
	if m.phase.Get() != PhaseUninitialized {
		err = m.transition(ctx, OpUninitialize)
	}
	if !m.ready.Resolved() {
		m.ready.Cancel()
	}
	return err
}

// allowed applies the default guard for op, then any WithGuard narrowing.
func (m *Machine) allowed(op Op, p Phase) bool {
	if !transitions[op].guard(p) {
		return false
	}
	if g, ok := m.extra[op]; ok && !g(p) {
		return false
	}
	return true
}

// transition is the shared engine behind both the blocking and async call
// forms:
//
//  1. check the guard against the current phase; rejection is a warning
//     and a no-op
//  2. write the transient phase (this alone notifies phase observers)
//  3. run the operation's hook
//  4. on success write the success phase, then update the ready promise
//  5. on hook failure write PhaseFaulted and return the error
//
// Observers of the phase container are always notified before the ready
// promise changes for the same transition.
func (m *Machine) transition(ctx context.Context, op Op) error {
	spec := transitions[op]

	cur := m.phase.Get()
	if !m.allowed(op, cur) {
		m.logger.Warn("transition rejected",
			log.Stringer("op", op),
			log.Stringer("phase", cur),
		)
		return nil
	}

	m.phase.Set(spec.transient)

	if hook := m.hooks.forOp(op); hook != nil {
		if err := hook(ctx); err != nil {
			m.logger.Error("transition hook failed",
				log.Stringer("op", op),
				log.Err(err),
			)
			m.phase.Set(PhaseFaulted)
			return fmt.Errorf("%s hook: %w", op, err)
		}
	}

	m.phase.Set(spec.success)

	switch spec.success {
	case PhaseUninitialized:
		if m.ready.Resolved() {
			m.ready.Reset()
		}
	case PhaseInitialized:
		m.ready.Resolve(struct{}{})
	}

	m.logger.Info("transition complete",
		log.Stringer("op", op),
		log.Stringer("from", cur),
		log.Stringer("to", spec.success),
	)
	return nil
}

func (m *Machine) async(ctx context.Context, op Op) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- m.transition(ctx, op)
		close(ch)
	}()
	return ch
}
