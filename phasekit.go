// Package phasekit gives stateful components a uniform phased lifecycle
// with fire-once notification primitives.
//
// Example usage:
//
//	m := phasekit.New(phasekit.Hooks{
//	    Initialize:   func(ctx context.Context) error { return open(ctx) },
//	    Uninitialize: func(ctx context.Context) error { return close(ctx) },
//	})
//	if err := m.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	m.OnReady(func() { ... })
//
// The building blocks live in sub-packages and can be used on their own:
// [github.com/bft-labs/phasekit/pkg/event] for one-shot events and typed
// promises, [github.com/bft-labs/phasekit/pkg/observable] for observable
// value containers, [github.com/bft-labs/phasekit/pkg/lifecycle] for the
// state machine, and [github.com/bft-labs/phasekit/pkg/watch] for a
// complete reference component.
package phasekit

import (
	"github.com/bft-labs/phasekit/pkg/lifecycle"
	"github.com/bft-labs/phasekit/pkg/log"
)

// Phase is one discrete named state of the lifecycle state machine.
type Phase = lifecycle.Phase

// Lifecycle phases.
const (
	PhaseUninitialized  = lifecycle.PhaseUninitialized
	PhaseInitializing   = lifecycle.PhaseInitializing
	PhaseInitialized    = lifecycle.PhaseInitialized
	PhaseUninitializing = lifecycle.PhaseUninitializing
	PhaseRestarting     = lifecycle.PhaseRestarting
	PhaseFixing         = lifecycle.PhaseFixing
	PhaseFaulted        = lifecycle.PhaseFaulted
)

// Machine is the lifecycle state machine. See the lifecycle package for
// the full transition table and admission model.
type Machine = lifecycle.Machine

// Hooks supplies the phase-specific logic run during each transition.
type Hooks = lifecycle.Hooks

// Op identifies a guarded lifecycle operation.
type Op = lifecycle.Op

// Logger is the structured logging interface used across phasekit.
type Logger = log.Logger

// New creates a lifecycle machine in PhaseUninitialized.
func New(hooks Hooks, opts ...lifecycle.Option) *Machine {
	return lifecycle.New(hooks, opts...)
}

// WithLogger sets the machine's logger.
func WithLogger(logger Logger) lifecycle.Option {
	return lifecycle.WithLogger(logger)
}

// WithGuard narrows the guard for an operation; guards can be restricted
// but never loosened beyond the defaults.
func WithGuard(op Op, g lifecycle.Guard) lifecycle.Option {
	return lifecycle.WithGuard(op, g)
}
