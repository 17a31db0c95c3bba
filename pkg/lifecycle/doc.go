// Package lifecycle provides a phased lifecycle state machine for
// stateful components.
//
// A Machine coordinates the phase of a single component instance through
// four guarded operations, each available in a blocking and an async
// form funneled through one shared transition engine:
//
//	Operation     Allowed from                          Transient        Success
//	Initialize    Uninitialized                         Initializing     Initialized
//	Restart       Initialized, Uninitialized, Faulted   Restarting       Uninitialized
//	Uninitialize  Initialized, Faulted                  Uninitializing   Uninitialized
//	FixFault      Faulted                               Fixing           Uninitialized
//
// PhaseUninitialized, PhaseInitialized, and PhaseFaulted are stable; the
// remaining phases are held only while an operation's hook is running.
// A hook error drives the machine to PhaseFaulted and reaches the caller;
// recovery is explicit via FixFault (see RepairLoop for a ready-made
// retry loop).
//
// # Usage
//
//	m := lifecycle.New(lifecycle.Hooks{
//	    Initialize:   func(ctx context.Context) error { return openResources(ctx) },
//	    Uninitialize: func(ctx context.Context) error { return closeResources(ctx) },
//	})
//
//	if err := m.Initialize(ctx); err != nil {
//	    // machine is PhaseFaulted; call m.FixFault to recover
//	}
//
//	m.OnReady(func() { ... })            // fires once per Initialize success
//	m.Subscribe(func(old, new Phase) {}) // every phase change, transients included
//
// # Admission model
//
// The guard check and the transient-phase write are two steps, not one
// atomic region: two genuinely concurrent conflicting transitions can
// momentarily both pass their guards, and the last transient-phase write
// wins. Driving one machine with conflicting transitions at the same
// instant is a caller error; serialize conflicting callers externally if
// they can race.
package lifecycle
