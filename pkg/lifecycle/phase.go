package lifecycle

// Phase represents the lifecycle phase of a component.
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseInitialized
	PhaseUninitializing
	PhaseRestarting
	PhaseFixing
	PhaseFaulted
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseInitializing:
		return "Initializing"
	case PhaseInitialized:
		return "Initialized"
	case PhaseUninitializing:
		return "Uninitializing"
	case PhaseRestarting:
		return "Restarting"
	case PhaseFixing:
		return "Fixing"
	case PhaseFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// Op identifies a guarded lifecycle operation.
type Op uint8

const (
	OpInitialize Op = iota
	OpRestart
	OpUninitialize
	OpFixFault
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpInitialize:
		return "Initialize"
	case OpRestart:
		return "Restart"
	case OpUninitialize:
		return "Uninitialize"
	case OpFixFault:
		return "FixFault"
	default:
		return "Unknown"
	}
}

// Guard is a side-effect-free predicate over the current phase deciding
// whether an operation may proceed.
type Guard func(Phase) bool

// transition describes one guarded operation: the phase held while its
// hook runs, the phase written on success, and the default guard.
type transition struct {
	transient Phase
	success   Phase
	guard     Guard
}

// Default transition table. Custom guards supplied via WithGuard may
// restrict these further but never loosen them; the ready-promise rules
// in the engine depend on the success phases below.
var transitions = map[Op]transition{
	OpInitialize: {
		transient: PhaseInitializing,
		success:   PhaseInitialized,
		guard: func(p Phase) bool {
			return p == PhaseUninitialized
		},
	},
	OpRestart: {
		transient: PhaseRestarting,
		success:   PhaseUninitialized,
		guard: func(p Phase) bool {
			return p == PhaseInitialized || p == PhaseUninitialized || p == PhaseFaulted
		},
	},
	OpUninitialize: {
		transient: PhaseUninitializing,
		success:   PhaseUninitialized,
		guard: func(p Phase) bool {
			return p == PhaseInitialized || p == PhaseFaulted
		},
	},
	OpFixFault: {
		transient: PhaseFixing,
		success:   PhaseUninitialized,
		guard: func(p Phase) bool {
			return p == PhaseFaulted
		},
	},
}
