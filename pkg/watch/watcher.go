package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/phasekit/pkg/lifecycle"
	"github.com/bft-labs/phasekit/pkg/log"
	"github.com/bft-labs/phasekit/pkg/observable"
)

// ErrNoDir is returned by the initialize hook when no directory was
// configured.
var ErrNoDir = errors.New("phasekit: watch directory not configured")

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for the watcher and its lifecycle machine.
// Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithStrictRestart narrows the restart guard so Restart is admitted only
// from PhaseInitialized, for deployments where restarting an inactive
// watcher makes no sense.
func WithStrictRestart() Option {
	return func(w *Watcher) {
		w.strictRestart = true
	}
}

// Watcher is a lifecycle-managed directory watcher. Its hooks open and
// close an fsnotify watcher; filesystem events are counted in an
// observable *Stats value that reports in-place mutation, so subscribers
// see every increment.
type Watcher struct {
	dir           string
	logger        log.Logger
	strictRestart bool
	machine       *lifecycle.Machine
	stats         *observable.Value[*Stats]

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a watcher for dir. The watcher is inactive until its
// machine initializes.
func New(dir string, opts ...Option) *Watcher {
	w := &Watcher{
		dir:    dir,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}

	machineOpts := []lifecycle.Option{
		lifecycle.WithLogger(w.logger),
	}
	if w.strictRestart {
		machineOpts = append(machineOpts, lifecycle.WithGuard(
			lifecycle.OpRestart,
			func(p lifecycle.Phase) bool { return p == lifecycle.PhaseInitialized },
		))
	}

	w.machine = lifecycle.New(lifecycle.Hooks{
		Initialize:   w.initialize,
		Restart:      w.teardown,
		Uninitialize: w.teardown,
		FixFault:     w.repair,
	}, machineOpts...)

	w.stats = observable.New(&Stats{}, observable.WithLogger[*Stats](w.logger))

	return w
}

// Machine exposes the watcher's lifecycle machine for phase queries,
// transitions, and subscriptions.
func (w *Watcher) Machine() *lifecycle.Machine {
	return w.machine
}

// Stats exposes the observable event counters.
func (w *Watcher) Stats() *observable.Value[*Stats] {
	return w.stats
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start initializes the watcher through its lifecycle machine.
func (w *Watcher) Start(ctx context.Context) error {
	return w.machine.Initialize(ctx)
}

// Stop tears the watcher down through the machine's fail-safe Close.
func (w *Watcher) Stop(ctx context.Context) error {
	return w.machine.Close(ctx)
}

// initialize is the Initialize hook: open the fsnotify watcher and start
// the event loops.
func (w *Watcher) initialize(ctx context.Context) error {
	if w.dir == "" {
		return ErrNoDir
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	// The loops outlive the transition, so they get their own context
	// rather than the hook's.
	loopCtx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(loopCtx)
	group.Go(func() error { return w.eventLoop(gctx, fsw) })
	group.Go(func() error { return w.errorLoop(gctx, fsw) })

	w.mu.Lock()
	w.fsw = fsw
	w.cancel = cancel
	w.group = group
	w.mu.Unlock()

	w.logger.Info("watching directory", log.String("dir", w.dir))
	return nil
}

// teardown is the Restart and Uninitialize hook: stop the loops and close
// the fsnotify watcher if one is open.
func (w *Watcher) teardown(ctx context.Context) error {
	w.mu.Lock()
	fsw, cancel, group := w.fsw, w.cancel, w.group
	w.fsw, w.cancel, w.group = nil, nil, nil
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}

	cancel()
	err := fsw.Close()
	if werr := group.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
		return werr
	}
	return err
}

// repair is the FixFault hook: best-effort teardown plus counter reset so
// a re-initialized watcher starts clean.
func (w *Watcher) repair(ctx context.Context) error {
	if err := w.teardown(ctx); err != nil {
		w.logger.Warn("repair teardown", log.Err(err))
	}
	w.stats.Get().reset()
	return nil
}

func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.logger.Debug("fs event",
				log.String("name", ev.Name),
				log.Stringer("op", ev.Op),
			)
			w.stats.Get().record(ev.Op)
		}
	}
}

func (w *Watcher) errorLoop(ctx context.Context, fsw *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", log.Err(err))
		}
	}
}
