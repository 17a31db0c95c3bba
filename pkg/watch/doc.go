// Package watch provides a lifecycle-managed directory watcher.
//
// Watcher is the reference component built on the phasekit core: its
// Initialize hook opens an fsnotify watcher and starts the event loops,
// its Uninitialize and Restart hooks stop them, and FixFault recovers
// from a failed transition. Filesystem events are counted in an
// observable Stats value that reports in-place mutation.
//
//	w := watch.New("/etc/myapp", watch.WithLogger(logger))
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop(ctx)
//
//	w.Stats().Subscribe(func(old, new *watch.Stats) {
//	    fmt.Println("events:", new.Total())
//	})
package watch
