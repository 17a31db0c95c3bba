// Package event provides fire-once notification primitives.
//
// Event is a one-shot notification with no payload: callbacks registered
// before the event fires are invoked in order when it fires, and
// callbacks registered afterward replay immediately. Promise extends the
// same contract with a typed result, cancellation, and an awaitable
// suspension point.
//
// # Usage
//
// One-shot signal:
//
//	ev := event.NewEvent()
//	ev.Register(func() { fmt.Println("fired") })
//	ev.Fire()
//
// Typed result with late subscription:
//
//	p := event.NewPromise[int]()
//	p.Resolve(42)
//	p.Listen(func(v int) { fmt.Println(v) }) // prints 42 immediately
//
// Awaiting with a timeout composed externally:
//
//	ctx, cancel := context.WithTimeout(ctx, time.Second)
//	defer cancel()
//	v, err := p.Await(ctx)
//
// # Concurrency
//
// All operations are safe for concurrent use. The internal lock is held
// only for bookkeeping, never while invoking callbacks, so callbacks may
// safely re-enter the primitive. A panicking callback is recovered and
// logged; it does not prevent later callbacks from running.
package event
