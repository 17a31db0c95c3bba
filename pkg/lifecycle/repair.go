package lifecycle

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Backoff implements exponential backoff with jitter. It is safe for
// concurrent use: RepairLoop resets it from a phase-change subscription,
// which runs on whatever goroutine drove the transition.
type Backoff struct {
	mu      sync.Mutex
	initial time.Duration
	max     time.Duration
	current time.Duration
}

// NewBackoff creates a new backoff with the given initial and max durations.
func NewBackoff(initial, max time.Duration) *Backoff {
	return &Backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// Sleep waits for the current backoff duration and increases it for next
// time. It returns early with ctx.Err() if the context is done.
func (b *Backoff) Sleep(ctx context.Context) error {
	b.mu.Lock()
	// Add jitter: ±20%
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	sleep := time.Duration(float64(b.current) + jitter)

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	b.mu.Unlock()

	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reset resets the backoff to the initial duration.
func (b *Backoff) Reset() {
	b.mu.Lock()
	b.current = b.initial
	b.mu.Unlock()
}

// Current returns the current backoff duration.
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// RepairLoop watches m for faults and drives recovery: whenever the
// machine reaches PhaseFaulted it waits one backoff step, runs FixFault,
// and attempts to initialize again. The backoff resets each time the
// machine becomes ready. The loop runs until ctx is done and returns
// ctx.Err().
//
// The transition engine itself never retries; this helper is the caller
// side of that contract.
func RepairLoop(ctx context.Context, m *Machine, b *Backoff) error {
	faults := make(chan struct{}, 1)
	h := m.Subscribe(func(old, new Phase) {
		switch new {
		case PhaseFaulted:
			select {
			case faults <- struct{}{}:
			default:
			}
		case PhaseInitialized:
			b.Reset()
		}
	})
	defer m.Unsubscribe(h)

	// A fault may predate the subscription.
	if m.Phase() == PhaseFaulted {
		select {
		case faults <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-faults:
			if err := b.Sleep(ctx); err != nil {
				return err
			}
			// A failing hook puts the machine back in PhaseFaulted,
			// which re-queues a fault token through the subscription.
			if err := m.FixFault(ctx); err != nil {
				continue
			}
			_ = m.Initialize(ctx)
		}
	}
}
