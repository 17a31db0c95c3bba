package lifecycle_test

import (
	"context"
	"fmt"

	"github.com/bft-labs/phasekit/pkg/lifecycle"
)

// ExampleNew demonstrates driving a component through its lifecycle.
func ExampleNew() {
	m := lifecycle.New(lifecycle.Hooks{
		Initialize: func(ctx context.Context) error {
			fmt.Println("opening resources")
			return nil
		},
		Uninitialize: func(ctx context.Context) error {
			fmt.Println("closing resources")
			return nil
		},
	})

	m.OnReady(func() { fmt.Println("ready") })

	ctx := context.Background()
	if err := m.Initialize(ctx); err != nil {
		fmt.Printf("initialize failed: %v\n", err)
		return
	}
	fmt.Println("phase:", m.Phase())

	if err := m.Uninitialize(ctx); err != nil {
		fmt.Printf("uninitialize failed: %v\n", err)
		return
	}
	fmt.Println("phase:", m.Phase())

	// Output:
	// opening resources
	// ready
	// phase: Initialized
	// closing resources
	// phase: Uninitialized
}

// ExampleMachine_Subscribe demonstrates observing every phase change,
// transient phases included.
func ExampleMachine_Subscribe() {
	m := lifecycle.New(lifecycle.Hooks{})

	m.Subscribe(func(old, new lifecycle.Phase) {
		fmt.Printf("%s -> %s\n", old, new)
	})

	_ = m.Initialize(context.Background())

	// Output:
	// Uninitialized -> Initializing
	// Initializing -> Initialized
}
