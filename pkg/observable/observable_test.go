package observable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_GetSet(t *testing.T) {
	v := New(10)
	assert.Equal(t, 10, v.Get())

	v.Set(20)
	assert.Equal(t, 20, v.Get())
}

func TestValue_SetNotifiesWithOldAndNew(t *testing.T) {
	v := New("a")

	var gotOld, gotNew string
	v.Subscribe(func(old, new string) {
		gotOld, gotNew = old, new
	})

	v.Set("b")

	assert.Equal(t, "a", gotOld)
	assert.Equal(t, "b", gotNew)
}

func TestValue_EqualValueShortCircuits(t *testing.T) {
	v := New(5)

	notified := 0
	v.Subscribe(func(old, new int) { notified++ })

	v.Set(5)
	assert.Equal(t, 0, notified)

	v.Set(6)
	assert.Equal(t, 1, notified)
}

func TestValue_CustomEquality(t *testing.T) {
	// Length-based equality rule.
	v := New("GO", WithEquality[string](func(a, b string) bool {
		return len(a) == len(b)
	}))

	notified := 0
	v.Subscribe(func(old, new string) { notified++ })

	v.Set("no") // same length, equal under the rule
	assert.Equal(t, 0, notified)

	v.Set("gopher")
	assert.Equal(t, 1, notified)
}

func TestValue_Unsubscribe(t *testing.T) {
	v := New(0)

	calls := 0
	h := v.Subscribe(func(old, new int) { calls++ })
	v.Set(1)
	v.Unsubscribe(h)
	v.Set(2)

	assert.Equal(t, 1, calls)
}

func TestValue_ListenersInRegistrationOrder(t *testing.T) {
	v := New(0)

	var order []int
	v.Subscribe(func(old, new int) { order = append(order, 1) })
	v.Subscribe(func(old, new int) { order = append(order, 2) })
	v.Subscribe(func(old, new int) { order = append(order, 3) })

	v.Set(1)

	assert.Equal(t, []int{1, 2, 3}, order)
}

// reporter is a self-reporting value for exercising the Mutable capability.
type reporter struct {
	mu    sync.Mutex
	n     int
	hook  func(old, new *reporter)
	hooks int // active hook count, for asserting unhook
}

func (r *reporter) OnMutate(fn func(old, new *reporter)) (cancel func()) {
	r.mu.Lock()
	r.hook = fn
	r.hooks++
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.hook = nil
		r.hooks--
		r.mu.Unlock()
	}
}

func (r *reporter) bump() {
	r.mu.Lock()
	old := &reporter{n: r.n}
	r.n++
	fn := r.hook
	r.mu.Unlock()
	if fn != nil {
		fn(old, r)
	}
}

func TestValue_InternalMutationIsForwarded(t *testing.T) {
	rep := &reporter{}
	v := New(rep)

	var gotOld, gotNew int
	notified := 0
	v.Subscribe(func(old, new *reporter) {
		notified++
		gotOld, gotNew = old.n, new.n
	})

	rep.bump()

	require.Equal(t, 1, notified)
	assert.Equal(t, 0, gotOld)
	assert.Equal(t, 1, gotNew)
}

func TestValue_ReplacementMovesMutationHook(t *testing.T) {
	first := &reporter{}
	second := &reporter{n: 100}
	v := New(first)
	require.Equal(t, 1, first.hooks, "container should hook the initial value")

	notified := 0
	v.Subscribe(func(old, new *reporter) { notified++ })

	v.Set(second)
	assert.Equal(t, 0, first.hooks, "old value must be unhooked on replacement")
	assert.Equal(t, 1, second.hooks)
	require.Equal(t, 1, notified) // the replacement itself

	// Mutating the released value no longer notifies.
	first.bump()
	assert.Equal(t, 1, notified)

	// Mutating the owned value does.
	second.bump()
	assert.Equal(t, 2, notified)
}

func TestValue_ConcurrentSetAndSubscribe(t *testing.T) {
	v := New(0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Set(i + 1)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := v.Subscribe(func(old, new int) {})
			v.Unsubscribe(h)
		}()
	}
	wg.Wait()

	assert.NotEqual(t, 0, v.Get())
}
