// Package observable provides a generic observable value container.
//
// Value wraps a value of any type and notifies subscribers with
// (old, new) pairs whenever the value is replaced. Values implementing
// the optional Mutable capability can additionally report in-place
// mutation, which the container forwards through the same listener list,
// so subscribers need not care whether a change was a replacement or a
// mutation of the held object.
//
// # Usage
//
//	v := observable.New(0)
//	v.Subscribe(func(old, new int) {
//	    fmt.Printf("%d -> %d\n", old, new)
//	})
//	v.Set(1)
//	v.Set(1) // equal under the equality rule, no notification
package observable
