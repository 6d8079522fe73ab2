// Package lazy provides a publish-once holder for process-wide values that are
// expensive to build and immutable afterwards.
package lazy

import (
	"context"
	"sync/atomic"
)

// Value holds at most one published T. Concurrent first callers may each run
// the build function; the first successful result to be published wins and
// every caller observes that same value from then on.
type Value[T any] struct {
	ptr atomic.Pointer[T]
}

// Load returns the published value, if any.
func (v *Value[T]) Load() (T, bool) {
	if p := v.ptr.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Publish stores val unless a value was already published, and returns the
// value that is now held.
func (v *Value[T]) Publish(val T) T {
	candidate := &val
	if v.ptr.CompareAndSwap(nil, candidate) {
		return val
	}
	return *v.ptr.Load()
}

// Get returns the published value or runs build and publishes its result.
// Errors are returned to the caller and nothing is published, so a later
// call may try again.
func (v *Value[T]) Get(ctx context.Context, build func(context.Context) (T, error)) (T, error) {
	if existing, ok := v.Load(); ok {
		return existing, nil
	}
	built, err := build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.Publish(built), nil
}
