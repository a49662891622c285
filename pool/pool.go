// Package pool provides sync.Pool-backed slice recycling for the short-lived
// snapshot buffers an invalidation cascade allocates, adapted from the
// teacher's pool_manager.go (which pooled execution-tree node slices the same
// way: borrow before a bounded burst of work, return on every exit path).
package pool

import "sync"

// SlicePool recycles slices of T so a cascade's edge snapshots don't each
// allocate a fresh backing array.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates a pool whose fresh slices are pre-sized to initialCap.
func NewSlicePool[T any](initialCap int) *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() any {
				return make([]T, 0, initialCap)
			},
		},
	}
}

// Get returns a zero-length slice, reused from the pool when available.
func (p *SlicePool[T]) Get() []T {
	s := p.pool.Get().([]T)
	return s[:0]
}

// Put returns s to the pool for reuse. Safe to call with a nil slice.
func (p *SlicePool[T]) Put(s []T) {
	if s == nil {
		return
	}
	p.pool.Put(s[:0]) //nolint:staticcheck // intentional: keep the backing array
}
