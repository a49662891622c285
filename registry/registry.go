// Package registry is a demo Function/cache implementation: a minimal
// in-memory registry that lets the core's Computed be exercised against a
// real (if simple) workload, the way the teacher's executor_generated.go
// wires Executors into a Scope's cache. It is deliberately not part of the
// core — spec.md scopes the function registry/invoker out entirely.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/pumped-fn/computed"
)

// Key is the TIn a Registry hands to Computed: a comparable lookup value
// plus a back-reference to the owning Registry, so Key can implement
// computed.Input.TryGetCachedComputed without the core needing to know
// anything about registries. Construct one via Registry.Key, never
// directly, so reg is always set.
type Key[K comparable, V any] struct {
	Value K
	reg   *Registry[K, V]
}

func (k Key[K, V]) TryGetCachedComputed(lTag computed.LTag) (computed.AnyComputed, bool) {
	return k.reg.tryGet(k.Value, lTag)
}

type inflightCall[K comparable, V any] struct {
	done chan struct{}
	err  error
}

// Registry caches one *computed.Computed per key and deduplicates concurrent
// compute calls for the same key, the way the teacher's Scope dedupes
// concurrent Resolve calls for the same Executor.
type Registry[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*computed.Computed[Key[K, V], V]
	inflight map[K]*inflightCall[K, V]
	compute  func(ctx context.Context, key K) (V, error)
}

// New builds a Registry that computes values with fn.
func New[K comparable, V any](fn func(ctx context.Context, key K) (V, error)) *Registry[K, V] {
	return &Registry[K, V]{
		entries:  make(map[K]*computed.Computed[Key[K, V], V]),
		inflight: make(map[K]*inflightCall[K, V]),
		compute:  fn,
	}
}

// Key wraps value as this registry's input type.
func (r *Registry[K, V]) Key(value K) Key[K, V] {
	return Key[K, V]{Value: value, reg: r}
}

func (r *Registry[K, V]) tryGet(key K, lTag computed.LTag) (computed.AnyComputed, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.entries[key]
	if !ok || node.GetLTag() != lTag {
		return nil, false
	}
	return node, true
}

// Invoke implements computed.Function[Key[K, V], V]. Called by a Computed's
// Update when the cached node (if any) is not Consistent.
func (r *Registry[K, V]) Invoke(ctx context.Context, input Key[K, V], usedBy computed.AnyComputed, cctx *computed.ComputeContext) (*computed.Computed[Key[K, V], V], error) {
	r.mu.Lock()
	if node, ok := r.entries[input.Value]; ok && node.GetState() != computed.StateInvalidated {
		r.mu.Unlock()
		if usedBy != nil {
			if err := usedBy.AddUsed(node); err != nil {
				return nil, err
			}
		}
		return node, nil
	}
	if call, ok := r.inflight[input.Value]; ok {
		r.mu.Unlock()
		return r.joinInflight(ctx, input.Value, call, usedBy)
	}

	call := &inflightCall[K, V]{done: make(chan struct{})}
	r.inflight[input.Value] = call
	r.mu.Unlock()

	node := computed.NewBlank[Key[K, V], V](input, r)
	r.runCompute(ctx, node, input, call)

	r.mu.Lock()
	delete(r.inflight, input.Value)
	r.entries[input.Value] = node
	r.mu.Unlock()
	close(call.done)

	if usedBy != nil {
		if err := usedBy.AddUsed(node); err != nil {
			return nil, err
		}
	}
	return node, call.err
}

// runCompute executes r.compute on its own goroutine and feeds the result
// back to node, respecting ctx cancellation without leaking the goroutine
// (the result is discarded, not waited on, if ctx wins the race) — the same
// select-on-done-channel-or-ctx shape as the teacher's flow.go executeFlow.
//
// call.err is only ever a delivery failure (the context was cancelled before
// a node could be produced). A compute function returning an error is not a
// delivery failure: node still reaches Consistent, holding an ErrorResult,
// exactly the outcome Result[T] exists to carry.
func (r *Registry[K, V]) runCompute(ctx context.Context, node *computed.Computed[Key[K, V], V], input Key[K, V], call *inflightCall[K, V]) {
	type outcome struct {
		val V
		err error
	}
	resultCh := make(chan outcome, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resultCh <- outcome{err: fmt.Errorf("registry: compute panicked: %v", rec)}
			}
		}()
		var out outcome
		computed.WithCurrentComputation(node, func() {
			out.val, out.err = r.compute(ctx, input.Value)
		})
		resultCh <- out
	}()

	select {
	case <-ctx.Done():
		node.TrySetOutput(computed.ErrorResult[V](ctx.Err()))
		call.err = ctx.Err()
	case out := <-resultCh:
		if out.err != nil {
			node.TrySetOutput(computed.ErrorResult[V](out.err))
		} else {
			node.TrySetOutput(computed.ValueResult(out.val))
		}
	}
}

func (r *Registry[K, V]) joinInflight(ctx context.Context, key K, call *inflightCall[K, V], usedBy computed.AnyComputed) (*computed.Computed[Key[K, V], V], error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.done:
	}

	r.mu.Lock()
	node := r.entries[key]
	r.mu.Unlock()
	if node == nil {
		return nil, fmt.Errorf("registry: no cached result for key after in-flight compute")
	}
	if usedBy != nil {
		if err := usedBy.AddUsed(node); err != nil {
			return nil, err
		}
	}
	return node, call.err
}

// Get resolves key, implicitly registering the ambient current computation
// (if any) as a dependent — the ergonomic entry point outside of a
// Function body, mirroring the teacher's Controller.Get.
func (r *Registry[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V
	node, err := r.Invoke(ctx, r.Key(key), computed.GetCurrentComputation(), computed.GetCurrentContext())
	if err != nil {
		return zero, err
	}
	out, err := node.GetOutput()
	if err != nil {
		return zero, err
	}
	if out.HasError() {
		return zero, out.ThrowIfError()
	}
	return out.Unwrap(), nil
}

// Invalidate invalidates the cached entry for key, if one exists, cascading
// to every node that used it. Reports whether a live entry was found.
func (r *Registry[K, V]) Invalidate(key K) bool {
	r.mu.Lock()
	node, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return false
	}
	return node.Invalidate()
}

// Peek returns the cached node for key without triggering a compute.
func (r *Registry[K, V]) Peek(key K) (*computed.Computed[Key[K, V], V], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.entries[key]
	return node, ok
}
