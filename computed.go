package computed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pumped-fn/computed/clock"
	"github.com/pumped-fn/computed/pool"
)

// AnyComputed is the type-erased view of a Computed[TIn, TOut] used wherever
// TOut would otherwise leak into code that has no business knowing it — edge
// storage, cascades, and the ambient current-computation slot. Mirrors the
// teacher's AnyExecutor pattern in executor_generated.go. The interface is
// implemented only by *Computed, via the unexported touch method (the same
// "sealed interface" idiom as fs.File).
type AnyComputed interface {
	GetLTag() LTag
	GetState() State
	GetInputAny() any
	Invalidate() bool
	AddUsed(a AnyComputed) error
	AddUsedBy(b AnyComputed) error
	RemoveUsedBy(b AnyComputed)
	Touch()
	LastAccessTime() clock.Moment
	// Used returns a snapshot of the node's current dependencies, for
	// diagnostics (computedext.DumpGraph) only. Never mutate the result.
	Used() []AnyComputed

	touch()
}

// usedByKey identifies a dependent in a dependency's usedBy set. input is
// boxed as any, but TIn is constrained to comparable so the map key remains
// well-behaved (spec.md §4, edge storage).
type usedByKey struct {
	input any
	lTag  LTag
}

var (
	usedSnapPool   = pool.NewSlicePool[AnyComputed](8)
	usedBySnapPool = pool.NewSlicePool[usedByKey](8)
)

// Computed is a single memoized, dependency-tracked node: spec.md's central
// type. TIn is the cache key (and must expose TryGetCachedComputed for
// cascade resolution); TOut is the produced value type.
type Computed[TIn InputConstraint, TOut any] struct {
	input TIn
	lTag  LTag
	fn    Function[TIn, TOut]

	mu      sync.Mutex
	state   atomic.Int32
	options ComputedOptions
	output  Result[TOut]

	used   map[AnyComputed]struct{}
	usedBy map[usedByKey]struct{}

	invalidateOnSetOutput bool
	invalidatedHandlers   []func()

	lastAccessTime atomic.Int64

	timerMu             sync.Mutex
	autoInvalidateTimer *time.Timer
}

// NewBlank constructs a node in StateComputing with no output yet, ready for
// a Function to populate via TrySetOutput/SetOutput.
func NewBlank[TIn InputConstraint, TOut any](input TIn, fn Function[TIn, TOut], opts ...Option) *Computed[TIn, TOut] {
	c := &Computed[TIn, TOut]{
		input:   input,
		lTag:    NewLTag(),
		fn:      fn,
		options: newOptions(opts...),
		used:    make(map[AnyComputed]struct{}),
		usedBy:  make(map[usedByKey]struct{}),
	}
	c.state.Store(int32(StateComputing))
	c.touch()
	return c
}

// NewConsistent constructs a node that is already Consistent, for seeding a
// cache with a precomputed value (e.g. loaded from persistence).
func NewConsistent[TIn InputConstraint, TOut any](input TIn, fn Function[TIn, TOut], output Result[TOut], opts ...Option) *Computed[TIn, TOut] {
	c := NewBlank(input, fn, opts...)
	c.output = output
	c.state.Store(int32(StateConsistent))
	c.armAutoInvalidateTimer(output)
	return c
}

// NewInvalidated constructs a node that starts out already invalidated, for
// representing a value known stale at creation time.
func NewInvalidated[TIn InputConstraint, TOut any](input TIn, fn Function[TIn, TOut], output Result[TOut], opts ...Option) *Computed[TIn, TOut] {
	c := NewBlank(input, fn, opts...)
	c.output = output
	c.state.Store(int32(StateInvalidated))
	return c
}

func (c *Computed[TIn, TOut]) GetLTag() LTag       { return c.lTag }
func (c *Computed[TIn, TOut]) GetState() State      { return State(c.state.Load()) }
func (c *Computed[TIn, TOut]) GetInputAny() any     { return c.input }
func (c *Computed[TIn, TOut]) GetInput() TIn        { return c.input }
func (c *Computed[TIn, TOut]) GetFunction() Function[TIn, TOut] { return c.fn }

// GetOutput returns the node's Result, or a *WrongStateError while Computing.
func (c *Computed[TIn, TOut]) GetOutput() (Result[TOut], error) {
	if State(c.state.Load()) == StateComputing {
		var zero Result[TOut]
		return zero, newWrongStateError(c, "GetOutput", StateComputing)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output, nil
}

// GetOptions returns a copy of the node's current options.
func (c *Computed[TIn, TOut]) GetOptions() ComputedOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

// SetOptions mutates the node's options, only legal while Computing.
func (c *Computed[TIn, TOut]) SetOptions(mutate func(*ComputedOptions)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if State(c.state.Load()) != StateComputing {
		return newWrongStateError(c, "SetOptions", State(c.state.Load()))
	}
	mutate(&c.options)
	return nil
}

// Touch refreshes the node's lastAccessTime, for eviction policies external
// to the core.
func (c *Computed[TIn, TOut]) Touch() { c.touch() }

func (c *Computed[TIn, TOut]) touch() {
	clk := c.GetOptions().Clock
	if clk == nil {
		clk = clock.Default
	}
	c.lastAccessTime.Store(int64(clk.Now()))
}

// LastAccessTime returns the moment of the most recent Touch.
func (c *Computed[TIn, TOut]) LastAccessTime() clock.Moment {
	return clock.Moment(c.lastAccessTime.Load())
}

// Used returns a snapshot of the node's current dependency set, for
// diagnostics only.
func (c *Computed[TIn, TOut]) Used() []AnyComputed {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := make([]AnyComputed, 0, len(c.used))
	for a := range c.used {
		snap = append(snap, a)
	}
	return snap
}

// TrySetOutput publishes r as the node's output if it is still Computing,
// transitioning to Consistent (or, if Invalidate arrived mid-computation, to
// Invalidated directly). Returns false, leaving the node unchanged, if the
// node was not Computing (spec.md §4.2); r's value is frozen either way.
func (c *Computed[TIn, TOut]) TrySetOutput(r Result[TOut]) bool {
	r.freeze()

	c.mu.Lock()
	if State(c.state.Load()) != StateComputing {
		c.mu.Unlock()
		return false
	}
	c.output = r
	deferred := c.invalidateOnSetOutput
	c.invalidateOnSetOutput = false

	if deferred {
		c.state.Store(int32(StateInvalidated))
		usedSnap := c.snapshotAndClearUsedLocked()
		c.mu.Unlock()

		for _, a := range usedSnap {
			a.RemoveUsedBy(c)
		}
		usedSnapPool.Put(usedSnap)
		c.fireInvalidatedHandlers()
		return true
	}

	c.state.Store(int32(StateConsistent))
	c.mu.Unlock()
	c.armAutoInvalidateTimer(r)
	return true
}

// SetOutput is TrySetOutput, returning a *WrongStateError instead of false.
func (c *Computed[TIn, TOut]) SetOutput(r Result[TOut]) error {
	if !c.TrySetOutput(r) {
		return newWrongStateError(c, "SetOutput", c.GetState())
	}
	return nil
}

// AddUsed records a as a dependency of c, the node currently being computed.
// Legal only while c is Computing; silently dropped if c is already
// Invalidated; an error if c is Consistent (spec.md §4.3).
func (c *Computed[TIn, TOut]) AddUsed(a AnyComputed) error {
	c.mu.Lock()
	switch State(c.state.Load()) {
	case StateConsistent:
		c.mu.Unlock()
		return newWrongStateError(c, "AddUsed", StateConsistent)
	case StateInvalidated:
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := a.AddUsedBy(c); err != nil {
		return err
	}

	// Two-step unlock/relock per spec.md §5's allowance; c may have been
	// invalidated by another goroutine while we were outside the lock, in
	// which case the edge we just installed on a must be torn back down.
	c.mu.Lock()
	if State(c.state.Load()) == StateInvalidated {
		c.mu.Unlock()
		a.RemoveUsedBy(c)
		return nil
	}
	c.used[a] = struct{}{}
	c.mu.Unlock()
	return nil
}

// AddUsedBy records b as a dependent of a (the receiver). Illegal while a is
// Computing; if a is already Invalidated, b is invalidated immediately
// instead of an edge being recorded (spec.md §4.3).
func (a *Computed[TIn, TOut]) AddUsedBy(b AnyComputed) error {
	a.mu.Lock()
	switch State(a.state.Load()) {
	case StateComputing:
		a.mu.Unlock()
		return newWrongStateError(a, "AddUsedBy", StateComputing)
	case StateInvalidated:
		a.mu.Unlock()
		b.Invalidate()
		return nil
	default:
		key := usedByKey{input: b.GetInputAny(), lTag: b.GetLTag()}
		a.usedBy[key] = struct{}{}
		a.mu.Unlock()
		return nil
	}
}

// RemoveUsedBy drops b's entry from a's usedBy set, if present.
func (a *Computed[TIn, TOut]) RemoveUsedBy(b AnyComputed) {
	key := usedByKey{input: b.GetInputAny(), lTag: b.GetLTag()}
	a.mu.Lock()
	delete(a.usedBy, key)
	a.mu.Unlock()
}

// Invalidate transitions the node toward StateInvalidated and cascades into
// every node that used it. Returns false if the node was already
// Invalidated (idempotent no-op, spec.md §4.4 I5). A Computing node instead
// defers the transition until TrySetOutput runs.
func (c *Computed[TIn, TOut]) Invalidate() bool {
	if State(c.state.Load()) == StateInvalidated {
		return false
	}

	c.mu.Lock()
	switch State(c.state.Load()) {
	case StateInvalidated:
		c.mu.Unlock()
		return false
	case StateComputing:
		c.invalidateOnSetOutput = true
		c.mu.Unlock()
		return true
	}

	c.state.Store(int32(StateInvalidated))
	usedBySnap := c.snapshotAndClearUsedByLocked()
	usedSnap := c.snapshotAndClearUsedLocked()
	c.mu.Unlock()

	c.stopAutoInvalidateTimer()

	for _, a := range usedSnap {
		a.RemoveUsedBy(c)
	}
	usedSnapPool.Put(usedSnap)

	c.fireInvalidatedHandlers()

	for _, k := range usedBySnap {
		if dep, ok := k.input.(Input).TryGetCachedComputed(k.lTag); ok {
			dep.Invalidate()
		}
	}
	usedBySnapPool.Put(usedBySnap)

	return true
}

func (c *Computed[TIn, TOut]) snapshotAndClearUsedLocked() []AnyComputed {
	snap := usedSnapPool.Get()
	for a := range c.used {
		snap = append(snap, a)
	}
	c.used = make(map[AnyComputed]struct{})
	return snap
}

func (c *Computed[TIn, TOut]) snapshotAndClearUsedByLocked() []usedByKey {
	snap := usedBySnapPool.Get()
	for k := range c.usedBy {
		snap = append(snap, k)
	}
	c.usedBy = make(map[usedByKey]struct{})
	return snap
}

// OnInvalidated registers handler to fire exactly once: immediately (but
// outside any lock) if the node is already Invalidated, otherwise queued for
// the eventual invalidation cascade (spec.md §4.4, I5 handler-fires-once).
func (c *Computed[TIn, TOut]) OnInvalidated(handler func()) {
	c.mu.Lock()
	if State(c.state.Load()) == StateInvalidated {
		c.mu.Unlock()
		safeCall(handler)
		return
	}
	c.invalidatedHandlers = append(c.invalidatedHandlers, handler)
	c.mu.Unlock()
}

func (c *Computed[TIn, TOut]) fireInvalidatedHandlers() {
	c.mu.Lock()
	handlers := c.invalidatedHandlers
	c.invalidatedHandlers = nil
	c.mu.Unlock()

	for _, h := range handlers {
		safeCall(h)
	}
}

// safeCall invokes h, recovering and discarding any panic: an
// invalidation cascade must never fail because a handler misbehaves
// (spec.md §7).
func safeCall(h func()) {
	defer func() { _ = recover() }()
	h()
}

func (c *Computed[TIn, TOut]) armAutoInvalidateTimer(r Result[TOut]) {
	opts := c.GetOptions()
	d := opts.AutoInvalidateTime
	if r.HasError() {
		d = opts.ErrorAutoInvalidateTime
	}
	if d <= 0 {
		return
	}

	c.timerMu.Lock()
	c.autoInvalidateTimer = time.AfterFunc(d, func() { c.Invalidate() })
	c.timerMu.Unlock()

	c.OnInvalidated(c.stopAutoInvalidateTimer)
}

func (c *Computed[TIn, TOut]) stopAutoInvalidateTimer() {
	c.timerMu.Lock()
	if c.autoInvalidateTimer != nil {
		c.autoInvalidateTimer.Stop()
		c.autoInvalidateTimer = nil
	}
	c.timerMu.Unlock()
}

// Update is the read/recompute entry point (spec.md §4.6). If the node is
// not Consistent it delegates straight to the Function; otherwise it applies
// cctx's flags and returns the node itself. addDependency, when true, wires
// the ambient current computation (if any) as a dependent via AddUsed.
func (c *Computed[TIn, TOut]) Update(ctx context.Context, addDependency bool, cctx *ComputeContext) (*Computed[TIn, TOut], error) {
	var usedBy AnyComputed
	if addDependency {
		usedBy = GetCurrentComputation()
	}

	if State(c.state.Load()) != StateConsistent {
		return c.fn.Invoke(ctx, c.input, usedBy, cctx)
	}

	effective := cctx
	if effective == nil {
		if amb := GetCurrentContext(); amb != nil {
			effective = amb
		} else {
			effective = NewComputeContext(0)
		}
	}

	scope := effective.Use()
	defer scope.Close()

	if effective.HasFlag(FlagInvalidate) {
		c.Invalidate()
	}
	if usedBy != nil {
		if err := usedBy.AddUsed(c); err != nil {
			return nil, err
		}
	}
	effective.TryCaptureValue(c)
	return c, nil
}

// Use is Update followed by unwrapping the resulting output, the ergonomic
// entry point a Function body calls on its own dependencies.
func (c *Computed[TIn, TOut]) Use(ctx context.Context, cctx *ComputeContext) (TOut, error) {
	var zero TOut
	updated, err := c.Update(ctx, true, cctx)
	if err != nil {
		return zero, err
	}
	out, err := updated.GetOutput()
	if err != nil {
		return zero, err
	}
	if out.HasError() {
		return zero, out.ThrowIfError()
	}
	return out.Unwrap(), nil
}
