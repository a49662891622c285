package computed

import (
	"sync"

	"github.com/petermattis/goid"
)

// ambientSlot is the per-goroutine home for the two pieces of implicit state
// spec.md §4.8 requires: the computation currently being built, and the
// ComputeContext it's being built under. Keyed by goroutine id the same way
// _examples/AnatoleLucet-sig's sigv3/runtime.go keys its own goroutine-local
// registry, since Go has no native goroutine-local storage.
type ambientSlot struct {
	computation AnyComputed
	context     *ComputeContext
}

var ambientSlots sync.Map // int64 (goid) -> *ambientSlot

func currentSlot() *ambientSlot {
	gid := goid.Get()
	if v, ok := ambientSlots.Load(gid); ok {
		return v.(*ambientSlot)
	}
	slot := &ambientSlot{}
	actual, _ := ambientSlots.LoadOrStore(gid, slot)
	return actual.(*ambientSlot)
}

// GetCurrentComputation returns the Computed node whose Function body is
// presently executing on this goroutine, or nil outside of any computation.
func GetCurrentComputation() AnyComputed {
	return currentSlot().computation
}

// GetCurrentContext returns the ComputeContext ambient on this goroutine, or
// nil if none has been installed.
func GetCurrentContext() *ComputeContext {
	return currentSlot().context
}

// WithCurrentComputation installs node as the current computation for the
// duration of fn, restoring whatever was ambient beforehand even if fn
// panics. Registries call this around invoking a user's compute body so that
// nested Use calls pick up their caller as a dependent (spec.md §4.8).
func WithCurrentComputation(node AnyComputed, fn func()) {
	slot := currentSlot()
	prev := slot.computation
	slot.computation = node
	defer func() { slot.computation = prev }()
	fn()
}

// pushContext installs ctx as the ambient ComputeContext and returns a
// restore func. Lifetime is strictly nested with the caller, mirroring
// WithCurrentComputation.
func pushContext(ctx *ComputeContext) func() {
	slot := currentSlot()
	prev := slot.context
	slot.context = ctx
	return func() { slot.context = prev }
}
