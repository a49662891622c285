package computed

import "sync"

// CallFlag bits control the side effects Update performs for a single call,
// mirroring the teacher's Operation/OperationKind bitset idiom (extension.go)
// rather than a handful of boolean parameters.
type CallFlag uint32

const (
	// FlagCapture enables TryCaptureValue: the compute context records the
	// Computed that served the call, for callers that want a handle back.
	FlagCapture CallFlag = 1 << iota
	// FlagInvalidate forces the node being updated to invalidate itself
	// before the rest of the call proceeds.
	FlagInvalidate
	// FlagGetExisting suppresses recomputation even when a Function would
	// otherwise choose to recompute; Functions decide how to honor this.
	FlagGetExisting
)

// Scope is a strictly-nested installation returned by ComputeContext.Use.
// Callers must defer Close so the ambient context is restored even on panic.
type Scope struct {
	restore func()
	once    sync.Once
}

// Close restores whatever ComputeContext (or nil) was ambient before Use.
// Safe to call more than once.
func (s *Scope) Close() {
	s.once.Do(s.restore)
}

// ComputeContext carries the call-scoped flags and the captured-value slot
// described in spec.md §4.7. A nil *ComputeContext is valid everywhere a
// ComputeContext is accepted: every method treats it as "no flags set".
type ComputeContext struct {
	flags CallFlag

	mu       sync.Mutex
	captured AnyComputed
}

// NewComputeContext builds a ComputeContext carrying the given flags.
func NewComputeContext(flags CallFlag) *ComputeContext {
	return &ComputeContext{flags: flags}
}

// HasFlag reports whether f is set. Nil-safe.
func (c *ComputeContext) HasFlag(f CallFlag) bool {
	if c == nil {
		return false
	}
	return c.flags&f != 0
}

// TryCaptureValue records node as the captured value if FlagCapture is set.
// No-op otherwise, and nil-safe.
func (c *ComputeContext) TryCaptureValue(node AnyComputed) {
	if c == nil || !c.HasFlag(FlagCapture) {
		return
	}
	c.mu.Lock()
	c.captured = node
	c.mu.Unlock()
}

// CapturedValue returns the node captured during this context's lifetime, if
// any.
func (c *ComputeContext) CapturedValue() (AnyComputed, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captured, c.captured != nil
}

// Use installs c as the ambient ComputeContext for the remainder of the
// calling goroutine's stack, until the returned Scope is closed.
func (c *ComputeContext) Use() *Scope {
	restore := pushContext(c)
	return &Scope{restore: restore}
}
