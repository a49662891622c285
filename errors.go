package computed

import (
	"fmt"
	"runtime/debug"
)

// WrongStateError is raised when an operation is invoked in a state that
// forbids it: reading Output while Computing, SetOutput when not Computing,
// AddUsed when Consistent, AddUsedBy when Computing (spec.md §7). AddUsed on
// an Invalidated node is a silent no-op, not an error.
type WrongStateError struct {
	Node       AnyComputed
	Op         string
	State      State
	StackTrace []byte
}

func (e *WrongStateError) Error() string {
	return fmt.Sprintf("computed: %s is not legal while state is %s (node %v)", e.Op, e.State, e.Node)
}

func newWrongStateError(node AnyComputed, op string, state State) *WrongStateError {
	return &WrongStateError{
		Node:       node,
		Op:         op,
		State:      state,
		StackTrace: debug.Stack(),
	}
}

// ComputationError wraps a Result's stored error when it is surfaced through
// Use or ThrowIfError. It unwraps to the original cause so errors.Is/As keep
// working across the wrapping boundary, matching the teacher's ResolveError.
type ComputationError struct {
	Cause error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computed: computation failed: %v", e.Cause)
}

func (e *ComputationError) Unwrap() error {
	return e.Cause
}

// CleanupError describes a failure of a handler or cleanup callback invoked
// during an invalidation cascade. Invalidation must not fail (spec.md §7):
// the core recovers handler panics and discards them, and it never builds or
// surfaces a CleanupError itself.
type CleanupError struct {
	Node       AnyComputed
	Cause      error
	Context    string // "handler" or "dispose"
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("computed: %s error on node %v: %v", e.Context, e.Node, e.Cause)
}

func (e *CleanupError) Unwrap() error {
	return e.Cause
}
