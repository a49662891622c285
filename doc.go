// Package computed implements an incremental, dependency-tracking
// memoization core: a Computed node holds one function's result for one
// input, and tracks which other nodes it used (and is used by) so that
// invalidating one node cascades correctly to every transitive dependent.
//
// # Basic Usage
//
// A Computed is built blank and populated by whatever owns the Function:
//
//	node := computed.NewBlank[myInput, int](input, fn)
//	node.TrySetOutput(computed.ValueResult(42))
//
// Read it (and, if called from inside another computation, register the
// implicit dependency) with Use:
//
//	val, err := node.Use(ctx, nil)
//
// # Lifecycle
//
// A node moves Computing -> Consistent -> Invalidated and never backward.
// Invalidation is cascading and idempotent:
//
//	node.Invalidate() // fires OnInvalidated handlers, then invalidates usedBy
//
// # Dependencies
//
// Edges are installed by whichever node is consuming another:
//
//	if err := consumer.AddUsed(dependency); err != nil { ... }
//
// AddUsed is only legal while consumer is Computing; it in turn calls
// dependency.AddUsedBy(consumer), which fails if dependency is itself
// Computing (a dependency must be Consistent before anything can depend on
// it) and immediately invalidates the consumer if the dependency is already
// Invalidated.
//
// # Ambient call context
//
// ComputeContext carries per-call flags (invalidate-before-read, capture the
// resolved node) and is installed ambiently for the scope of a call:
//
//	cctx := computed.NewComputeContext(computed.FlagCapture)
//	defer cctx.Use().Close()
//
// The current computation — whichever node's Function body is presently
// executing on this goroutine — is tracked the same way, so that a nested
// Use call knows who to register as its dependent (see WithCurrentComputation).
//
// # Thread safety
//
// Every exported method on Computed is safe for concurrent use. State reads
// are lock-free; edge mutation and output publication take the node's own
// mutex, and a dependent never holds its own lock while acquiring a
// dependency's.
package computed
