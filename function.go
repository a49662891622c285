package computed

import "context"

// Input is the contract a computed's input key must satisfy so that reverse
// edges can be resolved back to a live node at cascade time (spec.md §6,
// "input.TryGetCachedComputed"). Implementations are owned by the function
// registry/invoker, which is explicitly out of the core's scope (spec.md §1);
// the core only ever calls through this interface.
type Input interface {
	// TryGetCachedComputed looks up a still-live node for this input at the
	// given LTag. A miss (evicted, or never existed) returns false and is
	// always treated as "quietly dropped" by the cascade (spec.md §4.3).
	TryGetCachedComputed(lTag LTag) (AnyComputed, bool)
}

// InputConstraint is the type parameter bound for TIn. The core relies on
// native Go equality (comparable) for the identity half of the spec's
// "input.Equals, input.HashCode" requirement — see DESIGN.md for why no
// separate Equals/HashCode methods are introduced.
type InputConstraint interface {
	comparable
	Input
}

// Function is the external collaborator that (re)produces a consistent
// Computed for a given input — the "function registry / invoker" spec.md §1
// names as out of core scope. The core only ever calls Invoke, during
// Update, when a node is not Consistent.
type Function[TIn InputConstraint, TOut any] interface {
	// Invoke produces (or reuses) a consistent Computed for input. If usedBy
	// is non-nil, the Function is responsible for installing it as a
	// dependent of the result (spec.md §6). ctx is forwarded verbatim from
	// the caller's Update/Use and MUST be honored for cancellation.
	Invoke(ctx context.Context, input TIn, usedBy AnyComputed, cctx *ComputeContext) (*Computed[TIn, TOut], error)
}
