package computed

// State is a Computed node's position in its lifecycle. The zero value is
// StateComputing, the state every node starts in via NewBlank.
type State int32

const (
	// StateComputing: the node's output has not yet been set. used may be
	// populated as the computation discovers its own dependencies; usedBy
	// must not be (AddUsedBy rejects it).
	StateComputing State = iota
	// StateConsistent: output is set and has not been superseded. used and
	// usedBy are both eligible to hold edges.
	StateConsistent
	// StateInvalidated: terminal. used and usedBy are both empty and stay
	// that way; a new Computed must be minted for the same input to compute
	// again.
	StateInvalidated
)

func (s State) String() string {
	switch s {
	case StateComputing:
		return "computing"
	case StateConsistent:
		return "consistent"
	case StateInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}
