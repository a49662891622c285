package computed

import (
	"strconv"
	"sync/atomic"
)

// LTag is an opaque version token distinguishing successive computations for
// the same (Function, input) pair. Two Computed values for the same input
// never share an LTag, so a stale usedBy entry can never be mistaken for a
// live successor once the cache has moved on.
type LTag uint64

var ltagCounter atomic.Uint64

// NewLTag mints a fresh, process-unique LTag. NewBlank calls this once per
// node it constructs, so every Computed carries its own tag.
func NewLTag() LTag {
	return LTag(ltagCounter.Add(1))
}

func (t LTag) String() string {
	return "ltag:" + strconv.FormatUint(uint64(t), 10)
}
