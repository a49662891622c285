package computed

import (
	"time"

	"github.com/pumped-fn/computed/clock"
)

// ComputedOptions configures a single Computed node, set at construction and
// mutable thereafter only while the node is Computing (spec.md §4, Component
// C). Modeled as a plain struct plus functional options, the same layering
// the teacher uses for ExecutorOption/ScopeOption.
type ComputedOptions struct {
	// AutoInvalidateTime, when positive, self-invalidates a Consistent value
	// result after the given duration. Zero (the default) disables it.
	AutoInvalidateTime time.Duration
	// ErrorAutoInvalidateTime is the AutoInvalidateTime analogue applied when
	// the result holds an error, so failed computations can be retried
	// sooner than long-lived successes.
	ErrorAutoInvalidateTime time.Duration
	// Name is an optional human-readable label, readable through
	// GetOptions; it plays no role in equality or caching. computedext's
	// logging and graph dump label nodes by LTag and state and do not read it.
	Name string
	// Clock is the time source used for lastAccessTime. Auto-invalidate
	// timers run on time.AfterFunc and do not read it.
	Clock clock.Clock
}

// Option mutates a ComputedOptions during construction.
type Option func(*ComputedOptions)

// WithAutoInvalidateTime arms a timer that invalidates a successful result
// after d.
func WithAutoInvalidateTime(d time.Duration) Option {
	return func(o *ComputedOptions) { o.AutoInvalidateTime = d }
}

// WithErrorAutoInvalidateTime arms a timer that invalidates an error result
// after d.
func WithErrorAutoInvalidateTime(d time.Duration) Option {
	return func(o *ComputedOptions) { o.ErrorAutoInvalidateTime = d }
}

// WithName attaches a debug label to the node.
func WithName(name string) Option {
	return func(o *ComputedOptions) { o.Name = name }
}

// WithClock overrides the time source, primarily for tests.
func WithClock(c clock.Clock) Option {
	return func(o *ComputedOptions) { o.Clock = c }
}

func newOptions(opts ...Option) ComputedOptions {
	o := ComputedOptions{Clock: clock.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
