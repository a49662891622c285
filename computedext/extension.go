// Package computedext carries the observability layer around the core
// computed package: an extension hook surface, a structured-logging
// extension, and a dependency-graph dump helper. None of it is load-bearing
// for the state machine itself — every hook here is best-effort and must
// never be able to change what Invalidate/Update/Use do.
package computedext

import (
	"context"

	"github.com/pumped-fn/computed"
)

// OperationKind names the core operation an Extension is being told about,
// mirroring the teacher's pumped.OperationKind.
type OperationKind string

const (
	OpUpdate     OperationKind = "update"
	OpUse        OperationKind = "use"
	OpInvalidate OperationKind = "invalidate"
)

// Operation describes a single core call an Extension observes.
type Operation struct {
	Kind OperationKind
	Node computed.AnyComputed
}

// Extension is the hook surface a caller can install around core
// operations, in the teacher's Wrap/OnError shape (extension.go).
type Extension interface {
	Name() string
	Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error)
	OnError(err error, op *Operation)
	OnInvalidate(node computed.AnyComputed)
}

// BaseExtension is an embeddable no-op Extension, the same convenience base
// the teacher provides so concrete extensions only override what they need.
type BaseExtension struct {
	name string
}

func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (b BaseExtension) Name() string { return b.name }

func (b BaseExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (b BaseExtension) OnError(err error, op *Operation) {}

func (b BaseExtension) OnInvalidate(node computed.AnyComputed) {}
