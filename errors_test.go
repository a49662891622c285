package computed

import (
	"errors"
	"testing"
)

func TestWrongStateError_CarriesState(t *testing.T) {
	store := newTestStore()
	node := newBlankIntNode(store, 1)
	err := newWrongStateError(node, "AddUsed", StateConsistent)
	if err.State != StateConsistent {
		t.Fatalf("expected StateConsistent, got %s", err.State)
	}
	if err.Op != "AddUsed" {
		t.Fatalf("expected Op=AddUsed, got %s", err.Op)
	}
	if len(err.StackTrace) == 0 {
		t.Fatal("expected a non-empty captured stack trace")
	}
}

func TestComputationError_Unwraps(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := &ComputationError{Cause: cause}
	if !errors.Is(wrapped, cause) {
		t.Fatal("errors.Is should see through ComputationError to its cause")
	}
}
