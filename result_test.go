package computed

import (
	"errors"
	"testing"
)

type freezeSpy struct {
	frozen bool
}

func (f *freezeSpy) Freeze() { f.frozen = true }

func TestResult_ValueAndError(t *testing.T) {
	v := ValueResult(42)
	if !v.HasValue() || v.HasError() {
		t.Fatal("ValueResult should report HasValue, not HasError")
	}
	if v.Unwrap() != 42 {
		t.Fatalf("expected 42, got %d", v.Unwrap())
	}
	if v.ThrowIfError() != nil {
		t.Fatal("ThrowIfError should be nil for a value result")
	}

	cause := errors.New("boom")
	e := ErrorResult[int](cause)
	if !e.HasError() || e.HasValue() {
		t.Fatal("ErrorResult should report HasError, not HasValue")
	}
	if !errors.Is(e.ThrowIfError(), cause) {
		t.Fatal("ThrowIfError should wrap the original cause so errors.Is still matches")
	}
}

func TestResult_UnwrapPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Unwrap should panic when the result holds an error")
		}
	}()
	ErrorResult[int](errors.New("boom")).Unwrap()
}

func TestResult_IsValue(t *testing.T) {
	var out int
	if !ValueResult(5).IsValue(&out) || out != 5 {
		t.Fatal("IsValue should report true and write through for a value result")
	}
	if ErrorResult[int](errors.New("x")).IsValue(&out) {
		t.Fatal("IsValue should report false for an error result")
	}
}

func TestResult_FreezeAppliesOnce(t *testing.T) {
	spy := &freezeSpy{}
	r := ValueResult[*freezeSpy](spy)
	r.freeze()
	if !spy.frozen {
		t.Fatal("freeze should invoke Freeze on a Freezable value")
	}
}

func TestErrorResult_NilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("ErrorResult(nil) should panic")
		}
	}()
	ErrorResult[int](nil)
}
