package computed

import "testing"

func TestWithCurrentComputation_InstallsAndRestores(t *testing.T) {
	if GetCurrentComputation() != nil {
		t.Fatal("ambient computation must start nil for this goroutine")
	}

	store := newTestStore()
	node := newBlankIntNode(store, 1)

	var observed AnyComputed
	WithCurrentComputation(node, func() {
		observed = GetCurrentComputation()
	})

	if observed != AnyComputed(node) {
		t.Fatal("WithCurrentComputation must make node observable inside fn")
	}
	if GetCurrentComputation() != nil {
		t.Fatal("ambient computation must be restored after fn returns")
	}
}

func TestWithCurrentComputation_RestoresOnPanic(t *testing.T) {
	store := newTestStore()
	outer := newBlankIntNode(store, 1)
	inner := newBlankIntNode(store, 2)

	WithCurrentComputation(outer, func() {
		func() {
			defer func() { _ = recover() }()
			WithCurrentComputation(inner, func() {
				panic("boom")
			})
		}()
		if GetCurrentComputation() != AnyComputed(outer) {
			t.Fatal("a panicking inner computation must still restore the outer one")
		}
	})

	if GetCurrentComputation() != nil {
		t.Fatal("ambient computation must be nil again once the outer call returns")
	}
}
