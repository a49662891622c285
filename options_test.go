package computed

import (
	"testing"
	"time"
)

func TestOptions_SetOptionsOnlyWhileComputing(t *testing.T) {
	store := newTestStore()
	node := newBlankIntNode(store, 1, WithName("n"))
	if node.GetOptions().Name != "n" {
		t.Fatal("WithName should be applied at construction")
	}

	if err := node.SetOptions(func(o *ComputedOptions) { o.AutoInvalidateTime = time.Second }); err != nil {
		t.Fatalf("SetOptions should be legal while Computing: %v", err)
	}

	node.TrySetOutput(ValueResult(1))
	if err := node.SetOptions(func(o *ComputedOptions) { o.Name = "changed" }); err == nil {
		t.Fatal("SetOptions should fail once the node is Consistent")
	}
}
