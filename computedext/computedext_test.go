package computedext

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/pumped-fn/computed"
)

type testInput struct {
	id int
}

func (testInput) TryGetCachedComputed(lTag computed.LTag) (computed.AnyComputed, bool) {
	return nil, false
}

func newTestNode(id int) *computed.Computed[testInput, int] {
	node := computed.NewBlank[testInput, int](testInput{id: id}, nil)
	node.TrySetOutput(computed.ValueResult(id))
	return node
}

func TestDebugExtension_OnErrorLogs(t *testing.T) {
	var buf bytes.Buffer
	ext := NewDebugExtension(slog.NewTextHandler(&buf, nil))

	node := newTestNode(1)
	ext.OnError(errors.New("boom"), &Operation{Kind: OpUpdate, Node: node})

	if buf.Len() == 0 {
		t.Fatal("expected OnError to produce log output")
	}
}

func TestSilentHandler_NeverEnabled(t *testing.T) {
	h := NewSilentHandler()
	if h.Enabled(nil, slog.LevelError) {
		t.Fatal("SilentHandler should never be enabled")
	}
}

func TestDumpGraph_RendersDependencyTree(t *testing.T) {
	a := newTestNode(1)
	b := computed.NewBlank[testInput, int](testInput{id: 2}, nil)
	if err := b.AddUsed(a); err != nil {
		t.Fatalf("AddUsed: %v", err)
	}
	b.TrySetOutput(computed.ValueResult(2))

	var out bytes.Buffer
	if err := DumpGraph(&out, b); err != nil {
		t.Fatalf("DumpGraph: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected DumpGraph to write a non-empty tree")
	}
}
