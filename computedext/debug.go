package computedext

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pumped-fn/computed"
)

// DebugExtension logs state transitions and invalidation errors through a
// slog.Handler, adapted from the teacher's GraphDebugExtension
// (extensions/graph_debug.go). Unlike the teacher's version it has no
// dependency resolution to narrate; it logs the two events the core
// actually exposes: a failed Update/Use, and an invalidation reaching a node.
type DebugExtension struct {
	BaseExtension
	logger *slog.Logger
}

// NewDebugExtension builds a DebugExtension logging through handler. Use
// NewSilentHandler() for tests, NewHumanHandler(w, level) for CLI output, or
// any other slog.Handler (e.g. slog.NewJSONHandler) for structured logs.
func NewDebugExtension(handler slog.Handler) *DebugExtension {
	return &DebugExtension{
		BaseExtension: NewBaseExtension("computed-debug"),
		logger:        slog.New(handler),
	}
}

func (e *DebugExtension) Wrap(ctx context.Context, next func() (any, error), op *Operation) (any, error) {
	result, err := next()
	if err != nil {
		e.OnError(err, op)
	}
	return result, err
}

func (e *DebugExtension) OnError(err error, op *Operation) {
	e.logger.Error("computed operation failed",
		"operation", string(op.Kind),
		"node", nodeLabel(op.Node),
		"error", err.Error(),
	)
}

func (e *DebugExtension) OnInvalidate(node computed.AnyComputed) {
	e.logger.Debug("computed node invalidated",
		"node", nodeLabel(node),
	)
}

func nodeLabel(node computed.AnyComputed) string {
	if node == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s/%s", node.GetLTag(), node.GetState())
}

// SilentHandler discards everything; useful in tests that don't want log
// noise but still want to exercise the extension path.
type SilentHandler struct{}

func NewSilentHandler() *SilentHandler { return &SilentHandler{} }

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool { return false }
func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error { return nil }
func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler             { return h }
func (h *SilentHandler) WithGroup(name string) slog.Handler                  { return h }

// HumanHandler renders log records as indented text, for CLI/demo use.
type HumanHandler struct {
	writer io.Writer
	level  slog.Level
}

func NewHumanHandler(writer io.Writer, level slog.Level) *HumanHandler {
	return &HumanHandler{writer: writer, level: level}
}

func (h *HumanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *HumanHandler) Handle(ctx context.Context, record slog.Record) error {
	if _, err := fmt.Fprintf(h.writer, "[%s] %s\n", record.Level, record.Message); err != nil {
		return err
	}
	var writeErr error
	record.Attrs(func(a slog.Attr) bool {
		if _, err := fmt.Fprintf(h.writer, "  %s: %v\n", a.Key, a.Value); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	return writeErr
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *HumanHandler) WithGroup(name string) slog.Handler       { return h }
