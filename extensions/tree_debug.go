package extensions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	inaspects "github.com/surol/input-aspects"
)

// TreeDebugObserver logs a control tree dump when a control in the tree
// terminates with an error reason.
//
// Usage:
//
//	// Human-readable formatted output (with line breaks)
//	handler := extensions.NewHumanHandler(os.Stdout, slog.LevelError)
//	obs := extensions.NewTreeDebugObserver(root, handler)
//
//	// Structured JSON logging (compact, machine-readable)
//	handler := slog.NewJSONHandler(os.Stdout, nil)
//	obs := extensions.NewTreeDebugObserver(root, handler)
//
//	// Silent (for testing)
//	obs := extensions.NewTreeDebugObserver(root, extensions.NewSilentHandler())
type TreeDebugObserver struct {
	inaspects.BaseObserver
	root   inaspects.AnyControl
	logger *slog.Logger
}

// NewTreeDebugObserver creates a new tree debug observer rooted at root.
func NewTreeDebugObserver(root inaspects.AnyControl, handler slog.Handler) *TreeDebugObserver {
	return &TreeDebugObserver{
		BaseObserver: inaspects.NewBaseObserver("tree-debug"),
		root:         root,
		logger:       slog.New(handler),
	}
}

// OnDone dumps the tree when the terminated control carries an error reason.
func (o *TreeDebugObserver) OnDone(c inaspects.AnyControl, reason any) {
	err, ok := reason.(error)
	if !ok {
		return
	}

	o.logger.Error("Control Terminated With Error",
		"control", inaspects.ControlName(c),
		"error", err.Error(),
		"control_tree", FormatTree(o.root),
	)
}

// FormatTree renders a control tree with per-control status flags.
func FormatTree(root inaspects.AnyControl) string {
	var sb strings.Builder
	sb.WriteString("\n  ")
	sb.WriteString(describeControl(root))
	sb.WriteString("\n")
	formatSubtree(&sb, root, "  ")
	return sb.String()
}

func formatSubtree(sb *strings.Builder, c inaspects.AnyControl, prefix string) {
	cc, ok := c.(inaspects.Container)
	if !ok {
		return
	}
	children := cc.Controls()
	for i, child := range children {
		connector := "├─> "
		childPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└─> "
			childPrefix = prefix + "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(describeControl(child))
		sb.WriteString("\n")
		formatSubtree(sb, child, childPrefix)
	}
}

func describeControl(c inaspects.AnyControl) string {
	name := inaspects.ControlName(c)
	if c.IsDone() {
		return fmt.Sprintf("%s (done)", name)
	}
	flags := inaspects.AspectOf(c, inaspects.StatusKey).Flags()
	marks := make([]string, 0, 3)
	if flags.HasFocus {
		marks = append(marks, "focus")
	}
	if flags.Touched {
		marks = append(marks, "touched")
	}
	if flags.Edited {
		marks = append(marks, "edited")
	}
	if len(marks) == 0 {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, strings.Join(marks, " "))
}

// SilentHandler is a slog.Handler that discards all log output
// Useful for testing when you don't want log output
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h
}

// HumanHandler is a slog.Handler that formats logs for human readability
// with proper line breaks (especially for control tree dumps)
type HumanHandler struct {
	writer io.Writer
	level  slog.Level
}

// NewHumanHandler creates a new human-readable log handler
func NewHumanHandler(writer io.Writer, level slog.Level) *HumanHandler {
	return &HumanHandler{
		writer: writer,
		level:  level,
	}
}

func (h *HumanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *HumanHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Message == "Control Terminated With Error" {
		return h.handleTreeDump(record)
	}

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

func (h *HumanHandler) handleTreeDump(record slog.Record) error {
	var control, errorMsg, tree string

	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "control":
			control = a.Value.String()
		case "error":
			errorMsg = a.Value.String()
		case "control_tree":
			tree = a.Value.String()
		}
		return true
	})

	writes := []func() error{
		func() error { _, err := fmt.Fprintln(h.writer); return err },
		func() error { _, err := fmt.Fprintln(h.writer, strings.Repeat("=", 70)); return err },
		func() error { _, err := fmt.Fprintln(h.writer, "[TreeDebug] Control Terminated With Error"); return err },
		func() error { _, err := fmt.Fprintln(h.writer, strings.Repeat("=", 70)); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "\nControl: %s\n", control); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "Error: %s\n", errorMsg); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "\nControl Tree:%s", tree); return err },
		func() error { _, err := fmt.Fprintln(h.writer, strings.Repeat("=", 70)); return err },
		func() error { _, err := fmt.Fprintln(h.writer); return err },
	}

	for _, write := range writes {
		if err := write(); err != nil {
			return err
		}
	}

	return nil
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *HumanHandler) WithGroup(name string) slog.Handler {
	return h
}
