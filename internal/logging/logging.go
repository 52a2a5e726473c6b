// Package logging builds the application logger: a text slog logger whose
// records carry the source location that emitted them.
package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
)

// callerHandler decorates each record with a "caller" attribute resolved from
// the record's program counter, trimmed to a module-relative path.
type callerHandler struct {
	inner   slog.Handler
	modName string
}

func (h *callerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *callerHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			r.AddAttrs(slog.String("caller", h.location(frame)))
		}
	}

	return h.inner.Handle(ctx, r)
}

func (h *callerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &callerHandler{
		inner:   h.inner.WithAttrs(attrs),
		modName: h.modName,
	}
}

func (h *callerHandler) WithGroup(name string) slog.Handler {
	return &callerHandler{
		inner:   h.inner.WithGroup(name),
		modName: h.modName,
	}
}

// location renders "file:line", with the file path made relative to the
// module root when the module name appears in it.
func (h *callerHandler) location(frame runtime.Frame) string {
	file := filepath.Base(frame.File)
	if h.modName != "" {
		if idx := strings.Index(frame.File, h.modName+"/"); idx != -1 {
			file = frame.File[idx+len(h.modName)+1:]
		}
	}

	return file + ":" + strconv.Itoa(frame.Line)
}

// NewLogger creates the application logger at the given level. Records go to
// standard error so they never interleave with the compiler output on
// standard output.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(&callerHandler{
		modName: mainModuleName(),
		inner: slog.NewTextHandler(
			os.Stderr,
			&slog.HandlerOptions{
				Level: level,
			},
		),
	})
}

// mainModuleName returns the last path element of the main module, used to
// shorten caller file paths.
func mainModuleName() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Path == "" {
		return ""
	}

	parts := strings.Split(info.Main.Path, "/")
	return parts[len(parts)-1]
}
