package system

import (
	"path/filepath"
	"runtime"
)

// Runtime is the interface for the host runtime.
type Runtime interface {
	// OS returns the operating system.
	OS() string
	// Arch returns the CPU architecture.
	Arch() string
	// ABI returns the libc ABI variant ("musl") or an empty string.
	ABI() string
}

// rt is the default implementation of the Runtime interface.
type rt struct{}

// NewRuntime creates a new runtime.
func NewRuntime() Runtime {
	return &rt{}
}

// OS returns the operating system.
func (r *rt) OS() string {
	return runtime.GOOS
}

// Arch returns the CPU architecture.
func (r *rt) Arch() string {
	return runtime.GOARCH
}

// ABI returns "musl" when the host is a musl-based Linux system, detected by
// the presence of the musl dynamic loader. Any other host returns an empty
// string.
func (r *rt) ABI() string {
	if runtime.GOOS != "linux" {
		return ""
	}

	matches, err := filepath.Glob("/lib/ld-musl-*.so.1")
	if err == nil && len(matches) > 0 {
		return "musl"
	}

	return ""
}
