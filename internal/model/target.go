package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Target identifies one platform/architecture/ABI combination for which an
// upstream dart-sass release archive exists. The string form is used both to
// build the download URL and to namespace cached binary filenames, so multiple
// architectures can share one cache directory.
type Target string

// Known targets. The set is closed: resolution either yields one of these or
// fails with ErrUnsupportedTarget.
const (
	TargetLinuxX64       Target = "linux-x64"
	TargetLinuxX64Musl   Target = "linux-x64-musl"
	TargetLinuxIA32      Target = "linux-ia32"
	TargetLinuxIA32Musl  Target = "linux-ia32-musl"
	TargetLinuxArm       Target = "linux-arm"
	TargetLinuxArmMusl   Target = "linux-arm-musl"
	TargetLinuxArm64     Target = "linux-arm64"
	TargetLinuxArm64Musl Target = "linux-arm64-musl"
	TargetMacOSX64       Target = "macos-x64"
	TargetMacOSArm64     Target = "macos-arm64"
	TargetWindowsX64     Target = "windows-x64"
	TargetWindowsIA32    Target = "windows-ia32"
)

// ErrUnsupportedTarget is returned when the host platform has no known
// dart-sass release.
var ErrUnsupportedTarget = errors.New("unsupported target")

// ResolveTarget maps a host OS, CPU architecture and libc ABI to the canonical
// release target. OS and arch follow the Go runtime naming (GOOS/GOARCH); abi
// is empty or "musl". It returns ErrUnsupportedTarget for any combination
// outside the closed set, naming the offending triple.
func ResolveTarget(os, arch, abi string) (Target, error) {
	switch os {
	case "windows":
		switch arch {
		case "amd64":
			return TargetWindowsX64, nil
		case "386":
			return TargetWindowsIA32, nil
		}
	case "darwin":
		switch arch {
		case "amd64":
			return TargetMacOSX64, nil
		case "arm64":
			return substituteMacOSArm(), nil
		}
	case "linux":
		var base Target
		switch arch {
		case "amd64":
			base = TargetLinuxX64
		case "386":
			base = TargetLinuxIA32
		case "arm":
			base = TargetLinuxArm
		case "arm64":
			base = TargetLinuxArm64
		}

		if base != "" {
			if abi == "musl" {
				return base + "-musl", nil
			}
			return base, nil
		}
	}

	return "", fmt.Errorf("%w: %s-%s%s", ErrUnsupportedTarget, os, arch, abiSuffix(abi))
}

// substituteMacOSArm maps Apple Silicon hosts to the Intel release.
//
// Upstream does not yet publish a macos-arm64 archive, so arm64 Macs run the
// x64 binary under Rosetta. This is a deliberate, temporary substitution
// policy; delete this function and return TargetMacOSArm64 once upstream
// ships native arm64 archives.
func substituteMacOSArm() Target {
	return TargetMacOSX64
}

func abiSuffix(abi string) string {
	if abi == "" {
		return ""
	}
	return "-" + abi
}

// OS returns the leading platform token of the target ("linux", "macos",
// "windows").
func (t Target) OS() string {
	s := string(t)
	if idx := strings.Index(s, "-"); idx != -1 {
		return s[:idx]
	}
	return s
}

// UsesSnapshot reports whether releases for the target ship a Dart VM plus a
// bytecode snapshot instead of one standalone native executable. Only Windows
// targets use the pair layout.
func (t Target) UsesSnapshot() bool {
	return t.OS() == "windows"
}

// ArchiveExt returns the release archive extension for the target: ".zip" for
// Windows, ".tar.gz" elsewhere.
func (t Target) ArchiveExt() string {
	if t.OS() == "windows" {
		return ".zip"
	}
	return ".tar.gz"
}

// ExecutablePaths computes the deterministic cache paths of the executables
// required to run the compiler for the target: a single native binary for
// Unix targets, or the VM binary plus its snapshot for Windows. The second
// path, when present, is the snapshot consumed by the first. Pure function of
// its inputs; it never touches the filesystem.
func (t Target) ExecutablePaths(baseDir string) []string {
	if t.UsesSnapshot() {
		return []string{
			filepath.Join(baseDir, fmt.Sprintf("dart-%s.exe", t)),
			filepath.Join(baseDir, fmt.Sprintf("sass.snapshot-%s", t)),
		}
	}

	return []string{filepath.Join(baseDir, fmt.Sprintf("sass-%s", t))}
}

// ArchiveExecutables returns the archive-relative paths of the files that
// ExecutablePaths expects, in the same order. Release archives unpack into a
// top-level "dart-sass" directory.
func (t Target) ArchiveExecutables() []string {
	if t.UsesSnapshot() {
		return []string{
			filepath.Join("dart-sass", "src", "dart.exe"),
			filepath.Join("dart-sass", "src", "sass.snapshot"),
		}
	}

	return []string{filepath.Join("dart-sass", "sass")}
}

// String returns the string representation of the target.
func (t Target) String() string {
	return string(t)
}
