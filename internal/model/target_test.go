package model_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sassbin/sassbin/internal/model"
)

func TestResolveTarget(t *testing.T) {
	cases := map[string]struct {
		os       string
		arch     string
		abi      string
		expected model.Target
	}{
		"linux-amd64": {
			os:       "linux",
			arch:     "amd64",
			expected: model.TargetLinuxX64,
		},
		"linux-amd64-musl": {
			os:       "linux",
			arch:     "amd64",
			abi:      "musl",
			expected: model.TargetLinuxX64Musl,
		},
		"linux-386": {
			os:       "linux",
			arch:     "386",
			expected: model.TargetLinuxIA32,
		},
		"linux-386-musl": {
			os:       "linux",
			arch:     "386",
			abi:      "musl",
			expected: model.TargetLinuxIA32Musl,
		},
		"linux-arm": {
			os:       "linux",
			arch:     "arm",
			expected: model.TargetLinuxArm,
		},
		"linux-arm64": {
			os:       "linux",
			arch:     "arm64",
			expected: model.TargetLinuxArm64,
		},
		"linux-arm64-musl": {
			os:       "linux",
			arch:     "arm64",
			abi:      "musl",
			expected: model.TargetLinuxArm64Musl,
		},
		"darwin-amd64": {
			os:       "darwin",
			arch:     "amd64",
			expected: model.TargetMacOSX64,
		},
		"darwin-arm64-substituted": {
			os:       "darwin",
			arch:     "arm64",
			expected: model.TargetMacOSX64,
		},
		"windows-amd64": {
			os:       "windows",
			arch:     "amd64",
			expected: model.TargetWindowsX64,
		},
		"windows-386": {
			os:       "windows",
			arch:     "386",
			expected: model.TargetWindowsIA32,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			target, err := model.ResolveTarget(tc.os, tc.arch, tc.abi)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, target)
		})
	}
}

func TestResolveTarget_Unsupported(t *testing.T) {
	cases := map[string]struct {
		os       string
		arch     string
		abi      string
		expected string
	}{
		"freebsd": {
			os:       "freebsd",
			arch:     "amd64",
			expected: "unsupported target: freebsd-amd64",
		},
		"linux-riscv64": {
			os:       "linux",
			arch:     "riscv64",
			expected: "unsupported target: linux-riscv64",
		},
		"linux-riscv64-musl": {
			os:       "linux",
			arch:     "riscv64",
			abi:      "musl",
			expected: "unsupported target: linux-riscv64-musl",
		},
		"windows-arm64": {
			os:       "windows",
			arch:     "arm64",
			expected: "unsupported target: windows-arm64",
		},
		"darwin-386": {
			os:       "darwin",
			arch:     "386",
			expected: "unsupported target: darwin-386",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			target, err := model.ResolveTarget(tc.os, tc.arch, tc.abi)
			assert.ErrorIs(t, err, model.ErrUnsupportedTarget)
			assert.EqualError(t, err, tc.expected)
			assert.Empty(t, target)
		})
	}
}

func TestTarget_ExecutablePaths(t *testing.T) {
	cases := map[string]struct {
		target   model.Target
		expected []string
	}{
		"native-single-binary": {
			target: model.TargetLinuxX64,
			expected: []string{
				filepath.Join("/cache", "sass-linux-x64"),
			},
		},
		"native-macos": {
			target: model.TargetMacOSX64,
			expected: []string{
				filepath.Join("/cache", "sass-macos-x64"),
			},
		},
		"snapshot-pair": {
			target: model.TargetWindowsX64,
			expected: []string{
				filepath.Join("/cache", "dart-windows-x64.exe"),
				filepath.Join("/cache", "sass.snapshot-windows-x64"),
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.target.ExecutablePaths("/cache"))
		})
	}
}

func TestTarget_ArchiveExt(t *testing.T) {
	assert.Equal(t, ".tar.gz", model.TargetLinuxX64.ArchiveExt())
	assert.Equal(t, ".tar.gz", model.TargetMacOSX64.ArchiveExt())
	assert.Equal(t, ".zip", model.TargetWindowsX64.ArchiveExt())
}

func TestTarget_ArchiveExecutables(t *testing.T) {
	assert.Equal(
		t,
		[]string{filepath.Join("dart-sass", "sass")},
		model.TargetLinuxArm64.ArchiveExecutables(),
	)
	assert.Equal(
		t,
		[]string{
			filepath.Join("dart-sass", "src", "dart.exe"),
			filepath.Join("dart-sass", "src", "sass.snapshot"),
		},
		model.TargetWindowsIA32.ArchiveExecutables(),
	)
}
