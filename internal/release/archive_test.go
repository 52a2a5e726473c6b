package release_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sassbin/sassbin/internal/model"
	"github.com/sassbin/sassbin/internal/release"
)

func TestArchiveName(t *testing.T) {
	cases := map[string]struct {
		version  model.Version
		target   model.Target
		expected string
	}{
		"linux-tar-gz": {
			version:  model.NewVersion("1.58.0"),
			target:   model.TargetLinuxX64,
			expected: "dart-sass-1.58.0-linux-x64.tar.gz",
		},
		"musl-tar-gz": {
			version:  model.NewVersion("1.61.0"),
			target:   model.TargetLinuxArm64Musl,
			expected: "dart-sass-1.61.0-linux-arm64-musl.tar.gz",
		},
		"windows-zip": {
			version:  model.NewVersion("1.58.0"),
			target:   model.TargetWindowsX64,
			expected: "dart-sass-1.58.0-windows-x64.zip",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, release.ArchiveName(tc.version, tc.target))
		})
	}
}

func TestArchiveURL(t *testing.T) {
	url := release.ArchiveURL("", model.NewVersion("1.58.0"), model.TargetMacOSX64)
	assert.Equal(
		t,
		"https://github.com/sass/dart-sass/releases/download/1.58.0/dart-sass-1.58.0-macos-x64.tar.gz",
		url,
	)

	url = release.ArchiveURL("http://mirror.local/releases/", model.NewVersion("1.58.0"), model.TargetLinuxX64)
	assert.Equal(
		t,
		"http://mirror.local/releases/1.58.0/dart-sass-1.58.0-linux-x64.tar.gz",
		url,
	)
}
