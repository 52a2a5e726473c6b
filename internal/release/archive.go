// Package release locates, downloads, and unpacks upstream dart-sass release
// archives.
package release

import (
	"fmt"
	"strings"

	"github.com/sassbin/sassbin/internal/model"
)

// DefaultHost is the upstream release-hosting URL prefix. Archives live at
// <host>/<version>/dart-sass-<version>-<target>.<ext>.
const DefaultHost = "https://github.com/sass/dart-sass/releases/download"

// ArchiveName returns the release archive filename for a version and target.
func ArchiveName(version model.Version, target model.Target) string {
	return fmt.Sprintf("dart-sass-%s-%s%s", version, target, target.ArchiveExt())
}

// ArchiveURL returns the download URL of the release archive on the given
// host. An empty host selects the upstream default.
func ArchiveURL(host string, version model.Version, target model.Target) string {
	if host == "" {
		host = DefaultHost
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(host, "/"), version, ArchiveName(version, target))
}
