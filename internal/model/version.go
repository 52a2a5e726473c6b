package model

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version represents a dart-sass release version. Upstream publishes bare
// semantic versions without the "v" prefix ("1.58.0"); the prefix is added
// internally where the semver package requires it.
type Version string

// NewVersion creates a new version from a version string.
func NewVersion(version string) Version {
	return Version(strings.TrimPrefix(strings.TrimSpace(version), "v"))
}

// Compare compares two versions. It returns -1, 0, or +1 depending on whether
// v is lower than, equal to, or higher than other.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.canonical(), other.canonical())
}

// Equal checks if two versions are exactly equal.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// IsValid checks if the version is a valid semantic version.
func (v Version) IsValid() bool {
	return semver.IsValid(v.canonical())
}

// Before checks if the version is strictly lower than other.
func (v Version) Before(other Version) bool {
	return v.Compare(other) < 0
}

// String returns the bare version string as published upstream.
func (v Version) String() string {
	return string(v)
}

// canonical returns the version in the "vX.Y.Z" form the semver package
// expects.
func (v Version) canonical() string {
	return "v" + string(v)
}
