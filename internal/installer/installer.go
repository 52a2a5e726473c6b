// Package installer downloads dart-sass release archives and places the
// compiler executables at their deterministic cache paths.
package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sassbin/sassbin/internal/model"
	"github.com/sassbin/sassbin/internal/release"
	"github.com/sassbin/sassbin/internal/system"
)

// MinSnapshotVersion is the lowest dart-sass version whose release archives
// use the current packaging layout for snapshot targets. Older Windows
// archives are laid out differently and are not supported.
var MinSnapshotVersion = model.NewVersion("1.58.0")

// ErrVersionBelowFloor is returned when the configured version predates the
// minimum supported release for the target.
var ErrVersionBelowFloor = errors.New("version below supported floor")

// Fetcher downloads a release URL into memory.
type Fetcher interface {
	// Fetch performs a GET against the given URL and returns the response
	// body.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Installer installs compiler executables into the cache workspace. Multiple
// installers may run concurrently against a shared cache: each one works in
// its own scratch directory and only the final whole-file copy touches the
// shared paths, so a competing install is either fully before or fully after.
type Installer struct {
	fetcher     Fetcher
	fs          system.FileSystem
	workspace   system.Workspace
	releaseHost string
}

// NewInstaller creates a new installer. An empty releaseHost selects the
// upstream default.
func NewInstaller(
	fetcher Fetcher,
	fs system.FileSystem,
	workspace system.Workspace,
	releaseHost string,
) *Installer {
	return &Installer{
		fetcher:     fetcher,
		fs:          fs,
		workspace:   workspace,
		releaseHost: releaseHost,
	}
}

// Installed checks whether every executable the target requires exists in the
// cache. Partial existence counts as not installed.
func (i *Installer) Installed(target model.Target) bool {
	for _, path := range target.ExecutablePaths(i.workspace.GetBinPath()) {
		if !i.fs.Exists(path) {
			return false
		}
	}

	return true
}

// Install downloads the release archive for the version and target, extracts
// it into a private scratch directory, and copies the executables into their
// cache paths, replacing any existing files. It returns an error for versions
// below the supported floor of the target.
func (i *Installer) Install(ctx context.Context, version model.Version, target model.Target) error {
	logger := slog.Default().With(
		"install_id", uuid.NewString(),
		"version", version.String(),
		"target", target.String(),
	)

	if err := checkVersionFloor(version, target); err != nil {
		logger.Error("unsupported version", "err", err)
		return err
	}

	scratchDir, cleanup, err := i.fs.CreateTempDir(i.workspace.GetScratchPath(), "install-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if cleanupErr := cleanup(); cleanupErr != nil {
			logger.Warn("error cleaning up scratch dir", "err", cleanupErr)
		}
	}()

	archiveName := release.ArchiveName(version, target)
	url := release.ArchiveURL(i.releaseHost, version, target)

	logger.Info("downloading release archive", "url", url)
	archive, err := i.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	extractor, err := release.ExtractorFor(archiveName)
	if err != nil {
		return err
	}

	if err = extractor.Extract(archive, scratchDir); err != nil {
		return fmt.Errorf("extract %s: %w", archiveName, err)
	}

	if err = i.place(scratchDir, target); err != nil {
		return err
	}

	logger.Info("installed compiler executables")
	return nil
}

// place copies the extracted executables into their shared cache paths. Any
// pre-existing file is removed first; a missing file is not an error.
func (i *Installer) place(scratchDir string, target model.Target) error {
	sources := target.ArchiveExecutables()
	targets := target.ExecutablePaths(i.workspace.GetBinPath())

	for idx, source := range sources {
		sourcePath := filepath.Join(scratchDir, source)
		targetPath := targets[idx]

		if err := i.fs.RemoveIfExists(targetPath); err != nil {
			return fmt.Errorf("remove %s: %w", targetPath, err)
		}

		//nolint:mnd // executables need the exec bits
		if err := i.fs.CopyFile(sourcePath, targetPath, 0755); err != nil {
			return fmt.Errorf("install %s: %w", targetPath, err)
		}
	}

	return nil
}

// checkVersionFloor enforces the minimum supported version on targets using
// the snapshot packaging layout.
func checkVersionFloor(version model.Version, target model.Target) error {
	if target.UsesSnapshot() && version.Before(MinSnapshotVersion) {
		return fmt.Errorf(
			"%w: %s requires dart-sass %s or later, got %s",
			ErrVersionBelowFloor, target, MinSnapshotVersion, version,
		)
	}

	return nil
}
