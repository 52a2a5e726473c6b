package system

import (
	"errors"
	"log/slog"
	"path/filepath"
)

// CacheDirEnvVar overrides the cache home location.
const CacheDirEnvVar = "SASSBIN_CACHE_DIR"

// ErrNoWritableCache is returned when neither the cache home nor the
// temporary fallback can be created.
var ErrNoWritableCache = errors.New("no writable cache location")

// Workspace is an interface that provides methods to interact with the cache
// workspace shared by installers and runners.
type Workspace interface {
	// GetBinPath returns the directory holding the installed compiler
	// executables.
	GetBinPath() string
	// GetScratchPath returns the directory under which installers create
	// their private scratch directories.
	GetScratchPath() string
}

// workspace is the default implementation of the Workspace interface.
type workspace struct {
	binPath     string
	scratchPath string

	env Environment
	fs  FileSystem
}

// NewWorkspace creates a new workspace rooted at the cache home: the
// SASSBIN_CACHE_DIR environment variable when set, otherwise the user cache
// directory, falling back to the system temporary directory when the user
// cache location cannot be created. It returns an error if no location is
// writable.
func NewWorkspace(
	env Environment,
	fs FileSystem,
) (Workspace, error) {
	ws := &workspace{
		env: env,
		fs:  fs,
	}

	if err := ws.init(); err != nil {
		return nil, err
	}

	return ws, nil
}

// GetBinPath returns the directory holding the installed compiler executables.
func (w *workspace) GetBinPath() string {
	return w.binPath
}

// GetScratchPath returns the directory under which installers create their
// private scratch directories.
func (w *workspace) GetScratchPath() string {
	return w.scratchPath
}

// init resolves and creates the workspace directories. It returns an error if
// neither the cache home nor the temporary fallback is writable.
func (w *workspace) init() error {
	logger := slog.Default()

	for _, base := range w.candidateBaseDirs() {
		binPath := filepath.Join(base, "bin")
		scratchPath := filepath.Join(base, "scratch")

		if err := w.createAll(binPath, scratchPath); err != nil {
			logger.Warn("cache location not writable", "dir", base, "err", err)
			continue
		}

		w.binPath = binPath
		w.scratchPath = scratchPath
		return nil
	}

	err := ErrNoWritableCache
	logger.Error("no writable cache location", "err", err)
	return err
}

// candidateBaseDirs returns the cache home candidates in preference order. An
// explicit override is authoritative and gets no fallback.
func (w *workspace) candidateBaseDirs() []string {
	if dir, ok := w.env.Get(CacheDirEnvVar); ok && dir != "" {
		return []string{dir}
	}

	var candidates []string
	if cacheDir, err := w.env.UserCacheDir(); err == nil {
		candidates = append(candidates, filepath.Join(cacheDir, "sassbin"))
	}

	return append(candidates, filepath.Join(w.env.TempDir(), "sassbin"))
}

// createAll creates the given directories with owner-only permissions.
func (w *workspace) createAll(dirs ...string) error {
	for _, dir := range dirs {
		//nolint:mnd // owner only permissions
		if err := w.fs.CreateDir(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}
