// Package sassbin ties the configuration, installer, and runner together into
// the operations exposed by the CLI.
package sassbin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/sassbin/sassbin/internal/config"
	"github.com/sassbin/sassbin/internal/model"
	"github.com/sassbin/sassbin/internal/system"
)

// Installer is the interface for installing compiler executables.
type Installer interface {
	// Installed checks whether every executable the target requires exists.
	Installed(target model.Target) bool
	// Install downloads and places the executables for the version and target.
	Install(ctx context.Context, version model.Version, target model.Target) error
}

// Runner is the interface for running compiler invocations.
type Runner interface {
	// Run launches the compiler executables for the profile and returns the
	// child exit status.
	Run(
		ctx context.Context,
		execPaths []string,
		profile model.Profile,
		extraArgs []string,
	) (int, error)
}

// App is an application that installs and runs the dart-sass compiler.
type App struct {
	cfg       *config.Config
	exec      system.Exec
	installer Installer
	runner    Runner
	stdOut    io.Writer
	target    model.Target
	workspace system.Workspace
}

// NewApp creates a new App.
func NewApp(
	cfg *config.Config,
	exec system.Exec,
	installer Installer,
	runner Runner,
	workspace system.Workspace,
	target model.Target,
	stdOut io.Writer,
) *App {
	return &App{
		cfg:       cfg,
		exec:      exec,
		installer: installer,
		runner:    runner,
		stdOut:    stdOut,
		target:    target,
		workspace: workspace,
	}
}

// ExecutablePaths returns the compiler invocation paths: the configured path
// override when set, otherwise the cache paths for the resolved target.
func (a *App) ExecutablePaths() []string {
	if len(a.cfg.Path) > 0 {
		return a.cfg.Path
	}

	return a.target.ExecutablePaths(a.workspace.GetBinPath())
}

// Install installs the configured compiler version for the resolved target.
// When ifMissing is set, an existing complete installation is left untouched.
// A configured path override makes installation a no-op.
func (a *App) Install(ctx context.Context, ifMissing bool) error {
	if len(a.cfg.Path) > 0 {
		slog.Default().Debug("executable path override set, skipping install")
		return nil
	}

	if ifMissing && a.installer.Installed(a.target) {
		return nil
	}

	return a.installer.Install(ctx, a.cfg.ConfiguredVersion(), a.target)
}

// BinVersion reports the version of the compiler currently resolved by the
// executable paths, by invoking it with --version.
func (a *App) BinVersion(ctx context.Context) (model.Version, error) {
	paths := a.ExecutablePaths()
	args := append(append([]string{}, paths[1:]...), "--version")

	out, err := a.exec.CombinedOutput(ctx, paths[0], args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("read compiler version: %w", err)
	}

	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "", fmt.Errorf("unexpected compiler version output %q", string(out))
	}

	version := model.NewVersion(fields[0])
	if !version.IsValid() {
		return "", fmt.Errorf("unexpected compiler version output %q", string(out))
	}

	return version, nil
}

// Run runs the named profile with extraArgs appended after the configured
// arguments and returns the compiler exit status. When the installed compiler
// version differs from the configured one a warning is logged; the run
// proceeds with the installed compiler.
func (a *App) Run(ctx context.Context, profileName string, extraArgs []string) (int, error) {
	profile, err := a.cfg.Profile(profileName)
	if err != nil {
		return 0, err
	}

	if len(a.cfg.Path) == 0 {
		a.warnOnStaleVersion(ctx)
	}

	return a.runner.Run(ctx, a.ExecutablePaths(), profile, extraArgs)
}

// InstallAndRun installs the configured compiler version unless it is already
// present, then runs the named profile. Concurrent calls against a shared
// cache are safe: installation works in private scratch directories and only
// whole files are copied into place.
func (a *App) InstallAndRun(
	ctx context.Context,
	profileName string,
	extraArgs []string,
) (int, error) {
	if err := a.Install(ctx, true); err != nil {
		return 0, err
	}

	return a.Run(ctx, profileName, extraArgs)
}

// PrintVersion prints the sassbin version, Go version, OS, and architecture
// to the standard output (or another defined io.Writer).
func (a *App) PrintVersion() error {
	fmt.Fprintf(
		a.stdOut,
		"%s (%s %s/%s)\n",
		mainVersion(),
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)

	return nil
}

// PrintShortVersion prints the sassbin version to the standard output (or
// another defined io.Writer).
func (a *App) PrintShortVersion() error {
	fmt.Fprintln(a.stdOut, mainVersion())
	return nil
}

// warnOnStaleVersion logs a warning when the installed compiler version does
// not match the configured one. Version probing failures are logged at debug
// level only, so a broken installation surfaces through the run itself.
func (a *App) warnOnStaleVersion(ctx context.Context) {
	installed, err := a.BinVersion(ctx)
	if err != nil {
		slog.Default().Debug("error reading installed compiler version", "err", err)
		return
	}

	configured := a.cfg.ConfiguredVersion()
	if !installed.Equal(configured) {
		slog.Default().Warn(
			"installed compiler version differs from configured version",
			"installed", installed.String(),
			"configured", configured.String(),
		)
	}
}

// mainVersion returns the module version of the running binary.
func mainVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "(devel)"
}
