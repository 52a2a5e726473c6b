package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sassbin/sassbin/internal/config"
	"github.com/sassbin/sassbin/internal/installer"
	"github.com/sassbin/sassbin/internal/logging"
	"github.com/sassbin/sassbin/internal/model"
	"github.com/sassbin/sassbin/internal/release"
	"github.com/sassbin/sassbin/internal/runner"
	"github.com/sassbin/sassbin/internal/sassbin"
	"github.com/sassbin/sassbin/internal/system"
)

// fatalExitCode distinguishes sassbin failures from compiler exit statuses.
const fatalExitCode = 2

func main() {
	var configPath string
	var verbose bool

	// exit status of the compiler child; fatal errors exit through Execute.
	status := 0

	cmd := &cobra.Command{
		Use:   "sassbin",
		Short: "sassbin - CLI tool to install and run the dart-sass compiler",
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(logging.NewLogger(level))
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to the configuration file",
	)
	cmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	cmd.AddCommand(newRunCmd(&configPath, &status))
	cmd.AddCommand(newInstallCmd(&configPath))
	cmd.AddCommand(newVersionCmd())

	if err := cmd.Execute(); err != nil {
		os.Exit(fatalExitCode)
	}

	os.Exit(status)
}

func newRunCmd(configPath *string, status *int) *cobra.Command {
	return &cobra.Command{
		Use:           "run [profile] [-- args...]",
		Short:         "Install the configured compiler if needed and run a profile",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			app, err := newApp(*configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			exitStatus, err := app.InstallAndRun(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}

			*status = exitStatus
			return nil
		},
	}
}

func newInstallCmd(configPath *string) *cobra.Command {
	var ifMissing bool

	cmd := &cobra.Command{
		Use:           "install",
		Short:         "Install the configured compiler version",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			app, err := newApp(*configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return app.Install(cmd.Context(), ifMissing)
		},
	}

	cmd.Flags().BoolVar(
		&ifMissing,
		"if-missing",
		false,
		"Skip installation when the compiler is already present",
	)

	return cmd
}

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:           "version",
		Short:         "Shows the package version",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			app := sassbin.NewApp(
				&config.Config{},
				system.NewExec(),
				nil,
				nil,
				nil,
				"",
				cmd.OutOrStdout(),
			)

			if short {
				return app.PrintShortVersion()
			}

			return app.PrintVersion()
		},
	}

	cmd.Flags().BoolVarP(
		&short,
		"short",
		"s",
		false,
		"Print short version info",
	)

	return cmd
}

// newApp wires the application from the configuration and the host runtime.
func newApp(configPath string, output io.Writer) (*sassbin.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	env := system.NewEnvironment()
	fs := system.NewFileSystem()
	rt := system.NewRuntime()

	target, err := resolveTarget(cfg, rt)
	if err != nil {
		return nil, err
	}

	ws, err := system.NewWorkspace(env, fs)
	if err != nil {
		return nil, err
	}

	inst := installer.NewInstaller(release.NewFetcher(env), fs, ws, cfg.ReleaseHost)
	run := runner.NewRunner(system.NewExec(), rt, os.Stdin, output)

	return sassbin.NewApp(cfg, system.NewExec(), inst, run, ws, target, output), nil
}

// resolveTarget resolves the host release target. A configured executable
// path override bypasses detection entirely, so unsupported hosts can still
// run a compiler the user provides.
func resolveTarget(cfg *config.Config, rt system.Runtime) (model.Target, error) {
	if len(cfg.Path) > 0 {
		return "", nil
	}

	return model.ResolveTarget(rt.OS(), rt.Arch(), rt.ABI())
}
