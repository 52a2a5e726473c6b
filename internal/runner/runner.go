// Package runner launches the installed compiler as a child process, merging
// profile arguments with caller-supplied ones and streaming the combined
// output as it is produced.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/sassbin/sassbin/internal/model"
	"github.com/sassbin/sassbin/internal/system"
)

// watchFlag marks a long-lived watch-mode invocation.
const watchFlag = "--watch"

// Runner runs compiler invocations for profiles.
type Runner struct {
	exec    system.Exec
	runtime system.Runtime
	stdin   io.Reader
	output  io.Writer
}

// NewRunner creates a new runner. stdin is the input stream monitored by the
// watch-mode guard; output receives the combined stdout and stderr of the
// child.
func NewRunner(
	exec system.Exec,
	runtime system.Runtime,
	stdin io.Reader,
	output io.Writer,
) *Runner {
	return &Runner{
		exec:    exec,
		runtime: runtime,
		stdin:   stdin,
		output:  output,
	}
}

// Run launches the compiler executables for the profile with extraArgs
// appended after the configured arguments, so callers can override configured
// flag behavior. It blocks until the child terminates and returns its exit
// status. Watch-mode invocations on non-Windows hosts are supervised: when
// the runner's input stream reaches end-of-stream the child is forcefully
// killed, so an abruptly terminated parent never leaves an orphaned compiler
// behind.
func (r *Runner) Run(
	ctx context.Context,
	execPaths []string,
	profile model.Profile,
	extraArgs []string,
) (int, error) {
	if len(execPaths) == 0 {
		return 0, fmt.Errorf("no executable paths for profile %q", profile.Name)
	}

	args := make([]string, 0, len(execPaths)-1+len(profile.Args)+len(extraArgs))
	args = append(args, execPaths[1:]...)
	args = append(args, profile.Args...)
	args = append(args, extraArgs...)

	logger := slog.Default().With("profile", profile.Name, "cmd", execPaths[0])

	spec := system.StreamSpec{
		Name:   execPaths[0],
		Args:   args,
		Dir:    profile.Dir,
		Env:    flattenEnv(profile.Env),
		Output: r.output,
	}

	stream := r.exec.Stream(ctx, spec)
	if err := stream.Start(); err != nil {
		logger.Error("error starting compiler", "err", err)
		return 0, err
	}

	done := make(chan struct{})
	if r.guarded(args) {
		r.superviseStdin(stream, done, logger)
	}

	status, err := stream.Wait()
	close(done)
	if err != nil {
		logger.Error("error waiting for compiler", "err", err)
		return 0, err
	}

	return status, nil
}

// guarded reports whether the invocation needs the stdin lifetime guard. The
// compiler does not exit on its own when its input closes, so long-lived
// watch runs are supervised on Unix hosts.
func (r *Runner) guarded(args []string) bool {
	return slices.Contains(args, watchFlag) && r.runtime.OS() != "windows"
}

// superviseStdin watches the runner's input stream in the background and
// kills the child once it reaches end-of-stream. The supervisor stands down
// when done closes, so a child that exits on its own is not killed after the
// fact.
func (r *Runner) superviseStdin(stream system.ExecStream, done <-chan struct{}, logger *slog.Logger) {
	eof := make(chan struct{})
	go func() {
		_, _ = io.Copy(io.Discard, r.stdin)
		close(eof)
	}()

	go func() {
		select {
		case <-done:
		case <-eof:
			logger.Info("input stream closed, terminating compiler")
			if err := stream.Kill(); err != nil {
				logger.Warn("error terminating compiler", "err", err)
			}
		}
	}()
}

// flattenEnv converts a profile environment map to "KEY=VALUE" form.
func flattenEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	flat := make([]string, 0, len(env))
	for key, value := range env {
		flat = append(flat, key+"="+value)
	}

	return flat
}
