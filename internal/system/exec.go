package system

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Exec is the interface for creating commands to be executed.
type Exec interface {
	// Stream creates a command whose combined output is streamed to a writer
	// as it is produced.
	Stream(ctx context.Context, spec StreamSpec) ExecStream
	// CombinedOutput creates a command that runs to completion and returns
	// the combined output.
	CombinedOutput(ctx context.Context, name string, args ...string) ExecCombinedOutput
}

// StreamSpec describes a streaming command invocation.
type StreamSpec struct {
	// Name is the executable to launch.
	Name string
	// Args are the arguments passed to the executable.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is the extra environment merged over the parent process environment,
	// in "KEY=VALUE" form.
	Env []string
	// Stdin is the standard input of the child; nil means no input.
	Stdin io.Reader
	// Output receives the combined stdout and stderr of the child as it is
	// produced.
	Output io.Writer
}

// ExecStream is an interface that represents a launched streaming command.
type ExecStream interface {
	// Start starts the command.
	Start() error
	// Wait waits for the command to terminate and returns its exit status. A
	// non-zero child exit is reported through the status, not the error.
	Wait() (int, error)
	// Kill forcefully terminates the command.
	Kill() error
}

// ExecCombinedOutput is an interface that represents a command that can be run
// and returns the combined output.
type ExecCombinedOutput interface {
	CombinedOutput() ([]byte, error)
}

// execCmd is the default implementation of the Exec interface.
type execCmd struct{}

// NewExec creates a new Exec.
func NewExec() Exec {
	return &execCmd{}
}

// Stream creates a new ExecStream that runs a command with streamed output.
func (e *execCmd) Stream(ctx context.Context, spec StreamSpec) ExecStream {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Output
	cmd.Stderr = spec.Output

	return &execStream{
		cmd: cmd,
	}
}

// CombinedOutput creates a new ExecCombinedOutput that runs a command.
func (e *execCmd) CombinedOutput(ctx context.Context, name string, args ...string) ExecCombinedOutput {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = os.Environ()

	return &execCombinedOutput{
		cmd: cmd,
	}
}

// execStream is the default implementation of ExecStream.
type execStream struct {
	cmd *exec.Cmd
}

// Start starts the command.
func (e *execStream) Start() error {
	return e.cmd.Start()
}

// Wait waits for the command to terminate. A non-zero exit or a termination by
// signal is reported through the exit status with a nil error; any other
// failure is returned as an error.
func (e *execStream) Wait() (int, error) {
	err := e.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, err
}

// Kill forcefully terminates the command.
func (e *execStream) Kill() error {
	if e.cmd.Process == nil {
		return nil
	}

	return e.cmd.Process.Kill()
}

// execCombinedOutput is the default implementation of ExecCombinedOutput that
// runs a command and returns the combined output.
type execCombinedOutput struct {
	cmd *exec.Cmd
}

// CombinedOutput runs the command and returns the combined output.
func (e *execCombinedOutput) CombinedOutput() ([]byte, error) {
	return e.cmd.CombinedOutput()
}
