package tmux

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes tmux commands.
type Runner interface {
	// Output runs a command and returns its combined output.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
	// Interactive runs a command attached to the user's terminal.
	Interactive(ctx context.Context, dir, name string, args ...string) error
}

// CommandError reports a failed command together with its output.
type CommandError struct {
	Command string
	Args    []string
	Dir     string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Command, strings.Join(e.Args, " "))
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner wired to the process's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.CombinedOutput()
	result := strings.TrimSpace(strings.ToValidUTF8(string(output), "\uFFFD"))
	if err != nil {
		return result, &CommandError{Command: name, Args: args, Dir: dir, Output: result, Err: err}
	}
	return result, nil
}

func (r *ExecRunner) Interactive(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return &CommandError{Command: name, Args: args, Dir: dir, Err: err}
	}
	return nil
}
