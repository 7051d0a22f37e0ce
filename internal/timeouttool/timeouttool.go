// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package timeouttool locates a wall-clock timeout command and runs
// subprocesses under it.
package timeouttool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

const (
	binTimeout  = "timeout"
	binGtimeout = "gtimeout"
)

// GNU timeout exit statuses when the budget expires: 124 on SIGTERM,
// 137 when the process had to be SIGKILLed.
const (
	exitExpired = 124
	exitKilled  = 137
)

// Result describes how a wrapped process ended.
type Result struct {
	// ExitCode is the exit status as seen by the timeout tool. -1 means
	// the process could not be started.
	ExitCode int

	// TimedOut reports whether the timeout tool terminated the process.
	TimedOut bool
}

// Tool runs a command line under a wall-clock budget.
type Tool interface {
	// Name returns the tool's binary name ("timeout" or "gtimeout").
	Name() string

	// Run executes argv as `<tool> <budget> argv...`, streaming the
	// process output to stdout and stderr. A non-nil error means the
	// wrapper process itself could not be run; a non-zero exit status of
	// the wrapped command is reported through Result, not the error.
	Run(ctx context.Context, budget time.Duration, argv []string, stdout, stderr io.Writer) (Result, error)
}

// executor abstracts PATH lookup and command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

var defaultExec executor = &osExecutor{}

// tool implements Tool for a specific timeout binary.
type tool struct {
	bin  string
	exec executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Run(ctx context.Context, budget time.Duration, argv []string, stdout, stderr io.Writer) (Result, error) {
	if len(argv) == 0 {
		return Result{ExitCode: -1}, fmt.Errorf("empty command line")
	}

	args := make([]string, 0, len(argv)+1)
	args = append(args, FormatBudget(budget))
	args = append(args, argv...)

	code, err := t.exec.Run(ctx, t.bin, args, stdout, stderr)
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("running %s under %s: %w", argv[0], t.bin, err)
	}

	return Result{
		ExitCode: code,
		TimedOut: code == exitExpired || code == exitKilled,
	}, nil
}

// FormatBudget renders a duration the way the timeout tools expect it:
// whole minutes when possible ("180m"), whole seconds otherwise.
func FormatBudget(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return fmt.Sprintf("%ds", int(d/time.Second))
}

// Detect probes PATH for timeout first, then gtimeout. Returns an error
// if neither is available.
func Detect() (Tool, error) {
	return detect(defaultExec)
}

func detect(e executor) (Tool, error) {
	for _, bin := range []string{binTimeout, binGtimeout} {
		if _, err := e.LookPath(bin); err == nil {
			return &tool{bin: bin, exec: e}, nil
		}
	}
	return nil, fmt.Errorf(
		"no timeout command available: neither %s nor %s found on PATH",
		binTimeout, binGtimeout,
	)
}

// Named returns a Tool for an explicitly configured command name,
// bypassing detection. The command must still exist on PATH.
func Named(bin string) (Tool, error) {
	return named(bin, defaultExec)
}

func named(bin string, e executor) (Tool, error) {
	if _, err := e.LookPath(bin); err != nil {
		return nil, fmt.Errorf("timeout command %s not found on PATH: %w", bin, err)
	}
	return &tool{bin: bin, exec: e}, nil
}
