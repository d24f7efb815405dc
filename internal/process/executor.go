// Package process runs external programs and captures their output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"gitmob/internal/logger"
)

// ErrProgramNotFound is returned when the program could not be located or
// started. Callers treat it as fatal.
var ErrProgramNotFound = errors.New("program could not be started")

// Result contains the outcome of a completed process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// StdoutString returns stdout with surrounding whitespace removed.
func (r *Result) StdoutString() string {
	return strings.TrimSpace(string(r.Stdout))
}

// StderrString returns stderr with surrounding whitespace removed.
func (r *Result) StderrString() string {
	return strings.TrimSpace(string(r.Stderr))
}

// Executor runs a program with arguments and waits for it to finish.
// Arguments are passed as-is; no shell is involved.
type Executor interface {
	Execute(ctx context.Context, program string, args ...string) (*Result, error)
}

// CommandExecutor is the os/exec backed Executor. Children inherit the
// parent environment.
type CommandExecutor struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// NewCommandExecutor creates a new executor using the parent environment.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// Execute runs program and returns its captured output. A non-zero exit is
// reported through Result.ExitCode, not as an error.
func (e *CommandExecutor) Execute(ctx context.Context, program string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	if e.Dir != "" {
		cmd.Dir = e.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s interrupted: %w", program, ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %v", ErrProgramNotFound, program, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	logger.Debugf("exec %s %q -> exit %d", program, args, result.ExitCode)

	return result, nil
}
