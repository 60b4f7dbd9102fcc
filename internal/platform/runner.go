package platform

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// Runner runs an external command to completion
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ProcessError describes a failed external command
type ProcessError struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("command failed: %s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands through os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner for real processes
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args, capturing its output for error reporting
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ProcessError{
			Command: FormatCommand(name, args...),
			Stdout:  strings.TrimSpace(stdout.String()),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return nil
}

// DryRunner logs commands instead of running them
type DryRunner struct {
	Logger *log.Logger
}

// NewDryRunner creates a runner that only prints what it would run
func NewDryRunner(logger *log.Logger) *DryRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &DryRunner{Logger: logger}
}

// Run logs the command line
func (r *DryRunner) Run(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Logger.Printf("dry-run: %s", FormatCommand(name, args...))
	return nil
}

// FormatCommand renders a command line, quoting arguments with spaces
func FormatCommand(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, part := range append([]string{name}, args...) {
		if part == "" || strings.ContainsAny(part, " \t\"'") {
			part = fmt.Sprintf("%q", part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
