// Package exec wraps subprocess execution behind a small interface so
// commands that shell out (crontab, launchctl) can be faked in tests.
package exec

import (
	"bytes"
	"context"
	"errors"
	osexec "os/exec"
	"strings"
)

// RunOpts holds per-invocation options.
type RunOpts struct {
	// Stdin, if non-empty, is piped to the child's standard input.
	Stdin string
	// Dir, if non-empty, is the child's working directory.
	Dir string
}

// CmdResult holds the captured output of a completed command.
// A non-zero ExitCode is a result, not an error; Run only returns an error
// when the command could not be executed at all.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error)
	LookPath(file string) (string, error)
}

// RealRunner is the production CommandRunner backed by os/exec.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() RealRunner {
	return RealRunner{}
}

func (RealRunner) Run(ctx context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	if opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	}
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

func (RealRunner) LookPath(file string) (string, error) {
	return osexec.LookPath(file)
}
