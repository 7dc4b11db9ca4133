// Package agent invokes the external conversational coding agent as a
// subprocess and captures its outcome.
package agent

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"syscall"
	"time"
)

// Outcome is the raw result of one agent invocation.
// A non-zero exit or a timeout is data, not an error; Invoke only returns an
// error when the agent could not be started at all.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Invoker runs the external agent with a composed prompt.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, timeout time.Duration) (Outcome, error)
}

// GracePeriod is the default wait between SIGINT and SIGKILL when terminating
// a timed-out agent process group.
const GracePeriod = 3 * time.Second

// printFlag selects the agent CLI's non-interactive mode.
const printFlag = "--print"

// CLIInvoker invokes the agent CLI (claude by default) in print mode, passing
// the prompt on stdin. It enforces a hard wall-clock timeout: a hung agent is
// killed (SIGINT, grace, SIGKILL against its process group) and the outcome
// is returned with TimedOut set, so a stuck agent never stalls the scheduler.
type CLIInvoker struct {
	Bin string
	// Grace overrides GracePeriod when positive. Tests use a short grace.
	Grace time.Duration

	// LookPath is injectable for tests; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewCLIInvoker creates a CLIInvoker for the given agent binary.
func NewCLIInvoker(bin string) *CLIInvoker {
	return &CLIInvoker{Bin: bin}
}

// Invoke runs one agent call. It never retries; repeated invocation is the
// scheduler's job on the next tick.
func (iv *CLIInvoker) Invoke(ctx context.Context, prompt string, timeout time.Duration) (Outcome, error) {
	lookPath := iv.LookPath
	if lookPath == nil {
		lookPath = osexec.LookPath
	}
	bin, err := lookPath(iv.Bin)
	if err != nil {
		return Outcome{}, fmt.Errorf("agent CLI %q not found on PATH: %w", iv.Bin, err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := osexec.Command(bin, printFlag)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Own process group so the whole agent tree can be killed on timeout.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("failed to start agent %q: %w", bin, err)
	}
	pgid := cmd.Process.Pid

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- cmd.Wait()
	}()

	var runErr error
	var timedOut bool
	select {
	case runErr = <-waitDone:
	case <-timeoutCtx.Done():
		timedOut = true
		iv.killProcessGroup(pgid)
		runErr = <-waitDone
	}

	outcome := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		TimedOut: timedOut,
	}

	if runErr != nil {
		var exitErr *osexec.ExitError
		if stderrors.As(runErr, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
		} else if !timedOut {
			return outcome, fmt.Errorf("agent invocation failed: %w", runErr)
		}
	}
	return outcome, nil
}

// killProcessGroup sends SIGINT to the process group, waits the grace period,
// then sends SIGKILL.
func (iv *CLIInvoker) killProcessGroup(pgid int) {
	grace := iv.Grace
	if grace <= 0 {
		grace = GracePeriod
	}
	_ = syscall.Kill(-pgid, syscall.SIGINT)
	time.Sleep(grace)
	_ = syscall.Kill(-pgid, syscall.SIGKILL)
}
