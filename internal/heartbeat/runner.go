package heartbeat

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/tinmanhq/tinman/internal/agent"
	"github.com/tinmanhq/tinman/internal/checklist"
	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/journal"
	"github.com/tinmanhq/tinman/internal/safety"
)

// Notifier forwards alert results to the messaging bridge. Implementations
// own their retry policy and diagnostics; the runner only checks the error to
// decide nothing (forwarding failure never fails a heartbeat).
type Notifier interface {
	Notify(ctx context.Context, res Result) error
}

// Runner sequences one heartbeat: checklist, prompt, invocation,
// classification, journal, optional notification. Each run is strictly
// sequential; repeated runs come from the host scheduler or RunLoop.
type Runner struct {
	Config   config.Config
	FS       fs.FS
	Invoker  agent.Invoker
	Journal  *journal.Writer
	Notifier Notifier
	Stdout   io.Writer
	Stderr   io.Writer

	// Now is injectable for deterministic tests; defaults to time.Now.
	Now func() time.Time
}

// New creates a Runner with production wiring for the given configuration.
// The notifier is left nil unless the bridge is enabled; callers may swap in
// fakes for any field before use.
func New(cfg config.Config, fsys fs.FS, invoker agent.Invoker, notifier Notifier, stdout, stderr io.Writer) *Runner {
	return &Runner{
		Config:   cfg,
		FS:       fsys,
		Invoker:  invoker,
		Journal:  journal.NewWriter(fsys, cfg.LogFile, cfg.MaxLogLines),
		Notifier: notifier,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// RunBeat executes one heartbeat. Checklist I/O failure is the only error
// path; every other failure (agent error, timeout) is captured as a Result
// and flows through journaling and notification normally.
func (r *Runner) RunBeat(ctx context.Context) (Result, error) {
	cl, err := checklist.Load(r.FS, r.Config.HeartbeatMD)
	if err != nil {
		return Result{}, err
	}
	if cl.State == checklist.Missing {
		fmt.Fprintf(r.Stdout, "[tinman] created default checklist at %s\n", cl.Path)
		fmt.Fprintf(r.Stdout, "[tinman] edit it to customize your heartbeat checklist\n")
	}

	if cl.State == checklist.Empty {
		res := r.newResult(KindSkippedEmpty,
			"checklist is empty - skipping run; add checklist items to enable", 0)
		r.finish(ctx, &res)
		return res, nil
	}

	prompt := safety.ComposePrompt(safety.Prefix(r.Config.NotifyOnly), cl.Content)

	outcome, invokeErr := r.Invoker.Invoke(ctx, prompt, r.Config.AgentTimeout())

	var res Result
	if invokeErr != nil {
		// The agent could not be started (missing binary, exec failure).
		// Captured as a classified result, not a process failure.
		res = r.newResult(KindAgentError, firstLine(invokeErr.Error(), "agent invocation failed"), outcome.Duration)
		res.Error = invokeErr.Error()
	} else {
		kind, summary := Classify(outcome)
		res = r.newResult(kind, summary, outcome.Duration)
		res.Output = outcome.Stdout
		res.Error = outcome.Stderr
	}

	r.finish(ctx, &res)
	return res, nil
}

// finish runs the tail of the pipeline shared by all paths: journal, print,
// notify. Journal and notify failures are diagnostics, never run failures.
func (r *Runner) finish(ctx context.Context, res *Result) {
	entry := journal.Entry{
		Timestamp:  res.Timestamp.UTC().Format(time.RFC3339),
		BeatID:     res.BeatID,
		Kind:       string(res.Kind),
		Summary:    res.Summary,
		Preset:     res.Preset,
		DurationMS: res.Duration.Milliseconds(),
		Output:     res.Output,
		Error:      res.Error,
	}
	if err := r.Journal.Append(entry); err != nil {
		fmt.Fprintf(r.Stderr, "[tinman] failed to append heartbeat log: %v\n", err)
	}

	r.printResult(res)

	if res.Kind == KindAlert && r.Config.NotifyBridge && r.Notifier != nil {
		// The notifier retries within its own bounds and reports its own
		// failure; nothing to do with the error here.
		_ = r.Notifier.Notify(ctx, *res)
	}
}

func (r *Runner) printResult(res *Result) {
	fmt.Fprintf(r.Stdout, "\n[tinman] %s %s  %s (%.1fs)\n",
		res.Kind.icon(), res.Timestamp.UTC().Format(time.RFC3339), res.Kind, res.Duration.Seconds())
	if res.Summary != "" && res.Summary != res.Output {
		fmt.Fprintf(r.Stdout, "%s\n", res.Summary)
	}
	if res.Output != "" && res.Output != res.Summary {
		fmt.Fprintf(r.Stdout, "%s\n", res.Output)
	}
	if res.Error != "" {
		fmt.Fprintf(r.Stderr, "[tinman] agent stderr: %s\n", res.Error)
	}
}

func (r *Runner) newResult(kind Kind, summary string, d time.Duration) Result {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	return Result{
		BeatID:    uuid.NewString(),
		Timestamp: now(),
		Kind:      kind,
		Summary:   summary,
		Preset:    r.Config.Preset,
		Duration:  d,
	}
}

// RunLoop runs heartbeats on the configured interval until ctx is cancelled.
// A bad beat never exits the loop; only checklist/config failures at startup
// are surfaced by the caller before the loop begins.
func (r *Runner) RunLoop(ctx context.Context) error {
	fmt.Fprintf(r.Stdout, "[tinman] starting heartbeat loop every %d min\n", r.Config.IntervalMinutes)
	fmt.Fprintf(r.Stdout, "[tinman] checklist: %s\n", r.Config.HeartbeatMD)
	fmt.Fprintf(r.Stdout, "[tinman] mode: %s\n", modeString(r.Config.NotifyOnly))

	if r.Config.RunOnStart {
		if _, err := r.RunBeat(ctx); err != nil {
			fmt.Fprintf(r.Stderr, "[tinman] heartbeat failed: %v\n", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.Config.Interval()):
		}
		if _, err := r.RunBeat(ctx); err != nil {
			fmt.Fprintf(r.Stderr, "[tinman] heartbeat failed: %v\n", err)
		}
	}
}

func modeString(notifyOnly bool) string {
	if notifyOnly {
		return "notify-only"
	}
	return "ACTIVE (agent may take actions)"
}
