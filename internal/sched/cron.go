package sched

import (
	"context"
	"strconv"
	"strings"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/exec"
)

// cronMarker tags tinman's crontab line so re-scans can tell it apart from
// unrelated entries.
const cronMarker = "# tinman-heartbeat"

// CronScheduler maintains a single marker-tagged line in the user's crontab.
type CronScheduler struct {
	Runner exec.CommandRunner
}

// Install rewrites the crontab with exactly one tinman line. Any prior
// tinman lines are removed first, so repeated installs replace rather than
// accumulate.
func (s *CronScheduler) Install(ctx context.Context, spec JobSpec) error {
	existing, err := s.readCrontab(ctx)
	if err != nil {
		return err
	}

	line := cronExpr(spec.IntervalMinutes) + " " + shellJoin(spec.CommandLine) + "  " + cronMarker
	lines := removeMarkerLines(existing)
	lines = append(lines, line)

	return s.writeCrontab(ctx, strings.Join(lines, "\n")+"\n")
}

// Uninstall removes tinman's line if present. No crontab or no marker line is
// a no-op.
func (s *CronScheduler) Uninstall(ctx context.Context) error {
	existing, err := s.readCrontab(ctx)
	if err != nil {
		return err
	}
	lines := removeMarkerLines(existing)
	if len(lines) == len(existing) {
		return nil
	}
	out := ""
	if len(lines) > 0 {
		out = strings.Join(lines, "\n") + "\n"
	}
	return s.writeCrontab(ctx, out)
}

// Status re-reads the crontab and reports whether a tinman line exists and
// its interval.
func (s *CronScheduler) Status(ctx context.Context) (Status, error) {
	existing, err := s.readCrontab(ctx)
	if err != nil {
		return Status{}, err
	}
	for _, line := range existing {
		if !strings.Contains(line, cronMarker) {
			continue
		}
		return Status{
			Installed:       true,
			IntervalMinutes: parseCronInterval(line),
			Detail:          "cron",
		}, nil
	}
	return Status{Detail: "cron"}, nil
}

// readCrontab returns the current crontab lines. A non-zero exit from
// `crontab -l` means no crontab exists yet, which is not an error.
func (s *CronScheduler) readCrontab(ctx context.Context) ([]string, error) {
	result, err := s.Runner.Run(ctx, "crontab", []string{"-l"}, exec.RunOpts{})
	if err != nil {
		return nil, errors.Wrap(errors.ESchedulerFailed, "failed to run crontab -l", err)
	}
	if result.ExitCode != 0 {
		return nil, nil
	}
	var lines []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimRight(line, " \t") != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (s *CronScheduler) writeCrontab(ctx context.Context, content string) error {
	result, err := s.Runner.Run(ctx, "crontab", []string{"-"}, exec.RunOpts{Stdin: content})
	if err != nil {
		return errors.Wrap(errors.ESchedulerFailed, "failed to run crontab -", err)
	}
	if result.ExitCode != 0 {
		return errors.New(errors.ESchedulerFailed,
			"crontab update failed (exit "+strconv.Itoa(result.ExitCode)+"): "+strings.TrimSpace(result.Stderr))
	}
	return nil
}

func removeMarkerLines(lines []string) []string {
	var kept []string
	for _, line := range lines {
		if strings.Contains(line, cronMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// cronExpr converts an interval in minutes to a cron time spec. 60 becomes
// hourly; everything else uses the */N step form.
func cronExpr(intervalMinutes int) string {
	if intervalMinutes == 60 {
		return "0 * * * *"
	}
	return "*/" + strconv.Itoa(intervalMinutes) + " * * * *"
}

// parseCronInterval recovers the interval from a tinman crontab line.
// Returns 0 when the time spec is not one cronExpr produces.
func parseCronInterval(line string) int {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return 0
	}
	if fields[0] == "0" && fields[1] == "*" {
		return 60
	}
	if n, ok := strings.CutPrefix(fields[0], "*/"); ok {
		if v, err := strconv.Atoi(n); err == nil {
			return v
		}
	}
	return 0
}
