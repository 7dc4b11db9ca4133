// Package sched registers tinman with the host's periodic-task facility.
//
// Two variants exist: a crontab-backed scheduler for Linux and a launchd
// plist scheduler for macOS. Exactly one is selected at startup; the host's
// own store (the crontab, the plist) is the system of record and is re-read
// on every status or uninstall call, never cached.
package sched

import (
	"context"
	"runtime"
	"strings"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/exec"
	"github.com/tinmanhq/tinman/internal/fs"
)

// JobSpec is the registration tinman asks the host scheduler to maintain.
type JobSpec struct {
	// CommandLine is the full argv of the command to run on each tick.
	CommandLine []string
	// IntervalMinutes is the tick interval.
	IntervalMinutes int
}

// Status is the live state of the registration.
type Status struct {
	Installed       bool
	IntervalMinutes int
	// Detail is a short human-readable note (mechanism, load state).
	Detail string
}

// Scheduler abstracts the host periodic-task facility.
// Install is idempotent: re-installing replaces the prior entry, never
// duplicates it. Uninstall of an absent entry is a no-op.
type Scheduler interface {
	Install(ctx context.Context, spec JobSpec) error
	Uninstall(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
}

// New selects the scheduler variant for the current platform.
func New(runner exec.CommandRunner, fsys fs.FS, home string) (Scheduler, error) {
	switch runtime.GOOS {
	case "darwin":
		return &LaunchdScheduler{Runner: runner, FS: fsys, Home: home}, nil
	case "linux":
		return &CronScheduler{Runner: runner}, nil
	}
	return nil, errors.New(errors.EUnsupportedPlatform,
		"no scheduler support for "+runtime.GOOS+"; run manually: tinman run --loop")
}

// shellJoin renders an argv as a single shell command line, quoting arguments
// that need it. Good enough for our own binary path plus fixed flags.
func shellJoin(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t'\"\\$&|;<>(){}*?") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		quoted = append(quoted, a)
	}
	return strings.Join(quoted, " ")
}
