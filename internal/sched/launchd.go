package sched

import (
	"bytes"
	"context"
	"encoding/xml"
	stderrors "errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/exec"
	"github.com/tinmanhq/tinman/internal/fs"
)

// launchdLabel identifies tinman's launch agent; it doubles as the stable
// marker that distinguishes our entry from unrelated ones.
const launchdLabel = "com.tinman.heartbeat"

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN"
  "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
  <key>Label</key>
  <string>{{.Label}}</string>
  <key>ProgramArguments</key>
  <array>
{{- range .Args}}
    <string>{{.}}</string>
{{- end}}
  </array>
  <key>StartInterval</key>
  <integer>{{.IntervalSeconds}}</integer>
  <key>RunAtLoad</key>
  <true/>
  <key>StandardOutPath</key>
  <string>{{.LogDir}}/launchd.out.log</string>
  <key>StandardErrorPath</key>
  <string>{{.LogDir}}/launchd.err.log</string>
  <key>KeepAlive</key>
  <false/>
</dict>
</plist>
`))

var startIntervalRe = regexp.MustCompile(`<key>StartInterval</key>\s*<integer>(\d+)</integer>`)

// LaunchdScheduler maintains a per-user launch agent plist and loads it
// through launchctl.
type LaunchdScheduler struct {
	Runner exec.CommandRunner
	FS     fs.FS
	Home   string
}

func (s *LaunchdScheduler) plistPath() string {
	return filepath.Join(s.Home, "Library", "LaunchAgents", launchdLabel+".plist")
}

func (s *LaunchdScheduler) logDir() string {
	return filepath.Join(s.Home, ".tinman")
}

// Install writes the plist and (re)loads it. The plist path is fixed, so a
// second install replaces the previous registration.
func (s *LaunchdScheduler) Install(ctx context.Context, spec JobSpec) error {
	args := make([]string, 0, len(spec.CommandLine))
	for _, a := range spec.CommandLine {
		var escaped bytes.Buffer
		_ = xml.EscapeText(&escaped, []byte(a))
		args = append(args, escaped.String())
	}

	var buf bytes.Buffer
	err := plistTemplate.Execute(&buf, struct {
		Label           string
		Args            []string
		IntervalSeconds int
		LogDir          string
	}{
		Label:           launchdLabel,
		Args:            args,
		IntervalSeconds: spec.IntervalMinutes * 60,
		LogDir:          s.logDir(),
	})
	if err != nil {
		return errors.Wrap(errors.ESchedulerFailed, "failed to render launchd plist", err)
	}

	if err := s.FS.MkdirAll(s.logDir(), 0o755); err != nil {
		return errors.Wrap(errors.ESchedulerFailed, "failed to create log directory", err)
	}
	if err := s.FS.MkdirAll(filepath.Dir(s.plistPath()), 0o755); err != nil {
		return errors.Wrap(errors.ESchedulerFailed, "failed to create LaunchAgents directory", err)
	}
	if err := s.FS.WriteFile(s.plistPath(), buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ESchedulerFailed, "failed to write launchd plist", err)
	}

	// Unload first in case an older registration is still loaded; a failure
	// here just means nothing was loaded.
	_, _ = s.Runner.Run(ctx, "launchctl", []string{"unload", s.plistPath()}, exec.RunOpts{})

	result, err := s.Runner.Run(ctx, "launchctl", []string{"load", s.plistPath()}, exec.RunOpts{})
	if err != nil {
		return errors.Wrap(errors.ESchedulerFailed, "failed to run launchctl load", err)
	}
	if result.ExitCode != 0 {
		return errors.New(errors.ESchedulerFailed,
			"launchctl load failed (exit "+strconv.Itoa(result.ExitCode)+"): "+strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Uninstall unloads and removes the plist. A missing plist is a no-op.
func (s *LaunchdScheduler) Uninstall(ctx context.Context) error {
	if _, err := s.FS.Stat(s.plistPath()); err != nil {
		if stderrors.Is(err, iofs.ErrNotExist) || os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ESchedulerFailed, "failed to stat launchd plist", err)
	}
	_, _ = s.Runner.Run(ctx, "launchctl", []string{"unload", s.plistPath()}, exec.RunOpts{})
	if err := s.FS.Remove(s.plistPath()); err != nil {
		return errors.Wrap(errors.ESchedulerFailed, "failed to remove launchd plist", err)
	}
	return nil
}

// Status re-reads the plist (the host's system of record for launch agents)
// and asks launchctl whether the job is currently loaded.
func (s *LaunchdScheduler) Status(ctx context.Context) (Status, error) {
	data, err := s.FS.ReadFile(s.plistPath())
	if err != nil {
		if stderrors.Is(err, iofs.ErrNotExist) || os.IsNotExist(err) {
			return Status{Detail: "launchd"}, nil
		}
		return Status{}, errors.Wrap(errors.ESchedulerFailed, "failed to read launchd plist", err)
	}

	st := Status{Installed: true, Detail: "launchd"}
	if m := startIntervalRe.FindSubmatch(data); m != nil {
		if sec, err := strconv.Atoi(string(m[1])); err == nil {
			st.IntervalMinutes = sec / 60
		}
	}
	if result, err := s.Runner.Run(ctx, "launchctl", []string{"list", launchdLabel}, exec.RunOpts{}); err == nil {
		if result.ExitCode == 0 {
			st.Detail = "launchd, loaded"
		} else {
			st.Detail = "launchd, not loaded"
		}
	}
	return st, nil
}
