package agent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeFakeAgent writes an executable script standing in for the agent CLI.
func writeFakeAgent(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-agent")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvoke_CapturesStdoutAndExitZero(t *testing.T) {
	bin := writeFakeAgent(t, `cat >/dev/null
echo HEARTBEAT_OK`)
	iv := NewCLIInvoker(bin)

	outcome, err := iv.Invoke(context.Background(), "prompt", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", outcome.ExitCode)
	}
	if strings.TrimSpace(outcome.Stdout) != "HEARTBEAT_OK" {
		t.Errorf("Stdout = %q", outcome.Stdout)
	}
	if outcome.TimedOut {
		t.Error("TimedOut = true, want false")
	}
	if outcome.Duration <= 0 {
		t.Error("Duration not recorded")
	}
}

// The composed prompt travels on stdin, not argv.
func TestInvoke_PromptOnStdin(t *testing.T) {
	bin := writeFakeAgent(t, `cat`)
	iv := NewCLIInvoker(bin)

	outcome, err := iv.Invoke(context.Background(), "the composed prompt", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(outcome.Stdout, "the composed prompt") {
		t.Errorf("Stdout = %q, prompt not echoed from stdin", outcome.Stdout)
	}
}

func TestInvoke_NonZeroExit(t *testing.T) {
	bin := writeFakeAgent(t, `cat >/dev/null
echo "api key expired" >&2
exit 3`)
	iv := NewCLIInvoker(bin)

	outcome, err := iv.Invoke(context.Background(), "prompt", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", outcome.ExitCode)
	}
	if !strings.Contains(outcome.Stderr, "api key expired") {
		t.Errorf("Stderr = %q", outcome.Stderr)
	}
	if outcome.TimedOut {
		t.Error("TimedOut = true, want false")
	}
}

// A hung agent is killed on the wall-clock timeout; Invoke must return
// promptly instead of blocking for the agent's own duration.
func TestInvoke_Timeout(t *testing.T) {
	bin := writeFakeAgent(t, `cat >/dev/null
sleep 30`)
	iv := NewCLIInvoker(bin)
	iv.Grace = 50 * time.Millisecond

	start := time.Now()
	outcome, err := iv.Invoke(context.Background(), "prompt", 200*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.TimedOut {
		t.Fatal("TimedOut = false, want true")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Invoke took %s, should return promptly after timeout", elapsed)
	}
}

func TestInvoke_MissingBinary(t *testing.T) {
	iv := NewCLIInvoker("tinman-test-no-such-agent-binary")

	_, err := iv.Invoke(context.Background(), "prompt", time.Second)
	if err == nil {
		t.Fatal("expected error for missing agent binary")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want a not-found message", err)
	}
}
