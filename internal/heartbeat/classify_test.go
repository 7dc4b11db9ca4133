package heartbeat

import (
	"testing"
	"time"

	"github.com/tinmanhq/tinman/internal/agent"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		outcome     agent.Outcome
		wantKind    Kind
		wantSummary string
	}{
		{
			name:        "sentinel exact",
			outcome:     agent.Outcome{Stdout: "HEARTBEAT_OK"},
			wantKind:    KindOK,
			wantSummary: "HEARTBEAT_OK",
		},
		{
			name:        "sentinel with trailing newline",
			outcome:     agent.Outcome{Stdout: "HEARTBEAT_OK\n"},
			wantKind:    KindOK,
			wantSummary: "HEARTBEAT_OK",
		},
		{
			name:        "sentinel embedded in prose is still an alert",
			outcome:     agent.Outcome{Stdout: "HEARTBEAT_OK but the disk is nearly full"},
			wantKind:    KindAlert,
			wantSummary: "HEARTBEAT_OK but the disk is nearly full",
		},
		{
			name:        "alert summary is first non-blank line",
			outcome:     agent.Outcome{Stdout: "\n\n- disk almost full\n- 3 stale branches\n"},
			wantKind:    KindAlert,
			wantSummary: "- disk almost full",
		},
		{
			name:        "empty stdout is an alert",
			outcome:     agent.Outcome{Stdout: "   \n"},
			wantKind:    KindAlert,
			wantSummary: "(no output)",
		},
		{
			name:        "non-zero exit",
			outcome:     agent.Outcome{ExitCode: 1, Stderr: "usage: claude ...\nmore"},
			wantKind:    KindAgentError,
			wantSummary: "usage: claude ...",
		},
		{
			name:        "non-zero exit without stderr",
			outcome:     agent.Outcome{ExitCode: 7},
			wantKind:    KindAgentError,
			wantSummary: "agent exited with status 7",
		},
		{
			name:        "timeout wins over exit code",
			outcome:     agent.Outcome{ExitCode: 1, TimedOut: true, Duration: 2 * time.Minute},
			wantKind:    KindTimeout,
			wantSummary: "agent timed out after 2m0s",
		},
		{
			name:        "timeout with stderr uses stderr first line",
			outcome:     agent.Outcome{TimedOut: true, Stderr: "still thinking...\n"},
			wantKind:    KindTimeout,
			wantSummary: "still thinking...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, summary := Classify(tt.outcome)
			if kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", kind, tt.wantKind)
			}
			if summary != tt.wantSummary {
				t.Errorf("summary = %q, want %q", summary, tt.wantSummary)
			}
		})
	}
}

func TestKindHealthy(t *testing.T) {
	healthy := map[Kind]bool{
		KindOK:           true,
		KindSkippedEmpty: true,
		KindAlert:        false,
		KindAgentError:   false,
		KindTimeout:      false,
	}
	for kind, want := range healthy {
		if kind.Healthy() != want {
			t.Errorf("%s.Healthy() = %v, want %v", kind, kind.Healthy(), want)
		}
	}
}
