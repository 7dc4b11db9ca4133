package heartbeat

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinmanhq/tinman/internal/agent"
)

// Sentinel is the literal reply that signals "nothing needs attention".
// The match is case-sensitive against the whole trimmed stdout; a reply that
// merely mentions the sentinel somewhere is still an alert.
const Sentinel = "HEARTBEAT_OK"

// Classify maps one invocation outcome to a result kind and summary.
//
// Rules, in order: timeout, non-zero exit, sentinel match, alert. The
// empty-checklist short circuit happens before any invocation and never
// reaches this function.
func Classify(outcome agent.Outcome) (Kind, string) {
	switch {
	case outcome.TimedOut:
		return KindTimeout, firstLine(outcome.Stderr,
			fmt.Sprintf("agent timed out after %s", outcome.Duration.Round(time.Second)))
	case outcome.ExitCode != 0:
		return KindAgentError, firstLine(outcome.Stderr,
			fmt.Sprintf("agent exited with status %d", outcome.ExitCode))
	case strings.TrimSpace(outcome.Stdout) == Sentinel:
		return KindOK, Sentinel
	default:
		return KindAlert, firstLine(outcome.Stdout, "(no output)")
	}
}

// firstLine returns the first non-blank line of s, or fallback if there is
// none.
func firstLine(s, fallback string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
