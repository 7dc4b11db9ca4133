package errors

import (
	"bytes"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(EUsage, "test message")

	if err.Error() != "E_USAGE: test message" {
		t.Errorf("Error() = %q, want %q", err.Error(), "E_USAGE: test message")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(EInvalidConfig, "wrapped message", cause)

	if err.Error() != "E_INVALID_CONFIG: wrapped message" {
		t.Errorf("Error() = %q, want %q", err.Error(), "E_INVALID_CONFIG: wrapped message")
	}

	var te *TinManError
	if !errors.As(err, &te) {
		t.Fatal("errors.As failed")
	}
	if te.Cause != cause {
		t.Error("Unwrap did not return cause")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil error", nil, ""},
		{"tinman error", New(EUsage, "x"), EUsage},
		{"wrapped tinman error", Wrap(ESchedulerFailed, "y", errors.New("z")), ESchedulerFailed},
		{"non-tinman error", errors.New("plain"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetCode(tt.err)
			if got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"E_USAGE", New(EUsage, "x"), 2},
		{"E_SCHEDULER_FAILED", New(ESchedulerFailed, "x"), 1},
		{"explicit exit code", WithExitCode(New(EHeartbeatFailed, "x"), 1), 1},
		{"non-tinman error", errors.New("x"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExitCode(tt.err)
			if got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"E_USAGE", New(EUsage, "bad args"), "error_code: E_USAGE\nbad args\n"},
		{"with cause", Wrap(EInvalidConfig, "bad interval", errors.New("parse fail")),
			"error_code: E_INVALID_CONFIG\nbad interval\ncause: parse fail\n"},
		{"plain error", errors.New("plain"), "plain\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Print(&buf, tt.err)
			got := buf.String()
			if got != tt.want {
				t.Errorf("Print() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorFormatStability(t *testing.T) {
	// The format MUST stay "CODE: message"; scripts match on it.
	err := New(EUsage, "x")
	expected := "E_USAGE: x"
	if err.Error() != expected {
		t.Errorf("error format changed: got %q, want %q", err.Error(), expected)
	}
}

func TestErrorCodesExist(t *testing.T) {
	expectedStrings := map[Code]string{
		EUsage:               "E_USAGE",
		EInvalidConfig:       "E_INVALID_CONFIG",
		EChecklistUnreadable: "E_CHECKLIST_UNREADABLE",
		ESchedulerFailed:     "E_SCHEDULER_FAILED",
		EUnsupportedPlatform: "E_UNSUPPORTED_PLATFORM",
		EHeartbeatFailed:     "E_HEARTBEAT_FAILED",
		EInternal:            "E_INTERNAL",
	}

	for code, expected := range expectedStrings {
		if string(code) != expected {
			t.Errorf("code = %q, want %q", code, expected)
		}
	}
}
