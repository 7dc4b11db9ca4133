package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tinmanhq/tinman/internal/heartbeat"
)

func fastNotifier(endpoint string, stderr *bytes.Buffer) *BridgeNotifier {
	n := NewBridgeNotifier(endpoint, stderr)
	n.RetryMinBackoff = time.Millisecond
	n.RetryMaxBackoff = 2 * time.Millisecond
	return n
}

func alertResult() heartbeat.Result {
	return heartbeat.Result{
		BeatID:    "beat-1",
		Timestamp: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Kind:      heartbeat.KindAlert,
		Summary:   "disk almost full",
		Preset:    "paranoid",
	}
}

func TestNotify_PostsAlertPayload(t *testing.T) {
	var got Payload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var stderr bytes.Buffer
	n := fastNotifier(srv.URL, &stderr)
	if err := n.Notify(context.Background(), alertResult()); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	want := Payload{
		Kind:      "alert",
		Summary:   "disk almost full",
		Preset:    "paranoid",
		Timestamp: "2026-08-27T10:00:00Z",
	}
	if got != want {
		t.Errorf("payload = %+v, want %+v", got, want)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr output: %s", stderr.String())
	}
}

func TestNotify_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var stderr bytes.Buffer
	n := fastNotifier(srv.URL, &stderr)
	if err := n.Notify(context.Background(), alertResult()); err != nil {
		t.Fatalf("Notify should succeed on the third attempt: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestNotify_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var stderr bytes.Buffer
	n := fastNotifier(srv.URL, &stderr)
	err := n.Notify(context.Background(), alertResult())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
	if !strings.Contains(stderr.String(), "bridge notify failed after 3 attempts") {
		t.Errorf("stderr = %q, want a gave-up diagnostic", stderr.String())
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Errorf("err = %v, want last status in error", err)
	}
}

func TestNotify_UnreachableEndpoint(t *testing.T) {
	var stderr bytes.Buffer
	n := fastNotifier("http://127.0.0.1:1/hook", &stderr)
	n.Client = &http.Client{Timeout: 100 * time.Millisecond}

	if err := n.Notify(context.Background(), alertResult()); err == nil {
		t.Fatal("expected error for unreachable endpoint")
	}
}
