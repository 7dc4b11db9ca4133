// Package notify forwards alert results to the messaging-bridge endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tinmanhq/tinman/internal/heartbeat"
)

// Payload is the JSON body posted to the bridge.
type Payload struct {
	Kind      string `json:"kind"`
	Summary   string `json:"summary"`
	Preset    string `json:"preset"`
	Timestamp string `json:"timestamp"` // ISO-8601
}

const (
	defaultMaxAttempts     = 3
	defaultRetryMinBackoff = 500 * time.Millisecond
	defaultRetryMaxBackoff = 4 * time.Second
	defaultRequestTimeout  = 10 * time.Second
)

// BridgeNotifier POSTs alert payloads to a bridge endpoint with a small
// bounded retry loop. Forwarding failure is reported on Stderr and returned,
// but the caller treats it as diagnostic only; it never fails the heartbeat.
type BridgeNotifier struct {
	Endpoint string
	Client   *http.Client
	Stderr   io.Writer

	// Retry tuning; zero values use the defaults above.
	MaxAttempts     int
	RetryMinBackoff time.Duration
	RetryMaxBackoff time.Duration
}

// NewBridgeNotifier creates a notifier for the given endpoint.
func NewBridgeNotifier(endpoint string, stderr io.Writer) *BridgeNotifier {
	return &BridgeNotifier{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: defaultRequestTimeout},
		Stderr:   stderr,
	}
}

// Notify forwards one result. Retries on network failure or a non-2xx status
// with doubling backoff, then gives up.
func (n *BridgeNotifier) Notify(ctx context.Context, res heartbeat.Result) error {
	payload := Payload{
		Kind:      string(res.Kind),
		Summary:   res.Summary,
		Preset:    res.Preset,
		Timestamp: res.Timestamp.UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	maxAttempts := n.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	backoff := n.RetryMinBackoff
	if backoff <= 0 {
		backoff = defaultRetryMinBackoff
	}
	maxBackoff := n.RetryMaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultRetryMaxBackoff
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = n.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(backoff):
		}
		if ctx.Err() != nil {
			break
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	if n.Stderr != nil {
		_, _ = fmt.Fprintf(n.Stderr, "[tinman] bridge notify failed after %d attempts: %v\n", maxAttempts, lastErr)
	}
	return lastErr
}

func (n *BridgeNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}
	return nil
}
