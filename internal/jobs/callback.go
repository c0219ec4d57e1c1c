package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultCallbackTimeout bounds a single callback delivery.
const DefaultCallbackTimeout = 10 * time.Second

// Notifier delivers callback payloads. Each payload is sent once.
type Notifier struct {
	client *http.Client
}

// NewNotifier creates a Notifier whose requests time out after timeout, or
// DefaultCallbackTimeout when timeout is zero.
func NewNotifier(timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	return &Notifier{client: &http.Client{Timeout: timeout}}
}

// Send POSTs payload as JSON to url. Any non-2xx response is an error.
func (n *Notifier) Send(ctx context.Context, url string, payload CallbackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}
