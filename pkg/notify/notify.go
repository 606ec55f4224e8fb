// Package notify posts processing outcomes to a webhook so every sweep is
// observable without tailing logs.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Summary is the outcome payload for one processed file.
type Summary struct {
	FileName  string    `json:"file_name"`
	Success   bool      `json:"success"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier delivers outcome summaries.
type Notifier interface {
	Send(ctx context.Context, s Summary) error
}

// WebhookNotifier posts summaries as JSON to a single webhook URL.
type WebhookNotifier struct {
	url  string
	http *http.Client
}

// NewWebhook creates a webhook notifier. An empty URL yields a notifier
// whose Send is a no-op, so callers don't need to branch on configuration.
func NewWebhook(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the summary. Delivery failures are returned for logging but
// should never fail the processing run itself.
func (n *WebhookNotifier) Send(ctx context.Context, s Summary) error {
	if n.url == "" {
		return nil
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(s)
	if err != nil {
		return eris.Wrap(err, "notify: marshal summary")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "notify: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "notify: send")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return eris.Errorf("notify: webhook returned %d", resp.StatusCode)
	}
	return nil
}
