package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Sender delivers a message to a notification channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SlackSender posts messages to a Slack incoming webhook.
type SlackSender struct {
	WebhookURL string
	Client     *http.Client
}

// NewSlackSender creates a sender for the given webhook URL.
func NewSlackSender(webhookURL string) *SlackSender {
	return &SlackSender{WebhookURL: webhookURL, Client: http.DefaultClient}
}

// Send posts msg as JSON. Any non-2xx response is an error.
func (s *SlackSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook returned %s: %s", resp.Status, bytes.TrimSpace(detail))
	}
	return nil
}
