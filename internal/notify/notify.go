// Package notify posts release notifications to a Slack incoming webhook.
package notify

import "time"

// DefaultTimeout bounds a single webhook request.
const DefaultTimeout = 10 * time.Second

// Config holds user preferences for notification behavior.
// Configuration is loaded from the config hierarchy (env > project > user > defaults).
type Config struct {
	// Enabled is the master switch for all notifications (default: false, opt-in)
	Enabled bool `koanf:"enabled" yaml:"enabled" json:"enabled"`

	// WebhookURL is the Slack incoming webhook URL
	WebhookURL string `koanf:"webhook_url" yaml:"webhook_url" json:"webhook_url" validate:"required_if=Enabled true"`

	// Channel overrides the webhook's default channel
	Channel string `koanf:"channel" yaml:"channel" json:"channel"`

	// Username overrides the webhook's default bot name
	Username string `koanf:"username" yaml:"username" json:"username"`

	// OnSuccess notifies after a completed release (default: true when enabled)
	OnSuccess bool `koanf:"on_success" yaml:"on_success" json:"on_success"`

	// OnError notifies when a release fails (default: true when enabled)
	OnError bool `koanf:"on_error" yaml:"on_error" json:"on_error"`

	// Timeout bounds each webhook request (default: 10s)
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		Username:  "bumpver",
		OnSuccess: true,
		OnError:   true,
		Timeout:   DefaultTimeout,
	}
}

// Message is the payload posted to the webhook.
type Message struct {
	Text     string `json:"text"`
	Channel  string `json:"channel,omitempty"`
	Username string `json:"username,omitempty"`
}

// ReleaseEvent describes a completed release.
type ReleaseEvent struct {
	Version    string
	Previous   string
	Kind       string
	Repository string
	Tag        string
	CommitURL  string
	Author     string
}
