package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Handler manages notification dispatch based on configuration and hooks.
// It wraps a Sender with configuration and provides hook methods for
// release completion and release failure.
type Handler struct {
	config Config
	sender Sender
	logger *zap.Logger
}

// NewHandler creates a notification handler posting to the configured webhook.
// If notifications are disabled or no webhook is set, the handler will no-op
// on all calls.
func NewHandler(config Config, logger *zap.Logger) *Handler {
	return NewHandlerWithSender(config, NewSlackSender(config.WebhookURL), logger)
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config Config, sender Sender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		config: config,
		sender: sender,
		logger: logger,
	}
}

// Config returns the handler's notification configuration
func (h *Handler) Config() Config {
	return h.config
}

func (h *Handler) isEnabled() bool {
	if !h.config.Enabled {
		h.logger.Debug("notification skipped: disabled in config")
		return false
	}
	if h.config.WebhookURL == "" {
		h.logger.Debug("notification skipped: no webhook URL configured")
		return false
	}
	return true
}

// dispatch sends a notification with the configured timeout.
// Failures are logged as warnings and never returned.
func (h *Handler) dispatch(ctx context.Context, text string) {
	timeout := h.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg := Message{
		Text:     text,
		Channel:  h.config.Channel,
		Username: h.config.Username,
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Warn("failed to send notification", zap.Error(err))
		return
	}
	h.logger.Debug("notification sent", zap.String("text", text))
}

// OnRelease is called after a release completes.
// It sends a notification if the on_success hook is enabled.
func (h *Handler) OnRelease(ctx context.Context, ev ReleaseEvent) {
	if !h.isEnabled() || !h.config.OnSuccess {
		return
	}
	h.dispatch(ctx, FormatRelease(ev))
}

// OnError is called when a release fails.
// It sends a notification if the on_error hook is enabled.
func (h *Handler) OnError(ctx context.Context, version string, err error) {
	if !h.isEnabled() || !h.config.OnError {
		return
	}

	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}

	target := "release"
	if version != "" {
		target = "release " + version
	}
	h.dispatch(ctx, fmt.Sprintf(":x: %s failed: %s", target, errMsg))
}

// FormatRelease renders the Slack text for a completed release.
func FormatRelease(ev ReleaseEvent) string {
	var b strings.Builder

	b.WriteString(":rocket: Released ")
	if ev.Repository != "" {
		fmt.Fprintf(&b, "*%s* ", ev.Repository)
	}
	fmt.Fprintf(&b, "`%s`", ev.Version)
	if ev.Previous != "" {
		fmt.Fprintf(&b, " (%s bump from `%s`)", ev.Kind, ev.Previous)
	}
	if ev.Tag != "" {
		fmt.Fprintf(&b, "\nTag: `%s`", ev.Tag)
	}
	if ev.CommitURL != "" {
		fmt.Fprintf(&b, "\nCommit: <%s>", ev.CommitURL)
	}
	if ev.Author != "" {
		fmt.Fprintf(&b, "\nAuthor: %s", ev.Author)
	}
	return b.String()
}
