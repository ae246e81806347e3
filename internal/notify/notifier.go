// Package notify surfaces deck events as desktop notifications and,
// optionally, webhook posts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
)

// EventType represents a notification event type.
type EventType string

const (
	EventActionFailed   EventType = "action_failed"
	EventTimerFinished  EventType = "timer_finished"
	EventProfileChanged EventType = "profile_changed"
	EventPageSwitched   EventType = "page_switched"
)

// Event describes a notification event.
type Event struct {
	Type      EventType
	Title     string
	Message   string
	ButtonID  string
	ProfileID string
	Timestamp time.Time
}

// Config selects notification channels.
type Config struct {
	Enabled    bool        `yaml:"enabled"`
	Title      string      `yaml:"title"`
	WebhookURL string      `yaml:"webhook_url"`
	Events     []EventType `yaml:"events"`
}

const (
	defaultTitle = "Weel"
	maxMessage   = 800
)

// DefaultConfig shows failures and finished timers on the desktop.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Title:   defaultTitle,
		Events:  []EventType{EventActionFailed, EventTimerFinished},
	}
}

// Notifier sends events to the configured channels.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	// desktop is replaced in tests.
	desktop func(title, message string) error
}

func NewNotifier(cfg Config, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
		desktop: func(title, message string) error { return beeep.Notify(title, message, "") },
	}
}

// Wants reports whether events of type t are delivered. An empty event
// list means every type.
func (n *Notifier) Wants(t EventType) bool {
	if n == nil {
		return false
	}
	if len(n.cfg.Events) == 0 {
		return true
	}
	for _, e := range n.cfg.Events {
		if e == t {
			return true
		}
	}
	return false
}

// Notify delivers event. Delivery failures are logged, never returned.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	if n == nil || !n.Wants(event.Type) {
		return
	}
	title := strings.TrimSpace(event.Title)
	if title == "" {
		title = n.cfg.Title
	}
	if title == "" {
		title = defaultTitle
	}
	message := strings.TrimSpace(event.Message)
	if message == "" {
		message = string(event.Type)
	}
	if len(message) > maxMessage {
		message = message[:maxMessage] + "..."
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if n.cfg.Enabled {
		if err := n.desktop(title, message); err != nil {
			n.logger.Debug("desktop notification failed", "error", err)
		}
	}
	if n.cfg.WebhookURL != "" {
		if err := n.post(ctx, title, message, event); err != nil {
			n.logger.Warn("webhook notification failed", "url", n.cfg.WebhookURL, "error", err)
		}
	}
}

func (n *Notifier) post(ctx context.Context, title, message string, event Event) error {
	payload := map[string]any{
		"event":     event.Type,
		"title":     title,
		"message":   message,
		"buttonId":  event.ButtonID,
		"profileId": event.ProfileID,
		"timestamp": event.Timestamp.Unix(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
