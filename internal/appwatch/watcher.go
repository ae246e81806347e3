// Package appwatch polls the frontmost application and reports changes.
package appwatch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mj1618/weel/internal/platform"
)

// Sink receives the name of the frontmost application. It is called on
// every poll; deduplication is the sink's job.
type Sink interface {
	SetActiveApp(app string)
}

// Watcher polls a WindowManager on a fixed interval.
type Watcher struct {
	windows  platform.WindowManager
	sink     Sink
	interval time.Duration
	logger   *slog.Logger
}

func New(windows platform.WindowManager, sink Sink, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{windows: windows, sink: sink, interval: interval, logger: logger}
}

// Run polls until ctx is done. Lookup failures are logged once per
// outage and otherwise ignored.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	failing := false
	poll := func() {
		app, pid, err := w.windows.GetFrontmostApp()
		if err != nil {
			if !failing {
				w.logger.Warn("frontmost app lookup failed", "error", err)
				failing = true
			}
			return
		}
		if failing {
			w.logger.Info("frontmost app lookup recovered")
			failing = false
		}
		app = strings.TrimSpace(app)
		if app == "" {
			return
		}
		w.logger.Debug("frontmost app", "app", app, "pid", pid)
		w.sink.SetActiveApp(app)
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			poll()
		}
	}
}
