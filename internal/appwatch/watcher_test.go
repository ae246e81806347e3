package appwatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type scriptedWindows struct {
	mu    sync.Mutex
	apps  []string
	calls int
}

// GetFrontmostApp returns the scripted apps in order, repeating the last
// one. An "!" entry fails.
func (s *scriptedWindows) GetFrontmostApp() (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.apps)-1)
	s.calls++
	if s.apps[i] == "!" {
		return "", 0, errors.New("no window")
	}
	return s.apps[i], 100 + i, nil
}

type sink struct {
	mu   sync.Mutex
	apps []string
}

func (s *sink) SetActiveApp(app string) {
	s.mu.Lock()
	s.apps = append(s.apps, app)
	s.mu.Unlock()
}

func (s *sink) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.apps...)
}

func TestWatcher_ReportsApps(t *testing.T) {
	windows := &scriptedWindows{apps: []string{" Safari ", "!", "", "Spotify"}}
	var out sink
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := New(windows, &out, 5*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := out.seen(); len(got) >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.seen()
	if len(got) < 2 || got[0] != "Safari" || got[1] != "Spotify" {
		t.Errorf("apps = %v", got)
	}
}

func TestNew_DefaultInterval(t *testing.T) {
	w := New(&scriptedWindows{apps: []string{"x"}}, &sink{}, 0, nil)
	if w.interval != time.Second {
		t.Errorf("interval = %v", w.interval)
	}
}
