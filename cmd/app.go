package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mj1618/weel/internal/audio"
	"github.com/mj1618/weel/internal/deck"
	"github.com/mj1618/weel/internal/notify"
	"github.com/mj1618/weel/internal/platform"
	"github.com/mj1618/weel/internal/store"
)

// session bundles what a command needs to drive the deck.
type session struct {
	deck     *deck.Deck
	provider *platform.Provider
}

// openSession loads the profile store and builds a deck wired to the
// platform backends. A platform without a desktop backend still gets a
// deck; its system actions fail with an "unsupported" message.
func openSession(ctx context.Context) (*session, error) {
	provider, err := platform.NewProvider()
	if err != nil {
		if !errors.Is(err, platform.ErrUnsupported) {
			return nil, fmt.Errorf("platform: %w", err)
		}
		logger.Warn("no desktop backend, system actions disabled", "error", err)
		provider = &platform.Provider{}
	}
	if platform.CheckPermissionsFunc != nil {
		if err := platform.CheckPermissionsFunc(); err != nil {
			logger.Warn("keystrokes may be blocked", "error", err)
		}
	}

	st, err := store.NewJSONStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}

	var notifier deck.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewNotifier(cfg.Notify, logger)
	}

	d, err := deck.New(ctx, deck.Options{
		Store:    st,
		System:   platform.NewPerformer(provider, logger),
		Audio:    audio.NewPlayer(cfg.Audio, logger),
		Notifier: notifier,
		Logger:   logger,
		Tick:     time.Duration(cfg.Timers.TickMS) * time.Millisecond,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return &session{deck: d, provider: provider}, nil
}

func (r *session) Close() error {
	return r.deck.Close()
}

// parseSlot converts a one-based button number from the command line into
// a slot index.
func parseSlot(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid button %q: must be a number from 1", s)
	}
	return n - 1, nil
}
