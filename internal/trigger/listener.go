package trigger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// PressFunc handles a press of the zero-based slot index.
type PressFunc func(index int)

// Listen reads lines from r until EOF, a read error or ctx is done, and
// calls press for every button message. Each press runs on its own
// goroutine, so a slow action never holds back the next button. r is
// closed when Listen returns.
func Listen(ctx context.Context, r io.ReadCloser, press PressFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	stop := context.AfterFunc(ctx, func() { r.Close() })
	defer func() {
		if stop() {
			r.Close()
		}
	}()

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		msg, err := ParseLine(sc.Text())
		if err != nil {
			logger.Warn("ignoring pad message", "error", err)
			continue
		}
		switch msg.Kind {
		case MessagePress:
			logger.Debug("hardware button pressed", "raw", msg.Raw, "index", msg.Index)
			go press(msg.Index)
		case MessageStatus:
			logger.Debug("pad status", "raw", msg.Raw)
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := sc.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("read pad: %w", err)
	}
	return io.EOF
}

// Opener opens the pad device.
type Opener func() (io.ReadCloser, error)

// Run keeps a pad connection open, reconnecting after retry whenever the
// device disappears. It returns when ctx is done.
func Run(ctx context.Context, open Opener, retry time.Duration, press PressFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if retry <= 0 {
		retry = 2 * time.Second
	}
	for {
		r, err := open()
		if err != nil {
			logger.Warn("pad unavailable", "error", err, "retry", retry)
		} else {
			logger.Info("pad connected")
			err = Listen(ctx, r, press, logger)
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("pad disconnected", "error", err, "retry", retry)
		}

		t := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// SerialOpener returns an Opener for a serial device at the given baud
// rate.
func SerialOpener(device string, baud int) Opener {
	return func() (io.ReadCloser, error) {
		f, err := OpenSerial(device, baud)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
