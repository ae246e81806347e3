package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/mj1618/weel/internal/model"
	"github.com/mj1618/weel/internal/schedule"
)

const defaultDelay = time.Second

type countdown struct {
	seq      uint64
	duration int
	start    time.Time
	state    model.TimerState
	hc       HandlerContext
}

// TimerHandler runs per-button countdown timers and inline delays.
type TimerHandler struct {
	sched  *schedule.Scheduler
	base   context.Context
	tick   time.Duration
	now    func() time.Time
	logger *slog.Logger
	done   func(buttonID string)

	mu     sync.Mutex
	timers map[string]*countdown
	seq    uint64

	// pushMu orders state pushes so a tick never lands after a reset.
	pushMu sync.Mutex
}

// TimerOption configures a TimerHandler.
type TimerOption func(*TimerHandler)

// WithTick overrides how often a running countdown pushes its state. It
// does not change how long a countdown lasts.
func WithTick(d time.Duration) TimerOption {
	return func(h *TimerHandler) { h.tick = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) TimerOption {
	return func(h *TimerHandler) { h.now = now }
}

// WithFinished registers fn to run when a countdown reaches zero. It does
// not run for stopped timers.
func WithFinished(fn func(buttonID string)) TimerOption {
	return func(h *TimerHandler) { h.done = fn }
}

// NewTimerHandler creates a handler whose countdowns live until base is
// done or they are stopped.
func NewTimerHandler(base context.Context, logger *slog.Logger, opts ...TimerOption) *TimerHandler {
	if base == nil {
		base = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &TimerHandler{
		sched:  schedule.New(),
		base:   base,
		tick:   time.Second,
		now:    time.Now,
		logger: logger,
		timers: make(map[string]*countdown),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Execute runs a timer-category action.
func (h *TimerHandler) Execute(ctx context.Context, action model.ButtonAction, buttonID string, hc HandlerContext) Result {
	switch action.Kind().Canonical() {
	case model.KindCountdownTimer:
		t, ok := action.(model.Timer)
		if !ok {
			t = model.Timer{Base: model.Base{Type: action.Kind(), Value: action.Payload()}}
		}
		return h.start(t, buttonID, hc)
	case model.KindDelay:
		return h.delay(ctx, action.Payload())
	default:
		return fail("Unknown timer action: %s", action.Kind())
	}
}

func (h *TimerHandler) start(t model.Timer, buttonID string, hc HandlerContext) Result {
	duration := t.Seconds()
	h.StopTimer(buttonID)

	start := h.now()
	h.mu.Lock()
	h.seq++
	cd := &countdown{
		seq:      h.seq,
		duration: duration,
		start:    start,
		state:    model.TimerState{IsRunning: true, RemainingTime: duration, StartTime: start.UnixMilli()},
		hc:       hc,
	}
	h.timers[buttonID] = cd
	h.mu.Unlock()

	initial := cd.state
	hc.updateButton(buttonID, model.ButtonUpdate{TimerState: &initial})

	h.sched.Every(h.base, buttonID, h.tick, func(time.Time) bool {
		return h.onTick(buttonID, cd, hc)
	})

	h.logger.Debug("timer started", "button", buttonID, "seconds", duration)
	return succeed("Timer started: %s", FormatTime(duration))
}

// onTick recomputes the remaining time and pushes it to the button. It
// returns false once the countdown is over.
func (h *TimerHandler) onTick(buttonID string, cd *countdown, hc HandlerContext) bool {
	h.pushMu.Lock()
	defer h.pushMu.Unlock()

	elapsed := int(h.now().Sub(cd.start) / time.Second)
	remaining := max(cd.duration-elapsed, 0)

	h.mu.Lock()
	if cur, ok := h.timers[buttonID]; !ok || cur.seq != cd.seq {
		h.mu.Unlock()
		return false
	}
	if remaining == 0 {
		delete(h.timers, buttonID)
	} else {
		cd.state.RemainingTime = remaining
	}
	state := cd.state
	h.mu.Unlock()

	if remaining == 0 {
		resetTimer(buttonID, hc)
		h.logger.Debug("timer completed", "button", buttonID)
		if h.done != nil {
			h.done(buttonID)
		}
		return false
	}
	hc.updateButton(buttonID, model.ButtonUpdate{TimerState: &state})
	return true
}

// delay waits without holding any lock, so other buttons keep working.
func (h *TimerHandler) delay(ctx context.Context, value string) Result {
	d := defaultDelay
	if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
		d = time.Duration(ms) * time.Millisecond
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return succeed("Delayed for %dms", d.Milliseconds())
	case <-ctx.Done():
		return fail("Delay interrupted: %s", ctx.Err())
	}
}

// StopTimer cancels the countdown for a button and resets its timer state
// to idle. It is safe to call when no timer is running.
func (h *TimerHandler) StopTimer(buttonID string) bool {
	h.pushMu.Lock()
	defer h.pushMu.Unlock()
	h.mu.Lock()
	cd, ok := h.timers[buttonID]
	delete(h.timers, buttonID)
	h.mu.Unlock()
	h.sched.Cancel(buttonID)
	if ok {
		resetTimer(buttonID, cd.hc)
	}
	return ok
}

// StopAllTimers cancels every countdown and returns how many were running.
func (h *TimerHandler) StopAllTimers() int {
	h.pushMu.Lock()
	defer h.pushMu.Unlock()
	h.mu.Lock()
	timers := h.timers
	h.timers = make(map[string]*countdown)
	h.mu.Unlock()
	h.sched.CancelAll()
	for id, cd := range timers {
		resetTimer(id, cd.hc)
	}
	return len(timers)
}

func resetTimer(buttonID string, hc HandlerContext) {
	idle := model.IdleTimer
	hc.updateButton(buttonID, model.ButtonUpdate{TimerState: &idle})
}

// TimerState returns the last pushed state for a button.
func (h *TimerHandler) TimerState(buttonID string) (model.TimerState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cd, ok := h.timers[buttonID]
	if !ok {
		return model.IdleTimer, false
	}
	return cd.state, true
}

func (h *TimerHandler) IsRunning(buttonID string) bool {
	_, ok := h.TimerState(buttonID)
	return ok
}

// FormatTime renders seconds as mm:ss, or hh:mm:ss from one hour up.
func FormatTime(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
