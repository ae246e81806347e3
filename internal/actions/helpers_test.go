package actions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/weel/internal/model"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type call struct {
	Kind  model.Kind
	Value string
	Name  string
}

// fakeSystem records every PerformAction call. Values listed in failOn
// return an error whose message is "failed: <value>".
type fakeSystem struct {
	mu     sync.Mutex
	calls  []call
	failOn map[string]bool
	panics bool
}

func (f *fakeSystem) PerformAction(_ context.Context, kind model.Kind, value, name string) (string, error) {
	if f.panics {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind, value, name})
	if f.failOn[value] {
		return "", errors.New("failed: " + value)
	}
	return "ok: " + value, nil
}

func (f *fakeSystem) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type fakeClip struct {
	source  string
	volume  float64
	loop    bool
	onDone  func()
	stopped int
}

type fakePlayer struct {
	mu    sync.Mutex
	clips []*fakeClip
	err   error
}

func (p *fakePlayer) Play(source string, volume float64, loop bool, onDone func()) (func(), error) {
	if p.err != nil {
		return nil, p.err
	}
	c := &fakeClip{source: source, volume: volume, loop: loop, onDone: onDone}
	p.mu.Lock()
	p.clips = append(p.clips, c)
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		c.stopped++
		p.mu.Unlock()
	}, nil
}

func (p *fakePlayer) clip(i int) *fakeClip {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clips[i]
}

func (p *fakePlayer) stopped(i int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clips[i].stopped
}

// recorder captures HandlerContext callbacks.
type recorder struct {
	mu             sync.Mutex
	actions        []model.ButtonAction
	profileUpdates []model.ProfileUpdate
	buttonUpdates  map[string][]model.ButtonUpdate
	switchedTo     []string
}

func (r *recorder) context(p *model.Profile, profiles ...model.Profile) HandlerContext {
	return HandlerContext{
		CurrentProfile: p,
		Profiles:       profiles,
		OnProfileChange: func(id string) {
			r.mu.Lock()
			r.switchedTo = append(r.switchedTo, id)
			r.mu.Unlock()
		},
		UpdateProfile: func(_ string, u model.ProfileUpdate) {
			r.mu.Lock()
			r.profileUpdates = append(r.profileUpdates, u)
			r.mu.Unlock()
		},
		UpdateButton: func(id string, u model.ButtonUpdate) {
			r.mu.Lock()
			if r.buttonUpdates == nil {
				r.buttonUpdates = make(map[string][]model.ButtonUpdate)
			}
			r.buttonUpdates[id] = append(r.buttonUpdates[id], u)
			r.mu.Unlock()
		},
		UpdateAction: func(a model.ButtonAction) {
			r.mu.Lock()
			r.actions = append(r.actions, a)
			r.mu.Unlock()
		},
	}
}

func (r *recorder) lastAction() model.ButtonAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.actions) == 0 {
		return nil
	}
	return r.actions[len(r.actions)-1]
}

func (r *recorder) actionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

func (r *recorder) lastTimerState(id string) (model.TimerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.buttonUpdates[id]
	if len(u) == 0 || u[len(u)-1].TimerState == nil {
		return model.TimerState{}, false
	}
	return *u[len(u)-1].TimerState, true
}

func newTestExecutor(t *testing.T, sys SystemActions, player AudioPlayer) *Executor {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	e := NewExecutor(Options{
		System:       sys,
		Audio:        player,
		Logger:       discard,
		Base:         ctx,
		TimerOptions: []TimerOption{WithTick(10 * time.Millisecond)},
	})
	t.Cleanup(func() {
		e.Cleanup()
		cancel()
	})
	return e
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for: %s", msg)
}

func step(kind model.Kind, value string) model.Step {
	return model.Step{ID: value, Type: kind, Value: value}
}

func disabled(s model.Step) model.Step {
	off := false
	s.Enabled = &off
	return s
}

func simple(kind model.Kind, value string) model.ButtonAction {
	return model.NewAction(kind, value)
}

func ptr[T any](v T) *T { return &v }
