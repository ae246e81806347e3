package actions

import (
	"context"
	"log/slog"

	"github.com/mj1618/weel/internal/model"
)

// Options configures an Executor. Nil collaborators are allowed: the
// actions that need them fail with a "requires desktop environment"
// message instead.
type Options struct {
	System SystemActions
	Audio  AudioPlayer
	Logger *slog.Logger

	// Base bounds the lifetime of background work such as countdowns.
	Base         context.Context
	TimerOptions []TimerOption
}

// Executor is the single entry point for running a button's action. It
// routes each kind to the handler for its category.
type Executor struct {
	logger *slog.Logger

	system      *SystemHandler
	audio       *AudioHandler
	timers      *TimerHandler
	navigation  *NavigationHandler
	multi       *MultiActionHandler
	multiSwitch *MultiActionSwitchHandler
	random      *RandomActionHandler
	appAware    *AppAwareSwitchingHandler
}

func NewExecutor(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{
		logger:     logger,
		system:     NewSystemHandler(opts.System, logger),
		audio:      NewAudioHandler(opts.Audio, logger),
		timers:     NewTimerHandler(opts.Base, logger, opts.TimerOptions...),
		navigation: NewNavigationHandler(),
		appAware:   NewAppAwareSwitchingHandler(),
	}
	e.multi = NewMultiActionHandler(e.dispatch, logger)
	e.multiSwitch = NewMultiActionSwitchHandler(e.multi)
	e.random = NewRandomActionHandler(e.multi)
	return e
}

// Execute runs action on behalf of buttonID. It never panics: a failure
// inside a handler is reported as an unsuccessful Result.
func (e *Executor) Execute(ctx context.Context, action model.ButtonAction, buttonID string, hc HandlerContext) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("action panicked", "button", buttonID, "panic", r)
			res = fail("Action execution failed: %v", r)
		}
	}()
	if action == nil {
		return fail("No action configured")
	}
	res = e.dispatch(ctx, action, buttonID, hc)
	e.logger.Debug("action executed", "button", buttonID, "type", action.Kind(), "success", res.Success, "message", res.Message)
	return res
}

func (e *Executor) dispatch(ctx context.Context, action model.ButtonAction, buttonID string, hc HandlerContext) Result {
	if action == nil {
		return fail("No action configured")
	}
	kind := action.Kind()
	switch kind.Category() {
	case model.CategoryNone:
		return succeed("No action configured")
	case model.CategorySystem:
		return e.system.Execute(ctx, action, buttonID, hc)
	case model.CategoryLegacy:
		return e.system.ExecuteLegacy(ctx, action)
	case model.CategoryAudio:
		return e.audio.Execute(ctx, action, buttonID)
	case model.CategoryTimer:
		return e.timers.Execute(ctx, action, buttonID, hc)
	case model.CategoryNavigation:
		return e.navigation.Execute(ctx, action, hc)
	case model.CategoryMulti:
		seq, _ := action.(model.Sequence)
		return e.multi.Execute(ctx, seq.Steps, buttonID, hc)
	case model.CategoryMultiSwitch:
		sets, _ := action.(model.SwitchSets)
		return e.multiSwitch.Execute(ctx, sets, buttonID, hc)
	case model.CategoryRandom:
		set, _ := action.(model.RandomSet)
		return e.random.Execute(ctx, set, buttonID, hc)
	default:
		return fail("Unknown action type: %s", kind)
	}
}

// Cleanup stops every countdown and audio clip.
func (e *Executor) Cleanup() {
	timers := e.timers.StopAllTimers()
	clips := e.audio.StopAll()
	e.logger.Debug("executor cleaned up", "timers", timers, "clips", clips)
}

func (e *Executor) System() *SystemHandler              { return e.system }
func (e *Executor) Audio() *AudioHandler                { return e.audio }
func (e *Executor) Timers() *TimerHandler               { return e.timers }
func (e *Executor) AppAware() *AppAwareSwitchingHandler { return e.appAware }
