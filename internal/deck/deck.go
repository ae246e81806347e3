// Package deck owns the live profile set. It turns button presses into
// executor calls and applies the changes actions request back onto the
// stored profiles.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mj1618/weel/internal/actions"
	"github.com/mj1618/weel/internal/model"
	"github.com/mj1618/weel/internal/notify"
	"github.com/mj1618/weel/internal/store"
)

var (
	// ErrNoButton is returned for a slot index outside the grid.
	ErrNoButton = errors.New("no such button")
	// ErrInvalidPage is returned for a page outside the profile.
	ErrInvalidPage = errors.New("invalid page number")
)

// Notifier receives deck events. *notify.Notifier satisfies it.
type Notifier interface {
	Notify(ctx context.Context, event notify.Event)
}

// Options configures a Deck.
type Options struct {
	Store    store.ProfileStore
	System   actions.SystemActions
	Audio    actions.AudioPlayer
	Notifier Notifier
	Logger   *slog.Logger
	// Tick is how often running countdowns publish. Zero means one second.
	Tick time.Duration
	// Clock replaces time.Now for countdowns.
	Clock func() time.Time
}

// Deck is safe for concurrent use. Actions run without the deck lock held,
// so a long multi-action never blocks other presses.
type Deck struct {
	store    store.ProfileStore
	exec     *actions.Executor
	notifier Notifier
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	profiles  []model.Profile
	currentID string

	subMu     sync.Mutex
	listeners map[uint64]func(State)
	nextSub   uint64

	unwatch func()
}

// New loads every profile from the store and selects the stored current
// profile.
func New(ctx context.Context, opts Options) (*Deck, error) {
	if opts.Store == nil {
		return nil, errors.New("deck: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	profiles, err := opts.Store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, errors.New("deck: store has no profiles")
	}
	current, err := opts.Store.CurrentProfileID(ctx)
	if err != nil {
		current = profiles[0].ID
	}

	base, cancel := context.WithCancel(context.Background())
	d := &Deck{
		store:     opts.Store,
		notifier:  opts.Notifier,
		logger:    logger,
		ctx:       base,
		cancel:    cancel,
		profiles:  profiles,
		currentID: current,
		listeners: make(map[uint64]func(State)),
	}
	timerOpts := []actions.TimerOption{actions.WithFinished(d.timerFinished)}
	if opts.Tick > 0 {
		timerOpts = append(timerOpts, actions.WithTick(opts.Tick))
	}
	if opts.Clock != nil {
		timerOpts = append(timerOpts, actions.WithClock(opts.Clock))
	}
	d.exec = actions.NewExecutor(actions.Options{
		System:       opts.System,
		Audio:        opts.Audio,
		Logger:       logger,
		Base:         base,
		TimerOptions: timerOpts,
	})
	d.unwatch = d.exec.AppAware().OnAppChange(d.appChanged)
	return d, nil
}

// Executor exposes the executor for callers that run actions directly.
func (d *Deck) Executor() *actions.Executor { return d.exec }

// Close stops background work and flushes the store.
func (d *Deck) Close() error {
	d.unwatch()
	d.exec.Cleanup()
	d.cancel()
	return d.store.Close()
}

// Current returns a copy of the active profile.
func (d *Deck) Current() model.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentLocked().Clone()
}

// Profiles returns copies of every profile.
func (d *Deck) Profiles() []model.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Profile, len(d.profiles))
	for i, p := range d.profiles {
		out[i] = p.Clone()
	}
	return out
}

func (d *Deck) currentLocked() *model.Profile {
	if i := d.indexLocked(d.currentID); i >= 0 {
		return &d.profiles[i]
	}
	return &d.profiles[0]
}

func (d *Deck) indexLocked(id string) int {
	for i := range d.profiles {
		if d.profiles[i].ID == id {
			return i
		}
	}
	return -1
}

// lookupLocked resolves a profile by id or, failing that, by name.
func (d *Deck) lookupLocked(ref string) int {
	if i := d.indexLocked(ref); i >= 0 {
		return i
	}
	for i := range d.profiles {
		if d.profiles[i].Name == ref {
			return i
		}
	}
	return -1
}

// Press runs the action on slot index of the current page.
func (d *Deck) Press(ctx context.Context, index int) (actions.Result, error) {
	d.mu.Lock()
	p := d.currentLocked()
	if index < 0 || index >= p.GridSize.Cells() {
		d.mu.Unlock()
		return actions.Result{}, fmt.Errorf("%w: %d", ErrNoButton, index)
	}
	btn := p.ButtonAt(index)
	d.mu.Unlock()

	if btn == nil {
		return actions.Result{Success: false, Message: fmt.Sprintf("Button %d is empty", index+1)}, nil
	}
	return d.run(ctx, btn.Action, btn.ID), nil
}

// PressID runs the action of the button with the given id on the current
// page.
func (d *Deck) PressID(ctx context.Context, buttonID string) (actions.Result, error) {
	d.mu.Lock()
	_, btn := d.currentLocked().FindButton(buttonID)
	d.mu.Unlock()
	if btn == nil {
		return actions.Result{}, fmt.Errorf("%w: %s", ErrNoButton, buttonID)
	}
	return d.run(ctx, btn.Action, btn.ID), nil
}

// Run executes an action that is not bound to any stored button.
func (d *Deck) Run(ctx context.Context, action model.ButtonAction, buttonID string) actions.Result {
	return d.run(ctx, action, buttonID)
}

func (d *Deck) run(ctx context.Context, action model.ButtonAction, buttonID string) actions.Result {
	res := d.exec.Execute(ctx, action, buttonID, d.handlerContext(buttonID))
	if !res.Success {
		d.notify(notify.Event{
			Type:      notify.EventActionFailed,
			Message:   res.Message,
			ButtonID:  buttonID,
			ProfileID: d.Current().ID,
		})
	}
	return res
}

// handlerContext snapshots the profiles and binds the mutation callbacks
// to this deck.
func (d *Deck) handlerContext(buttonID string) actions.HandlerContext {
	current := d.Current()
	return actions.HandlerContext{
		CurrentProfile: &current,
		Profiles:       d.Profiles(),
		OnProfileChange: func(id string) {
			if err := d.SwitchProfile(context.Background(), id); err != nil {
				d.logger.Warn("switch profile", "profile", id, "error", err)
			}
		},
		OnCreateProfile: func(name string) string {
			p, err := d.CreateProfile(context.Background(), name)
			if err != nil {
				d.logger.Warn("create profile", "name", name, "error", err)
				return ""
			}
			return p.ID
		},
		UpdateProfile: func(id string, u model.ProfileUpdate) {
			if err := d.UpdateProfile(context.Background(), id, u); err != nil {
				d.logger.Warn("update profile", "profile", id, "error", err)
			}
		},
		UpdateButton: func(id string, u model.ButtonUpdate) {
			d.updateButton(id, u)
		},
		UpdateAction: func(a model.ButtonAction) {
			d.updateButton(buttonID, model.ButtonUpdate{Action: a})
		},
	}
}

// SwitchProfile makes the profile with the given id (or name) active.
// Running timers and clips belong to the old profile and are stopped.
func (d *Deck) SwitchProfile(ctx context.Context, ref string) error {
	d.mu.Lock()
	i := d.lookupLocked(ref)
	if i < 0 {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrNotFound, ref)
	}
	id := d.profiles[i].ID
	if id == d.currentID {
		d.mu.Unlock()
		return nil
	}
	d.currentID = id
	name := d.profiles[i].Name
	d.mu.Unlock()

	d.exec.Cleanup()
	if err := d.store.SetCurrentProfileID(ctx, id); err != nil {
		return fmt.Errorf("persist current profile: %w", err)
	}
	d.logger.Info("profile switched", "profile", name)
	d.notify(notify.Event{Type: notify.EventProfileChanged, Message: "Switched to profile: " + name, ProfileID: id})
	d.publish()
	return nil
}

// CreateProfile adds an empty single-page profile with the current grid
// size.
func (d *Deck) CreateProfile(ctx context.Context, name string) (model.Profile, error) {
	grid := d.Current().GridSize
	p := model.NewProfile(name, grid.Rows, grid.Cols)
	if err := d.store.CreateProfile(ctx, &p); err != nil {
		return model.Profile{}, err
	}
	d.mu.Lock()
	d.profiles = append(d.profiles, p.Clone())
	d.mu.Unlock()
	d.publish()
	return p, nil
}

// UpdateProfile applies a partial change to a profile and persists it.
func (d *Deck) UpdateProfile(ctx context.Context, id string, u model.ProfileUpdate) error {
	return d.mutate(ctx, id, func(p model.Profile) (model.Profile, error) {
		return u.Apply(p), nil
	})
}

// GoToPage shows page n of the current profile.
func (d *Deck) GoToPage(ctx context.Context, n int) error {
	return d.mutate(ctx, "", func(p model.Profile) (model.Profile, error) {
		if n < 1 || n > p.PageCount() {
			return p, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPage, p.PageCount())
		}
		return p.WithPage(n), nil
	})
}

// SetAppAware turns app-aware switching on or off for the current profile.
func (d *Deck) SetAppAware(ctx context.Context, enabled bool) error {
	return d.mutate(ctx, "", func(p model.Profile) (model.Profile, error) {
		return actions.ToggleAppAwareSwitching(p, enabled), nil
	})
}

// MapApp maps app to page on the current profile. A page of zero or less
// removes the mapping.
func (d *Deck) MapApp(ctx context.Context, app string, page int) error {
	return d.mutate(ctx, "", func(p model.Profile) (model.Profile, error) {
		if page <= 0 {
			return actions.RemoveAppMapping(p, app), nil
		}
		if page > p.PageCount() {
			return p, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPage, p.PageCount())
		}
		return actions.AddAppMapping(p, app, page), nil
	})
}

// mutate replaces profile id (the current profile when empty) with the
// result of fn and persists it.
func (d *Deck) mutate(ctx context.Context, id string, fn func(model.Profile) (model.Profile, error)) error {
	d.mu.Lock()
	if id == "" {
		id = d.currentLocked().ID
	}
	i := d.indexLocked(id)
	if i < 0 {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	next, err := fn(d.profiles[i].Clone())
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.profiles[i] = next
	d.mu.Unlock()

	if err := d.store.UpdateProfile(ctx, &next); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	d.publish()
	return nil
}

// updateButton replaces the button with the given id wherever it appears.
// Timer-only changes are published but not persisted since they are
// transient and arrive every tick.
func (d *Deck) updateButton(id string, u model.ButtonUpdate) {
	d.mu.Lock()
	var changed *model.Profile
	for i := range d.profiles {
		if replaceButton(&d.profiles[i], id, u) {
			c := d.profiles[i].Clone()
			changed = &c
			break
		}
	}
	d.mu.Unlock()
	if changed == nil {
		d.logger.Debug("update for unknown button", "button", id)
		return
	}

	if u.Label != nil || u.Action != nil {
		if err := d.store.UpdateProfile(d.ctx, changed); err != nil {
			d.logger.Warn("persist button", "button", id, "error", err)
		}
	}
	d.publish()
}

func replaceButton(p *model.Profile, id string, u model.ButtonUpdate) bool {
	found := false
	swap := func(buttons []*model.ButtonConfig) {
		for j, b := range buttons {
			if b != nil && b.ID == id {
				next := u.Apply(*b)
				buttons[j] = &next
				found = true
			}
		}
	}
	swap(p.Buttons)
	for page, buttons := range p.Pages {
		if page != p.Page() {
			swap(buttons)
		}
	}
	if p.Pages != nil {
		p.Pages[p.Page()] = p.Buttons
	}
	return found
}

// StopAll stops every running timer and audio clip.
func (d *Deck) StopAll() {
	d.exec.Cleanup()
	d.publish()
}

// SetActiveApp reports the foreground application.
func (d *Deck) SetActiveApp(app string) {
	d.exec.AppAware().SetActiveApp(app)
}

func (d *Deck) appChanged(app, _ string) {
	current := d.Current()
	decision := actions.ShouldSwitchPage(app, current, current.Page())
	if !decision.ShouldSwitch {
		d.logger.Debug("app changed", "app", app, "reason", decision.Reason)
		d.publish()
		return
	}
	if err := d.GoToPage(d.ctx, decision.TargetPage); err != nil {
		d.logger.Warn("app-aware page switch", "app", app, "page", decision.TargetPage, "error", err)
		return
	}
	d.logger.Info("app-aware page switch", "app", app, "page", decision.TargetPage)
	d.notify(notify.Event{
		Type:      notify.EventPageSwitched,
		Message:   decision.Reason,
		ProfileID: current.ID,
	})
}

func (d *Deck) timerFinished(buttonID string) {
	label := buttonID
	for _, p := range d.Profiles() {
		for _, buttons := range p.Pages {
			for _, b := range buttons {
				if b != nil && b.ID == buttonID && b.Label != "" {
					label = b.Label
				}
			}
		}
	}
	d.notify(notify.Event{
		Type:     notify.EventTimerFinished,
		Title:    label,
		Message:  "Timer finished",
		ButtonID: buttonID,
	})
}

func (d *Deck) notify(event notify.Event) {
	if d.notifier != nil {
		d.notifier.Notify(d.ctx, event)
	}
}
