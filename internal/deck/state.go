package deck

import "github.com/mj1618/weel/internal/model"

// ProfileRef names a profile without its buttons.
type ProfileRef struct {
	ID   string `yaml:"id"   json:"id"`
	Name string `yaml:"name" json:"name"`
}

// State is what a UI needs to render the pad.
type State struct {
	ProfileID   string                `yaml:"profile_id"           json:"profileId"`
	ProfileName string                `yaml:"profile_name"         json:"profileName"`
	GridSize    model.GridSize        `yaml:"grid_size"            json:"gridSize"`
	Page        int                   `yaml:"page"                 json:"page"`
	PageCount   int                   `yaml:"page_count"           json:"pageCount"`
	Pinned      bool                  `yaml:"pinned"               json:"pinned"`
	Buttons     []*model.ButtonConfig `yaml:"buttons"              json:"buttons"`
	Profiles    []ProfileRef          `yaml:"profiles"             json:"profiles"`
	ActiveApp   string                `yaml:"active_app,omitempty" json:"activeApp,omitempty"`
	AppAware    bool                  `yaml:"app_aware"            json:"appAware"`
}

// State returns a snapshot of the current profile and page.
func (d *Deck) State() State {
	d.mu.Lock()
	p := d.currentLocked().Clone()
	refs := make([]ProfileRef, len(d.profiles))
	for i, q := range d.profiles {
		refs[i] = ProfileRef{ID: q.ID, Name: q.Name}
	}
	d.mu.Unlock()

	return State{
		ProfileID:   p.ID,
		ProfileName: p.Name,
		GridSize:    p.GridSize,
		Page:        p.Page(),
		PageCount:   p.PageCount(),
		Pinned:      p.IsPinned(p.Page()),
		Buttons:     p.Buttons,
		Profiles:    refs,
		ActiveApp:   d.exec.AppAware().ActiveApp(),
		AppAware:    p.AppAwareSettings != nil && p.AppAwareSettings.Enabled,
	}
}

// Subscribe registers fn to receive a State after every change. fn runs
// on the goroutine that made the change and must not block.
func (d *Deck) Subscribe(fn func(State)) (unsubscribe func()) {
	d.subMu.Lock()
	d.nextSub++
	id := d.nextSub
	d.listeners[id] = fn
	d.subMu.Unlock()
	return func() {
		d.subMu.Lock()
		delete(d.listeners, id)
		d.subMu.Unlock()
	}
}

func (d *Deck) publish() {
	d.subMu.Lock()
	if len(d.listeners) == 0 {
		d.subMu.Unlock()
		return
	}
	fns := make([]func(State), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.subMu.Unlock()

	s := d.State()
	for _, fn := range fns {
		fn(s)
	}
}
