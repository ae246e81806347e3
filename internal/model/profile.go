package model

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// GridSize is the button grid of one page.
type GridSize struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Cells is the number of button slots on a page.
func (g GridSize) Cells() int { return g.Rows * g.Cols }

// TimerState is transient per-button countdown state.
type TimerState struct {
	IsRunning     bool  `json:"isRunning"     yaml:"isRunning"`
	RemainingTime int   `json:"remainingTime" yaml:"remainingTime"` // seconds
	StartTime     int64 `json:"startTime"     yaml:"startTime"`     // epoch ms
}

// IdleTimer is the state a timer returns to on completion or stop.
var IdleTimer = TimerState{}

// ButtonConfig is what a single grid slot holds.
type ButtonConfig struct {
	ID              string       `json:"id"                        yaml:"id"`
	Label           string       `json:"label"                     yaml:"label"`
	IconName        string       `json:"iconName,omitempty"        yaml:"iconName,omitempty"`
	Action          ButtonAction `json:"action"                    yaml:"action"`
	BackgroundColor string       `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	TextColor       string       `json:"textColor,omitempty"       yaml:"textColor,omitempty"`
	TimerState      *TimerState  `json:"timerState,omitempty"      yaml:"timerState,omitempty"`
}

// NewButton creates a button with a fresh id.
func NewButton(label string, action ButtonAction) *ButtonConfig {
	return &ButtonConfig{ID: uuid.New().String(), Label: label, Action: action}
}

type buttonJSON struct {
	ID              string          `json:"id"`
	Label           string          `json:"label"`
	IconName        string          `json:"iconName,omitempty"`
	Action          json.RawMessage `json:"action"`
	BackgroundColor string          `json:"backgroundColor,omitempty"`
	TextColor       string          `json:"textColor,omitempty"`
	TimerState      *TimerState     `json:"timerState,omitempty"`
}

func (b ButtonConfig) MarshalJSON() ([]byte, error) {
	action, err := MarshalAction(b.Action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(buttonJSON{
		ID:              b.ID,
		Label:           b.Label,
		IconName:        b.IconName,
		Action:          action,
		BackgroundColor: b.BackgroundColor,
		TextColor:       b.TextColor,
		TimerState:      b.TimerState,
	})
}

func (b *ButtonConfig) UnmarshalJSON(data []byte) error {
	var raw buttonJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = ButtonConfig{
		ID:              raw.ID,
		Label:           raw.Label,
		IconName:        raw.IconName,
		BackgroundColor: raw.BackgroundColor,
		TextColor:       raw.TextColor,
		TimerState:      raw.TimerState,
	}
	if len(raw.Action) == 0 || string(raw.Action) == "null" {
		b.Action = NewAction(KindNone, "")
		return nil
	}
	action, err := UnmarshalAction(raw.Action)
	if err != nil {
		return fmt.Errorf("button %s: %w", raw.ID, err)
	}
	b.Action = action
	return nil
}

// AppAwareSettings maps lower-cased application names to page numbers.
type AppAwareSettings struct {
	Enabled     bool           `json:"enabled"     yaml:"enabled"`
	AppMappings map[string]int `json:"appMappings" yaml:"appMappings"`
}

// Profile is a named collection of button pages. Buttons holds the page
// currently shown; Pages holds every page by 1-based number.
type Profile struct {
	ID               string                  `json:"id"                         yaml:"id"`
	Name             string                  `json:"name"                       yaml:"name"`
	GridSize         GridSize                `json:"gridSize"                   yaml:"gridSize"`
	Buttons          []*ButtonConfig         `json:"buttons"                    yaml:"buttons"`
	CurrentPage      int                     `json:"currentPage,omitempty"      yaml:"currentPage,omitempty"`
	TotalPages       int                     `json:"totalPages,omitempty"       yaml:"totalPages,omitempty"`
	Pages            map[int][]*ButtonConfig `json:"pages,omitempty"            yaml:"pages,omitempty"`
	PinnedPages      []int                   `json:"pinnedPages,omitempty"      yaml:"pinnedPages,omitempty"`
	AppAwareSettings *AppAwareSettings       `json:"appAwareSettings,omitempty" yaml:"appAwareSettings,omitempty"`
}

// NewProfile returns a single-page profile with an empty grid.
// Page 1 is pinned by convention.
func NewProfile(name string, rows, cols int) Profile {
	buttons := make([]*ButtonConfig, rows*cols)
	return Profile{
		ID:          uuid.New().String(),
		Name:        name,
		GridSize:    GridSize{Rows: rows, Cols: cols},
		Buttons:     buttons,
		CurrentPage: 1,
		TotalPages:  1,
		Pages:       map[int][]*ButtonConfig{1: buttons},
		PinnedPages: []int{1},
	}
}

// Page returns the current page, treating an unset value as 1.
func (p Profile) Page() int {
	if p.CurrentPage < 1 {
		return 1
	}
	return p.CurrentPage
}

// PageCount returns the number of pages, treating an unset value as 1.
func (p Profile) PageCount() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}

func (p Profile) IsPinned(page int) bool {
	return slices.Contains(p.PinnedPages, page)
}

// ButtonsOn returns the buttons of the given page. The current page is
// served from Buttons, which is authoritative while it is shown.
func (p Profile) ButtonsOn(page int) []*ButtonConfig {
	if page == p.Page() && p.Buttons != nil {
		return p.Buttons
	}
	if b, ok := p.Pages[page]; ok {
		return b
	}
	return make([]*ButtonConfig, p.GridSize.Cells())
}

// ButtonAt returns the button in slot index of the current page, or nil.
func (p Profile) ButtonAt(index int) *ButtonConfig {
	if index < 0 || index >= len(p.Buttons) {
		return nil
	}
	return p.Buttons[index]
}

// FindButton locates a button by id on the current page.
func (p Profile) FindButton(id string) (int, *ButtonConfig) {
	for i, b := range p.Buttons {
		if b != nil && b.ID == id {
			return i, b
		}
	}
	return -1, nil
}

// WithPage returns a copy showing page n: the outgoing page is stored back
// into Pages and Buttons is loaded from the target page.
func (p Profile) WithPage(n int) Profile {
	out := p.Clone()
	if out.Pages == nil {
		out.Pages = make(map[int][]*ButtonConfig)
	}
	out.Pages[out.Page()] = out.Buttons
	out.Buttons = out.ButtonsOn(n)
	if _, ok := out.Pages[n]; !ok {
		out.Pages[n] = out.Buttons
	}
	out.CurrentPage = n
	return out
}

// Clone copies the profile's containers. Buttons themselves are shared and
// must be replaced, not mutated.
func (p Profile) Clone() Profile {
	out := p
	out.Buttons = slices.Clone(p.Buttons)
	if p.Pages != nil {
		out.Pages = make(map[int][]*ButtonConfig, len(p.Pages))
		for k, v := range p.Pages {
			out.Pages[k] = slices.Clone(v)
		}
		out.Pages[out.Page()] = out.Buttons
	}
	out.PinnedPages = slices.Clone(p.PinnedPages)
	if p.AppAwareSettings != nil {
		s := *p.AppAwareSettings
		s.AppMappings = make(map[string]int, len(p.AppAwareSettings.AppMappings))
		for k, v := range p.AppAwareSettings.AppMappings {
			s.AppMappings[k] = v
		}
		out.AppAwareSettings = &s
	}
	return out
}
