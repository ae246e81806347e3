package actions

import (
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/mj1618/weel/internal/model"
)

// SwitchDecision is the outcome of ShouldSwitchPage.
type SwitchDecision struct {
	ShouldSwitch bool   `yaml:"should_switch"         json:"shouldSwitch"`
	TargetPage   int    `yaml:"target_page,omitempty" json:"targetPage,omitempty"`
	Reason       string `yaml:"reason"                json:"reason"`
}

// AppChangeFunc is notified with the new and previous foreground app.
type AppChangeFunc func(app, previous string)

// AppAwareSwitchingHandler tracks the foreground application and decides
// when a profile should jump to the page mapped to it.
type AppAwareSwitchingHandler struct {
	mu        sync.Mutex
	activeApp string
	listeners map[uint64]AppChangeFunc
	nextID    uint64
}

func NewAppAwareSwitchingHandler() *AppAwareSwitchingHandler {
	return &AppAwareSwitchingHandler{listeners: make(map[uint64]AppChangeFunc)}
}

// SetActiveApp records the foreground app and notifies listeners if it
// changed. Listeners run on the caller's goroutine.
func (h *AppAwareSwitchingHandler) SetActiveApp(app string) {
	h.mu.Lock()
	if app == h.activeApp {
		h.mu.Unlock()
		return
	}
	previous := h.activeApp
	h.activeApp = app
	listeners := make([]AppChangeFunc, 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(app, previous)
	}
}

func (h *AppAwareSwitchingHandler) ActiveApp() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activeApp
}

// OnAppChange registers fn and returns a func that unregisters it.
func (h *AppAwareSwitchingHandler) OnAppChange(fn AppChangeFunc) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// ShouldSwitchPage decides whether profile p, currently on page current,
// should jump to the page mapped to activeApp.
func ShouldSwitchPage(activeApp string, p model.Profile, current int) SwitchDecision {
	s := p.AppAwareSettings
	if s == nil {
		return SwitchDecision{Reason: "No app-aware settings found"}
	}
	if !s.Enabled {
		return SwitchDecision{Reason: "App-aware switching disabled"}
	}
	if p.IsPinned(current) {
		return SwitchDecision{Reason: "Current page is pinned"}
	}
	target, ok := s.AppMappings[strings.ToLower(activeApp)]
	if ok && target > 0 && target != current {
		return SwitchDecision{
			ShouldSwitch: true,
			TargetPage:   target,
			Reason:       fmt.Sprintf("App %q mapped to page %d", activeApp, target),
		}
	}
	return SwitchDecision{Reason: "No mapping found for current app"}
}

// SuggestedPage returns the page mapped to app, if any.
func SuggestedPage(app string, p model.Profile) (int, bool) {
	if p.AppAwareSettings == nil {
		return 0, false
	}
	page, ok := p.AppAwareSettings.AppMappings[strings.ToLower(app)]
	return page, ok && page > 0
}

// ToggleAppAwareSwitching returns a copy of p with switching turned on or
// off, creating empty settings when needed.
func ToggleAppAwareSwitching(p model.Profile, enabled bool) model.Profile {
	out := p.Clone()
	if out.AppAwareSettings == nil {
		out.AppAwareSettings = &model.AppAwareSettings{AppMappings: map[string]int{}}
	}
	out.AppAwareSettings.Enabled = enabled
	return out
}

// AddAppMapping returns a copy of p mapping app (case-insensitive) to page.
func AddAppMapping(p model.Profile, app string, page int) model.Profile {
	out := p.Clone()
	if out.AppAwareSettings == nil {
		out.AppAwareSettings = &model.AppAwareSettings{AppMappings: map[string]int{}}
	}
	if out.AppAwareSettings.AppMappings == nil {
		out.AppAwareSettings.AppMappings = map[string]int{}
	}
	out.AppAwareSettings.AppMappings[strings.ToLower(app)] = page
	return out
}

// RemoveAppMapping returns a copy of p without the mapping for app.
func RemoveAppMapping(p model.Profile, app string) model.Profile {
	out := p.Clone()
	if out.AppAwareSettings != nil {
		delete(out.AppAwareSettings.AppMappings, strings.ToLower(app))
	}
	return out
}

var defaultAppMappings = map[string]int{
	// development and browsers
	"vscode": 1, "code": 1, "webstorm": 1, "intellij": 1,
	"chrome": 1, "firefox": 1, "safari": 1, "edge": 1,
	// communication
	"discord": 2, "slack": 2, "teams": 2, "zoom": 2,
	// media and streaming
	"spotify": 3, "vlc": 3, "obs studio": 3, "obs": 3,
	// games
	"steam": 4, "epic games": 4, "battle.net": 4,
}

// DefaultAppMappings returns a fresh copy of the built-in mappings.
func DefaultAppMappings() map[string]int {
	return maps.Clone(defaultAppMappings)
}
