package actions

import (
	"testing"

	"github.com/mj1618/weel/internal/model"
)

func appAwareProfile() model.Profile {
	p := model.NewProfile("Main", 3, 5)
	p.TotalPages = 4
	p = AddAppMapping(ToggleAppAwareSwitching(p, true), "Discord", 2)
	return p
}

func TestShouldSwitchPage(t *testing.T) {
	base := appAwareProfile()
	off := ToggleAppAwareSwitching(base, false)
	none := model.NewProfile("Bare", 3, 5)

	tests := []struct {
		name    string
		app     string
		profile model.Profile
		page    int
		want    SwitchDecision
	}{
		{"no settings", "discord", none, 3, SwitchDecision{Reason: "No app-aware settings found"}},
		{"disabled", "discord", off, 3, SwitchDecision{Reason: "App-aware switching disabled"}},
		{"pinned", "discord", base, 1, SwitchDecision{Reason: "Current page is pinned"}},
		{"mapped", "Discord", base, 3, SwitchDecision{ShouldSwitch: true, TargetPage: 2, Reason: `App "Discord" mapped to page 2`}},
		{"already there", "discord", base, 2, SwitchDecision{Reason: "No mapping found for current app"}},
		{"unmapped", "notes", base, 3, SwitchDecision{Reason: "No mapping found for current app"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldSwitchPage(tt.app, tt.profile, tt.page); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAppMappingTransformsDoNotMutate(t *testing.T) {
	p := appAwareProfile()
	q := RemoveAppMapping(p, "DISCORD")

	if _, ok := q.AppAwareSettings.AppMappings["discord"]; ok {
		t.Error("mapping not removed")
	}
	if p.AppAwareSettings.AppMappings["discord"] != 2 {
		t.Error("original profile mutated")
	}
	if page, ok := SuggestedPage("DiScOrD", p); !ok || page != 2 {
		t.Errorf("SuggestedPage = %d, %v", page, ok)
	}
}

func TestSetActiveApp_NotifiesOnChange(t *testing.T) {
	h := NewAppAwareSwitchingHandler()
	var got [][2]string
	unsubscribe := h.OnAppChange(func(app, prev string) { got = append(got, [2]string{app, prev}) })

	h.SetActiveApp("code")
	h.SetActiveApp("code")
	h.SetActiveApp("slack")
	unsubscribe()
	h.SetActiveApp("zoom")

	want := [][2]string{{"code", ""}, {"slack", "code"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("notifications = %v", got)
	}
	if h.ActiveApp() != "zoom" {
		t.Errorf("ActiveApp = %q", h.ActiveApp())
	}
}

func TestDefaultAppMappings(t *testing.T) {
	m := DefaultAppMappings()
	checks := map[string]int{"vscode": 1, "chrome": 1, "slack": 2, "obs studio": 3, "battle.net": 4}
	for app, page := range checks {
		if m[app] != page {
			t.Errorf("%s -> %d, want %d", app, m[app], page)
		}
	}
	m["vscode"] = 9
	if DefaultAppMappings()["vscode"] != 1 {
		t.Error("DefaultAppMappings shares its map")
	}
}
