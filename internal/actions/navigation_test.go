package actions

import (
	"context"
	"testing"

	"github.com/mj1618/weel/internal/model"
)

func pagedProfile(page, total int) *model.Profile {
	p := model.NewProfile("Main", 3, 5)
	p.CurrentPage = page
	p.TotalPages = total
	return &p
}

func TestNavigation_Pages(t *testing.T) {
	h := NewNavigationHandler()

	tests := []struct {
		name    string
		profile *model.Profile
		action  model.ButtonAction
		success bool
		msg     string
		moved   int
	}{
		{"next", pagedProfile(1, 3), simple(model.KindNextPage, ""), true, "Moved to page 2/3", 2},
		{"next on last", pagedProfile(3, 3), simple(model.KindNavNextPage, ""), false, "Already on last page", 0},
		{"previous", pagedProfile(3, 3), simple(model.KindNavPreviousPage, ""), true, "Moved to page 2/3", 2},
		{"previous on first", pagedProfile(1, 3), simple(model.KindPreviousPage, ""), false, "Already on first page", 0},
		{"go to value", pagedProfile(1, 3), simple(model.KindGoToPage, "3"), true, "Moved to page 3/3", 3},
		{"go to target", pagedProfile(1, 3), model.Navigation{Base: model.Base{Type: model.KindNavGoToPage}, TargetPage: 2}, true, "Moved to page 2/3", 2},
		{"go to out of range", pagedProfile(1, 3), simple(model.KindGoToPage, "4"), false, "Invalid page number. Must be between 1 and 3", 0},
		{"go to zero", pagedProfile(1, 3), simple(model.KindGoToPage, "0"), false, "Invalid page number. Must be between 1 and 3", 0},
		{"go to garbage", pagedProfile(1, 3), simple(model.KindGoToPage, "two"), false, "Invalid page number. Must be between 1 and 3", 0},
		{"indicator", pagedProfile(2, 3), simple(model.KindPageIndicator, ""), true, "Page 2/3", 0},
		{"no profile", nil, simple(model.KindNextPage, ""), false, "No active profile", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recorder
			res := h.Execute(context.Background(), tt.action, rec.context(tt.profile))
			if res.Success != tt.success || res.Message != tt.msg {
				t.Errorf("got %+v, want %v %q", res, tt.success, tt.msg)
			}
			if tt.moved == 0 {
				if len(rec.profileUpdates) != 0 {
					t.Errorf("unexpected updates %+v", rec.profileUpdates)
				}
				return
			}
			if len(rec.profileUpdates) != 1 || *rec.profileUpdates[0].CurrentPage != tt.moved {
				t.Errorf("updates = %+v", rec.profileUpdates)
			}
		})
	}
}

func TestNavigation_SwitchProfile(t *testing.T) {
	h := NewNavigationHandler()
	work := model.NewProfile("Work", 3, 5)
	games := model.NewProfile("Games", 3, 5)

	var rec recorder
	hc := rec.context(&work, work, games)

	res := h.Execute(context.Background(), simple(model.KindSwitchProfile, "Games"), hc)
	if !res.Success || res.Message != "Switched to profile: Games" {
		t.Fatalf("by name: %+v", res)
	}
	res = h.Execute(context.Background(), model.Navigation{Base: model.Base{Type: model.KindNavSwitchProfile}, TargetProfile: work.ID}, hc)
	if !res.Success || res.Message != "Switched to profile: Work" {
		t.Fatalf("by id: %+v", res)
	}
	if len(rec.switchedTo) != 2 || rec.switchedTo[0] != games.ID || rec.switchedTo[1] != work.ID {
		t.Errorf("switchedTo = %v", rec.switchedTo)
	}

	res = h.Execute(context.Background(), simple(model.KindSwitchProfile, "Music"), hc)
	if res.Success || res.Message != `Profile "Music" not found` {
		t.Errorf("missing: %+v", res)
	}
	res = h.Execute(context.Background(), simple(model.KindSwitchProfile, ""), hc)
	if res.Success || res.Message != "No target profile specified" {
		t.Errorf("empty: %+v", res)
	}
}

func TestNavigation_CreateFolder(t *testing.T) {
	h := NewNavigationHandler()
	p := pagedProfile(1, 1)

	res := h.Execute(context.Background(), simple(model.KindCreateFolder, ""), HandlerContext{CurrentProfile: p})
	if !res.Success || res.Message != `Folder "New Folder" created successfully` {
		t.Errorf("default name: %+v", res)
	}
	res = h.Execute(context.Background(), model.Navigation{Base: model.Base{Type: model.KindNavCreateFolder}, FolderName: "Macros"}, HandlerContext{CurrentProfile: p})
	if res.Message != `Folder "Macros" created successfully` {
		t.Errorf("named: %+v", res)
	}
	res = h.Execute(context.Background(), simple(model.KindCreateFolder, "x"), HandlerContext{})
	if res.Success || res.Message != "No active profile to create folder in" {
		t.Errorf("no profile: %+v", res)
	}
}
