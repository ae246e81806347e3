package actions

import (
	"context"
	"strconv"

	"github.com/mj1618/weel/internal/model"
)

// NavigationHandler moves between pages and profiles. It holds no state:
// every change goes through the HandlerContext callbacks.
type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Execute runs a navigation-category action.
func (h *NavigationHandler) Execute(_ context.Context, action model.ButtonAction, hc HandlerContext) Result {
	nav, ok := action.(model.Navigation)
	if !ok {
		nav = model.Navigation{Base: model.Base{Type: action.Kind(), Value: action.Payload(), Name: action.DisplayName()}}
	}
	p := hc.CurrentProfile

	switch action.Kind().Canonical() {
	case model.KindCreateFolder:
		return h.createFolder(nav, p)
	case model.KindSwitchProfile:
		return h.switchProfile(nav, hc)
	case model.KindPreviousPage:
		if p == nil {
			return fail("No active profile")
		}
		if p.Page() <= 1 {
			return fail("Already on first page")
		}
		return h.moveTo(p, p.Page()-1, hc)
	case model.KindNextPage:
		if p == nil {
			return fail("No active profile")
		}
		if p.Page() >= p.PageCount() {
			return fail("Already on last page")
		}
		return h.moveTo(p, p.Page()+1, hc)
	case model.KindGoToPage:
		if p == nil {
			return fail("No active profile")
		}
		target := nav.TargetPage
		if target == 0 {
			n, err := strconv.Atoi(nav.Value)
			if err != nil {
				return fail("Invalid page number. Must be between 1 and %d", p.PageCount())
			}
			target = n
		}
		if target < 1 || target > p.PageCount() {
			return fail("Invalid page number. Must be between 1 and %d", p.PageCount())
		}
		return h.moveTo(p, target, hc)
	case model.KindPageIndicator:
		if p == nil {
			return fail("No active profile")
		}
		return succeed("Page %d/%d", p.Page(), p.PageCount())
	default:
		return fail("Unknown navigation action: %s", action.Kind())
	}
}

func (h *NavigationHandler) moveTo(p *model.Profile, page int, hc HandlerContext) Result {
	hc.updateProfile(p.ID, model.ProfileUpdate{CurrentPage: &page})
	return succeed("Moved to page %d/%d", page, p.PageCount())
}

func (h *NavigationHandler) switchProfile(nav model.Navigation, hc HandlerContext) Result {
	target := nav.TargetProfile
	if target == "" {
		target = nav.Value
	}
	if target == "" {
		return fail("No target profile specified")
	}
	for _, p := range hc.Profiles {
		if p.ID == target || p.Name == target {
			hc.profileChanged(p.ID)
			return succeed("Switched to profile: %s", p.Name)
		}
	}
	return fail("Profile %q not found", target)
}

// createFolder only reports success. Folders have no structural
// representation in a profile yet.
func (h *NavigationHandler) createFolder(nav model.Navigation, p *model.Profile) Result {
	if p == nil {
		return fail("No active profile to create folder in")
	}
	name := nav.FolderName
	if name == "" {
		name = nav.Value
	}
	if name == "" {
		name = "New Folder"
	}
	return succeed("Folder %q created successfully", name)
}
