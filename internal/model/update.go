package model

// ProfileUpdate is a partial profile change. Nil fields are left alone.
type ProfileUpdate struct {
	Name             *string
	CurrentPage      *int
	TotalPages       *int
	PinnedPages      []int
	AppAwareSettings *AppAwareSettings
}

// Apply returns p with the update applied. A page change swaps the shown
// buttons to the target page.
func (u ProfileUpdate) Apply(p Profile) Profile {
	out := p.Clone()
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.TotalPages != nil {
		out.TotalPages = *u.TotalPages
	}
	if u.PinnedPages != nil {
		out.PinnedPages = append([]int(nil), u.PinnedPages...)
	}
	if u.AppAwareSettings != nil {
		s := *u.AppAwareSettings
		out.AppAwareSettings = &s
	}
	if u.CurrentPage != nil && *u.CurrentPage != out.Page() {
		out = out.WithPage(*u.CurrentPage)
	}
	return out
}

// ButtonUpdate is a partial button change. Nil fields are left alone.
type ButtonUpdate struct {
	Label      *string
	Action     ButtonAction
	TimerState *TimerState
}

// Apply returns a new ButtonConfig with the update applied.
func (u ButtonUpdate) Apply(b ButtonConfig) ButtonConfig {
	if u.Label != nil {
		b.Label = *u.Label
	}
	if u.Action != nil {
		b.Action = u.Action
	}
	if u.TimerState != nil {
		ts := *u.TimerState
		b.TimerState = &ts
	}
	return b
}
