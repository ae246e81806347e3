package actions

import "github.com/mj1618/weel/internal/model"

// HandlerContext carries the profile data and mutation callbacks the
// surrounding application lends to a single execution. Nil callbacks are
// treated as no-ops.
type HandlerContext struct {
	CurrentProfile *model.Profile
	Profiles       []model.Profile

	// OnProfileChange switches the active profile.
	OnProfileChange func(profileID string)
	// OnCreateProfile creates a profile and returns its id.
	OnCreateProfile func(name string) string
	// UpdateProfile applies a partial change to a profile.
	UpdateProfile func(profileID string, u model.ProfileUpdate)
	// UpdateButton applies a partial change to a button.
	UpdateButton func(buttonID string, u model.ButtonUpdate)
	// UpdateAction replaces the action on the button that triggered this
	// execution.
	UpdateAction func(a model.ButtonAction)
}

func (c HandlerContext) profileChanged(id string) {
	if c.OnProfileChange != nil {
		c.OnProfileChange(id)
	}
}

func (c HandlerContext) updateProfile(id string, u model.ProfileUpdate) {
	if c.UpdateProfile != nil {
		c.UpdateProfile(id, u)
	}
}

func (c HandlerContext) updateButton(id string, u model.ButtonUpdate) {
	if c.UpdateButton != nil {
		c.UpdateButton(id, u)
	}
}

func (c HandlerContext) updateAction(a model.ButtonAction) {
	if c.UpdateAction != nil {
		c.UpdateAction(a)
	}
}

// forStep narrows the context for a step inside a composite action: a
// step must not overwrite the action of the button that owns the chain.
func (c HandlerContext) forStep() HandlerContext {
	c.UpdateAction = nil
	return c
}
