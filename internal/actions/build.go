package actions

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/mj1618/weel/internal/model"
)

// StepOption adjusts a step built by NewStep.
type StepOption func(*model.Step)

func WithDelay(ms int) StepOption   { return func(s *model.Step) { s.Delay = ms } }
func WithName(name string) StepOption { return func(s *model.Step) { s.Name = name } }

// Disabled builds the step switched off.
func Disabled() StepOption {
	return func(s *model.Step) {
		off := false
		s.Enabled = &off
	}
}

// NewStep builds an enabled step with a fresh id.
func NewStep(kind model.Kind, value string, opts ...StepOption) model.Step {
	on := true
	s := model.Step{ID: uuid.New().String(), Type: kind, Value: value, Enabled: &on}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// DelayStep is a pause of ms milliseconds inside a sequence.
func DelayStep(ms int) model.Step {
	return NewStep(model.KindDelay, strconv.Itoa(ms), WithName(fmt.Sprintf("Wait %dms", ms)))
}

func NewMultiAction(steps ...model.Step) model.Sequence {
	return model.Sequence{Base: model.Base{Type: model.KindMultiAction}, Steps: steps}
}

func NewMultiActionSwitch(sets ...[]model.Step) model.SwitchSets {
	return model.SwitchSets{Base: model.Base{Type: model.KindMultiActionSwitch}, ActionSets: sets}
}

// NewToggleSwitch is a two-set switch alternating between two steps.
func NewToggleSwitch(primary, secondary model.Step) model.SwitchSets {
	return NewMultiActionSwitch([]model.Step{primary}, []model.Step{secondary})
}

func NewRandomAction(candidates ...model.Step) model.RandomSet {
	return model.RandomSet{Base: model.Base{Type: model.KindRandomAction}, RandomActions: candidates}
}

// Weighted pairs a candidate with how many tickets it gets in the draw.
type Weighted struct {
	Step   model.Step
	Weight int
}

// NewWeightedRandomAction repeats each candidate Weight times so a uniform
// draw favours heavier candidates. Copies get ids of the form
// "<id>-weight-<i>".
func NewWeightedRandomAction(candidates ...Weighted) model.RandomSet {
	var expanded []model.Step
	for _, c := range candidates {
		for i := range c.Weight {
			s := c.Step
			s.ID = fmt.Sprintf("%s-weight-%d", c.Step.ID, i)
			expanded = append(expanded, s)
		}
	}
	return NewRandomAction(expanded...)
}

func NewHotkeySwitch(primary, secondary, name string) model.HotkeySwitch {
	return model.HotkeySwitch{
		Base:            model.Base{Type: model.KindHotkeySwitch, Value: primary, Name: nameOr(name, "Hotkey Switch")},
		PrimaryHotkey:   primary,
		SecondaryHotkey: secondary,
		CurrentState:    model.SwitchPrimary,
	}
}

func NewWebsiteAction(url, name string) model.Simple {
	return model.Simple{Base: model.Base{Type: model.KindWebsite, Value: url, Name: nameOr(name, "Open Website")}}
}

func NewApplicationAction(path, name string) model.Simple {
	return model.Simple{Base: model.Base{Type: model.KindOpenApplication, Value: path, Name: nameOr(name, "Open Application")}}
}

func NewTimerAction(seconds int, showCountdown bool) model.Timer {
	return model.Timer{
		Base:          model.Base{Type: model.KindCountdownTimer, Value: strconv.Itoa(seconds)},
		Duration:      seconds,
		ShowCountdown: showCountdown,
	}
}

func NewDelayAction(ms int) model.Simple {
	return model.Simple{Base: model.Base{Type: model.KindDelay, Value: strconv.Itoa(ms)}}
}
