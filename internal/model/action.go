package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownKind is returned when decoding an action with an empty type.
var ErrUnknownKind = errors.New("action has no type")

// Step is one atomic action inside a composite action.
// Steps are replaced wholesale, never mutated after execution.
type Step struct {
	ID           string   `json:"id"                     yaml:"id"`
	Type         Kind     `json:"type"                   yaml:"type"`
	Value        string   `json:"value"                  yaml:"value"`
	Delay        int      `json:"delay,omitempty"        yaml:"delay,omitempty"` // ms, applied before the step runs
	Enabled      *bool    `json:"enabled,omitempty"      yaml:"enabled,omitempty"`
	Name         string   `json:"name,omitempty"         yaml:"name,omitempty"`
	Volume       *float64 `json:"volume,omitempty"       yaml:"volume,omitempty"`
	Loop         bool     `json:"loop,omitempty"         yaml:"loop,omitempty"`
	OutputDevice string   `json:"outputDevice,omitempty" yaml:"outputDevice,omitempty"`
	Duration     int      `json:"duration,omitempty"     yaml:"duration,omitempty"` // seconds
}

// IsEnabled treats a missing flag as enabled.
func (s Step) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Label is the step name, or its type when unnamed.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Type)
}

// Action converts the step into a standalone ButtonAction of the matching
// variant so it can be dispatched like a top-level action.
func (s Step) Action() ButtonAction {
	base := Base{Type: s.Type, Value: s.Value, Name: s.Name}
	switch s.Type.Shape() {
	case ShapeAudio:
		return Audio{Base: base, Volume: s.Volume, Loop: s.Loop, OutputDevice: s.OutputDevice}
	case ShapeTimer:
		return Timer{Base: base, Duration: s.Duration}
	case ShapeNavigation:
		return Navigation{Base: base}
	case ShapeSequence:
		return Sequence{Base: base}
	case ShapeSwitchSets:
		return SwitchSets{Base: base}
	case ShapeRandomSet:
		return RandomSet{Base: base}
	case ShapeHotkeySwitch:
		return HotkeySwitch{Base: base}
	default:
		return Simple{Base: base}
	}
}

// ButtonAction is the action bound to a button. Each payload shape is its
// own type, so a Sequence can never carry random candidates and so on.
type ButtonAction interface {
	Kind() Kind
	Payload() string
	DisplayName() string
	isButtonAction()
}

// Base holds the fields shared by every variant.
type Base struct {
	Type  Kind   `json:"type"           yaml:"type"`
	Value string `json:"value"          yaml:"value"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (b Base) Kind() Kind          { return b.Type }
func (b Base) Payload() string     { return b.Value }
func (b Base) DisplayName() string { return b.Name }
func (Base) isButtonAction()       {}

// Simple covers every kind whose only payload is Value.
type Simple struct {
	Base `yaml:",inline"`
}

// SwitchState is the cursor of a hotkey switch.
type SwitchState string

const (
	SwitchPrimary   SwitchState = "primary"
	SwitchSecondary SwitchState = "secondary"
)

// Other returns the opposite state. The zero value counts as primary.
func (s SwitchState) Other() SwitchState {
	if s == SwitchSecondary {
		return SwitchPrimary
	}
	return SwitchSecondary
}

type HotkeySwitch struct {
	Base `yaml:",inline"`
	PrimaryHotkey   string      `json:"primaryHotkey,omitempty"   yaml:"primaryHotkey,omitempty"`
	SecondaryHotkey string      `json:"secondaryHotkey,omitempty" yaml:"secondaryHotkey,omitempty"`
	CurrentState    SwitchState `json:"currentState,omitempty"    yaml:"currentState,omitempty"`
}

// Sequence is a multi_action: ordered steps run one after another.
type Sequence struct {
	Base `yaml:",inline"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// SwitchSets is a multi_action_switch. CurrentSetIndex is the persisted
// cursor selecting which set runs next.
type SwitchSets struct {
	Base `yaml:",inline"`
	ActionSets      [][]Step `json:"actionSets"      yaml:"actionSets"`
	CurrentSetIndex int      `json:"currentSetIndex" yaml:"currentSetIndex"`
}

type RandomSet struct {
	Base `yaml:",inline"`
	RandomActions []Step `json:"randomActions" yaml:"randomActions"`
}

type Timer struct {
	Base `yaml:",inline"`
	Duration      int  `json:"duration,omitempty"      yaml:"duration,omitempty"` // seconds
	ShowCountdown bool `json:"showCountdown,omitempty" yaml:"showCountdown,omitempty"`
}

// Seconds resolves the countdown length: the explicit field, then Value,
// then 60.
func (t Timer) Seconds() int {
	if t.Duration > 0 {
		return t.Duration
	}
	if n, err := strconv.Atoi(t.Value); err == nil && n > 0 {
		return n
	}
	return 60
}

type Audio struct {
	Base `yaml:",inline"`
	AudioFile    string   `json:"audioFile,omitempty"    yaml:"audioFile,omitempty"`
	Volume       *float64 `json:"volume,omitempty"       yaml:"volume,omitempty"`
	Loop         bool     `json:"loop,omitempty"         yaml:"loop,omitempty"`
	OutputDevice string   `json:"outputDevice,omitempty" yaml:"outputDevice,omitempty"`
}

// Source is the file to play: AudioFile, falling back to Value.
func (a Audio) Source() string {
	if a.AudioFile != "" {
		return a.AudioFile
	}
	return a.Value
}

// Gain is the playback volume clamped to [0,1]. A missing or zero volume
// plays at full gain.
func (a Audio) Gain() float64 {
	if a.Volume == nil || *a.Volume == 0 {
		return 1
	}
	v := *a.Volume
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type Navigation struct {
	Base `yaml:",inline"`
	TargetProfile string `json:"targetProfile,omitempty" yaml:"targetProfile,omitempty"`
	TargetPage    int    `json:"targetPage,omitempty"    yaml:"targetPage,omitempty"`
	FolderName    string `json:"folderName,omitempty"    yaml:"folderName,omitempty"`
}

// NewAction returns the empty variant that matches kind.
func NewAction(kind Kind, value string) ButtonAction {
	return Step{Type: kind, Value: value}.Action()
}

// UnmarshalAction decodes a flat {"type": ..., ...} object into the variant
// selected by its type. Fields that belong to other variants are dropped.
func UnmarshalAction(data []byte) (ButtonAction, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	if head.Type == "" {
		return nil, ErrUnknownKind
	}

	var (
		a   ButtonAction
		err error
	)
	switch head.Type.Shape() {
	case ShapeHotkeySwitch:
		var v HotkeySwitch
		err = json.Unmarshal(data, &v)
		a = v
	case ShapeSequence:
		var v Sequence
		err = json.Unmarshal(data, &v)
		a = v
	case ShapeSwitchSets:
		var v SwitchSets
		err = json.Unmarshal(data, &v)
		a = v
	case ShapeRandomSet:
		var v RandomSet
		err = json.Unmarshal(data, &v)
		a = v
	case ShapeTimer:
		var v Timer
		err = json.Unmarshal(data, &v)
		a = v
	case ShapeAudio:
		var v Audio
		err = json.Unmarshal(data, &v)
		a = v
	case ShapeNavigation:
		var v Navigation
		err = json.Unmarshal(data, &v)
		a = v
	default:
		var v Simple
		err = json.Unmarshal(data, &v)
		a = v
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s action: %w", head.Type, err)
	}
	return a, nil
}

// MarshalAction encodes a variant back into its flat form.
func MarshalAction(a ButtonAction) ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a)
}
