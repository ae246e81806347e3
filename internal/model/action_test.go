package model

import (
	"encoding/json"
	"testing"
)

func TestKind_Canonical(t *testing.T) {
	tests := []struct {
		input Kind
		want  Kind
	}{
		{KindSystemWebsite, KindOpenURL},
		{KindWebsite, KindOpenURL},
		{KindSystemHotkey, KindHotkey},
		{KindSystemHotkeySwitch, KindHotkeySwitch},
		{KindOpenApplication, KindSystemOpenApp},
		{KindVolumeControlInput, KindVolumeControl},
		{KindSoundboardPlay, KindPlayAudio},
		{KindSoundboardStop, KindStopAudio},
		{KindTimer, KindCountdownTimer},
		{KindSleep, KindDelay},
		{KindNavGoToPage, KindGoToPage},
		{Kind("bogus"), Kind("bogus")},
	}
	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := tt.input.Canonical(); got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKind_Unknown(t *testing.T) {
	k := Kind("teleport")
	if k.Known() {
		t.Error("teleport should not be known")
	}
	if k.Category() != CategoryUnknown {
		t.Errorf("category = %d, want CategoryUnknown", k.Category())
	}
	if k.Shape() != ShapeSimple {
		t.Errorf("shape = %d, want ShapeSimple", k.Shape())
	}
}

func TestUnmarshalAction_SelectsVariant(t *testing.T) {
	tests := []struct {
		name string
		data string
		want any
	}{
		{"simple", `{"type":"hotkey","value":"ctrl+c"}`, Simple{}},
		{"sequence", `{"type":"multi_action","value":"","steps":[{"id":"a","type":"hotkey","value":"x"}]}`, Sequence{}},
		{"switch", `{"type":"multi_action_switch","value":"","actionSets":[[]],"currentSetIndex":0}`, SwitchSets{}},
		{"random", `{"type":"random_action","value":"","randomActions":[]}`, RandomSet{}},
		{"timer", `{"type":"timer","value":"30"}`, Timer{}},
		{"audio", `{"type":"soundboard_play","value":"a.mp3","volume":0.5}`, Audio{}},
		{"navigation", `{"type":"navigation_go_to_page","value":"2"}`, Navigation{}},
		{"hotkey switch", `{"type":"system_hotkey_switch","value":"","primaryHotkey":"a","secondaryHotkey":"b"}`, HotkeySwitch{}},
		{"unknown kind", `{"type":"teleport","value":"mars"}`, Simple{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := UnmarshalAction([]byte(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			switch tt.want.(type) {
			case Simple:
				_, ok := a.(Simple)
				if !ok {
					t.Errorf("got %T, want Simple", a)
				}
			case Sequence:
				if _, ok := a.(Sequence); !ok {
					t.Errorf("got %T, want Sequence", a)
				}
			case SwitchSets:
				if _, ok := a.(SwitchSets); !ok {
					t.Errorf("got %T, want SwitchSets", a)
				}
			case RandomSet:
				if _, ok := a.(RandomSet); !ok {
					t.Errorf("got %T, want RandomSet", a)
				}
			case Timer:
				if _, ok := a.(Timer); !ok {
					t.Errorf("got %T, want Timer", a)
				}
			case Audio:
				if _, ok := a.(Audio); !ok {
					t.Errorf("got %T, want Audio", a)
				}
			case Navigation:
				if _, ok := a.(Navigation); !ok {
					t.Errorf("got %T, want Navigation", a)
				}
			case HotkeySwitch:
				if _, ok := a.(HotkeySwitch); !ok {
					t.Errorf("got %T, want HotkeySwitch", a)
				}
			}
		})
	}
}

func TestUnmarshalAction_DropsForeignFields(t *testing.T) {
	data := `{"type":"multi_action","value":"","steps":[{"id":"1","type":"hotkey","value":"a"}],"randomActions":[{"id":"2","type":"hotkey","value":"b"}]}`
	a, err := UnmarshalAction([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	out, err := MarshalAction(a)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["randomActions"]; ok {
		t.Error("randomActions should not survive on a multi_action")
	}
	if m["type"] != "multi_action" {
		t.Errorf("type = %v, want multi_action", m["type"])
	}
}

func TestUnmarshalAction_MissingType(t *testing.T) {
	_, err := UnmarshalAction([]byte(`{"value":"x"}`))
	if err != ErrUnknownKind {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestUnmarshalAction_InvalidJSON(t *testing.T) {
	if _, err := UnmarshalAction([]byte(`{`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestStep_IsEnabled(t *testing.T) {
	no := false
	yes := true
	if !(Step{}).IsEnabled() {
		t.Error("missing flag should be enabled")
	}
	if !(Step{Enabled: &yes}).IsEnabled() {
		t.Error("explicit true should be enabled")
	}
	if (Step{Enabled: &no}).IsEnabled() {
		t.Error("explicit false should be disabled")
	}
}

func TestStep_ActionCarriesAudioFields(t *testing.T) {
	vol := 0.3
	a := Step{Type: KindPlayAudio, Value: "beep.wav", Volume: &vol, Loop: true}.Action()
	audio, ok := a.(Audio)
	if !ok {
		t.Fatalf("got %T, want Audio", a)
	}
	if audio.Source() != "beep.wav" || !audio.Loop || audio.Gain() != 0.3 {
		t.Errorf("unexpected audio action: %+v", audio)
	}
}

func TestTimer_Seconds(t *testing.T) {
	tests := []struct {
		timer Timer
		want  int
	}{
		{Timer{Duration: 90, Base: Base{Value: "30"}}, 90},
		{Timer{Base: Base{Value: "30"}}, 30},
		{Timer{Base: Base{Value: "abc"}}, 60},
		{Timer{Base: Base{Value: "-5"}}, 60},
		{Timer{}, 60},
	}
	for _, tt := range tests {
		if got := tt.timer.Seconds(); got != tt.want {
			t.Errorf("Seconds(%+v) = %d, want %d", tt.timer, got, tt.want)
		}
	}
}

func TestAudio_Gain(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		volume *float64
		want   float64
	}{
		{nil, 1},
		{f(0), 1},
		{f(0.25), 0.25},
		{f(2), 1},
		{f(-1), 0},
	}
	for _, tt := range tests {
		if got := (Audio{Volume: tt.volume}).Gain(); got != tt.want {
			t.Errorf("Gain(%v) = %v, want %v", tt.volume, got, tt.want)
		}
	}
}

func TestSwitchState_Other(t *testing.T) {
	if SwitchState("").Other() != SwitchSecondary {
		t.Error("unset should flip to secondary")
	}
	if SwitchPrimary.Other() != SwitchSecondary {
		t.Error("primary should flip to secondary")
	}
	if SwitchSecondary.Other() != SwitchPrimary {
		t.Error("secondary should flip to primary")
	}
}
