package platform

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/mj1618/weel/internal/model"
)

type fakeInput struct {
	typed  []string
	combos [][]string
	media  []MediaKey
	err    error
}

func (f *fakeInput) TypeText(text string, _ int) error {
	f.typed = append(f.typed, text)
	return f.err
}

func (f *fakeInput) KeyCombo(keys []string) error {
	f.combos = append(f.combos, keys)
	return f.err
}

func (f *fakeInput) MediaKey(k MediaKey) error {
	f.media = append(f.media, k)
	return f.err
}

func newTestPerformer(in *fakeInput, r *fakeRunner, goos string) *Performer {
	p := &Provider{}
	if in != nil {
		p.Inputter = in
	}
	if r != nil {
		p.Launcher = NewExecLauncherFor(goos, r.run)
	}
	return NewPerformer(p, nil)
}

func TestPerformer_Messages(t *testing.T) {
	in := &fakeInput{}
	r := &fakeRunner{}
	p := newTestPerformer(in, r, "darwin")

	tests := []struct {
		kind  model.Kind
		value string
		want  string
	}{
		{model.KindOpenURL, "https://x.io", "Successfully opened URL: https://x.io"},
		{model.KindSystemWebsite, "https://x.io", "Successfully opened URL: https://x.io"},
		{model.KindSystemOpenApp, "/Applications/Notes.app", "Successfully initiated opening of app: /Applications/Notes.app"},
		{model.KindSystemOpen, "/tmp", "Successfully attempted to open path: /tmp"},
		{model.KindSystemClose, "Music", "Successfully closed app: Music"},
		{model.KindSystemSleep, "", "System is going to sleep."},
		{model.KindSystemMultimedia, "play_pause", "Action 'Play/Pause' executed."},
		{model.KindSystemMultimedia, "next", "Action 'Next Track' executed."},
		{model.KindVolumeControl, "increase", "Volume increased."},
		{model.KindVolumeControlOutput, "decrease", "Volume decreased."},
		{model.KindVolumeControl, "mute_toggle", "Mute toggled."},
		{model.KindSystemText, "hello", "Typed text."},
		{model.KindHotkey, "cmd+shift+4", "Pressed cmd+shift+4"},
		{model.KindNone, "", `Action type is "none", no operation performed.`},
	}
	for _, tt := range tests {
		got, err := p.PerformAction(context.Background(), tt.kind, tt.value, "")
		if err != nil {
			t.Errorf("%s %q: %v", tt.kind, tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s %q = %q, want %q", tt.kind, tt.value, got, tt.want)
		}
	}

	if !slices.Equal(in.combos[0], []string{"cmd", "shift", "4"}) {
		t.Errorf("combo = %v", in.combos[0])
	}
	if !slices.Equal(in.media, []MediaKey{MediaPlayPause, MediaNext, VolumeUp, VolumeDown, VolumeMute}) {
		t.Errorf("media = %v", in.media)
	}
	if !slices.Equal(in.typed, []string{"hello"}) {
		t.Errorf("typed = %v", in.typed)
	}
}

func TestPerformer_UnknownValues(t *testing.T) {
	p := newTestPerformer(&fakeInput{}, &fakeRunner{}, "linux")

	tests := []struct {
		kind  model.Kind
		value string
		want  string
	}{
		{model.KindSystemMultimedia, "rewind", "Unknown multimedia action value: rewind"},
		{model.KindVolumeControl, "max", "Unknown volume_control action value: max"},
		{model.KindPlugin, "x", "Unknown or unhandled action type: plugin"},
		{model.KindHotkey, "  ", "No hotkey specified"},
	}
	for _, tt := range tests {
		_, err := p.PerformAction(context.Background(), tt.kind, tt.value, "")
		if err == nil || err.Error() != tt.want {
			t.Errorf("%s %q: err = %v, want %q", tt.kind, tt.value, err, tt.want)
		}
	}
}

func TestPerformer_RunScript(t *testing.T) {
	r := &fakeRunner{}
	p := newTestPerformer(nil, r, "linux")

	got, err := p.PerformAction(context.Background(), model.KindRunScript, "true", "Legacy: run_script")
	if err != nil {
		t.Fatal(err)
	}
	if got != `Script "true" executed. Output: (no stdout)` {
		t.Errorf("got %q", got)
	}

	r.out = "done"
	got, _ = p.PerformAction(context.Background(), model.KindRunScript, "make", "Build")
	if got != `Script "Build" executed. Output: done` {
		t.Errorf("got %q", got)
	}
}

func TestPerformer_LauncherFailure(t *testing.T) {
	r := &fakeRunner{failOn: map[string]bool{"/missing": true}}
	p := newTestPerformer(nil, r, "linux")

	_, err := p.PerformAction(context.Background(), model.KindSystemOpen, "/missing", "")
	if err == nil || err.Error() != "Failed to open path: /missing. Error: xdg-open failed" {
		t.Errorf("err = %v", err)
	}
}

func TestPerformer_MissingBackends(t *testing.T) {
	p := NewPerformer(nil, nil)

	for _, kind := range []model.Kind{model.KindHotkey, model.KindSystemText, model.KindOpenURL, model.KindSystemMultimedia} {
		value := "x"
		if kind == model.KindSystemMultimedia {
			value = "stop"
		}
		_, err := p.PerformAction(context.Background(), kind, value, "")
		if !IsUnsupported(err) {
			t.Errorf("%s: err = %v, want unsupported", kind, err)
		}
	}
}

func TestPerformer_InputError(t *testing.T) {
	p := newTestPerformer(&fakeInput{err: errors.New("no permission")}, nil, "darwin")

	_, err := p.PerformAction(context.Background(), model.KindHotkey, "cmd+c", "")
	if err == nil || err.Error() != "Failed to press hotkey: no permission" {
		t.Errorf("err = %v", err)
	}
}
