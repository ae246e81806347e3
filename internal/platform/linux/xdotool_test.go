//go:build linux

package linux

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mj1618/weel/internal/platform"
)

type recorded struct {
	args [][]string
	out  string
	err  error
}

func (r *recorded) run(_ context.Context, name string, args ...string) (string, error) {
	r.args = append(r.args, append([]string{name}, args...))
	return r.out, r.err
}

func TestChordFor(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"ctrl", "c"}, "ctrl+c"},
		{[]string{"cmd", "shift", "enter"}, "super+shift+Return"},
		{[]string{"alt", "f4"}, "alt+F4"},
		{[]string{"pageup"}, "Prior"},
		{[]string{"ctrl", "/"}, "ctrl+slash"},
	}
	for _, tt := range tests {
		got, err := chordFor(tt.keys)
		if err != nil || got != tt.want {
			t.Errorf("chordFor(%v) = %q, %v; want %q", tt.keys, got, err, tt.want)
		}
	}
	if _, err := chordFor(nil); err == nil {
		t.Error("chordFor(nil) should fail")
	}
}

func TestXdotool_Commands(t *testing.T) {
	r := &recorded{}
	x := NewXdotool(r.run)

	if err := x.KeyCombo([]string{"ctrl", "t"}); err != nil {
		t.Fatal(err)
	}
	if err := x.TypeText("hi", 12); err != nil {
		t.Fatal(err)
	}
	if err := x.MediaKey(platform.VolumeMute); err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"xdotool", "key", "--clearmodifiers", "ctrl+t"},
		{"xdotool", "type", "--delay", "12", "--", "hi"},
		{"xdotool", "key", "XF86AudioMute"},
	}
	for i := range want {
		if !slices.Equal(r.args[i], want[i]) {
			t.Errorf("command %d = %v, want %v", i, r.args[i], want[i])
		}
	}
}

func TestXdotool_GetFrontmostApp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "4242"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "4242", "comm"), []byte("firefox\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	x := NewXdotool((&recorded{out: "4242\n"}).run)
	x.procRoot = root

	name, pid, err := x.GetFrontmostApp()
	if err != nil {
		t.Fatal(err)
	}
	if name != "firefox" || pid != 4242 {
		t.Errorf("got %q %d", name, pid)
	}
}

func TestXdotool_GetFrontmostAppError(t *testing.T) {
	x := NewXdotool((&recorded{err: errors.New("no window")}).run)
	if _, _, err := x.GetFrontmostApp(); err == nil {
		t.Error("expected error")
	}
}
