//go:build linux

package linux

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/weel/internal/platform"
)

const commandTimeout = 5 * time.Second

// xdotool key names for the keys whose spelling differs from ours.
var keyNames = map[string]string{
	"cmd": "super", "command": "super", "meta": "super", "win": "super",
	"ctrl": "ctrl", "control": "ctrl",
	"alt": "alt", "opt": "alt", "option": "alt",
	"shift": "shift",
	"return": "Return", "enter": "Return", "tab": "Tab", "space": "space",
	"backspace": "BackSpace", "delete": "Delete", "escape": "Escape", "esc": "Escape",
	"up": "Up", "down": "Down", "left": "Left", "right": "Right",
	"home": "Home", "end": "End", "pageup": "Prior", "pagedown": "Next",
	"-": "minus", "=": "equal", "[": "bracketleft", "]": "bracketright",
	";": "semicolon", "'": "apostrophe", ",": "comma", ".": "period",
	"/": "slash", "\\": "backslash", "`": "grave",
}

var mediaKeys = map[platform.MediaKey]string{
	platform.MediaPlayPause: "XF86AudioPlay",
	platform.MediaNext:      "XF86AudioNext",
	platform.MediaPrevious:  "XF86AudioPrev",
	platform.MediaStop:      "XF86AudioStop",
	platform.VolumeUp:       "XF86AudioRaiseVolume",
	platform.VolumeDown:     "XF86AudioLowerVolume",
	platform.VolumeMute:     "XF86AudioMute",
}

// Xdotool implements platform.Inputter and platform.WindowManager.
type Xdotool struct {
	run      platform.Runner
	procRoot string
}

func NewXdotool(run platform.Runner) *Xdotool {
	return &Xdotool{run: run, procRoot: "/proc"}
}

func (x *Xdotool) exec(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return x.run(ctx, "xdotool", args...)
}

func (x *Xdotool) TypeText(text string, delayMs int) error {
	_, err := x.exec("type", "--delay", strconv.Itoa(max(delayMs, 0)), "--", text)
	return err
}

// KeyCombo presses keys as one chord, e.g. [ctrl shift t] -> ctrl+shift+t.
func (x *Xdotool) KeyCombo(keys []string) error {
	chord, err := chordFor(keys)
	if err != nil {
		return err
	}
	_, err = x.exec("key", "--clearmodifiers", chord)
	return err
}

func (x *Xdotool) MediaKey(key platform.MediaKey) error {
	name, ok := mediaKeys[key]
	if !ok {
		return fmt.Errorf("%s key: %w", key, platform.ErrUnsupported)
	}
	_, err := x.exec("key", name)
	return err
}

// GetFrontmostApp resolves the active window's pid and reads the process
// name from /proc.
func (x *Xdotool) GetFrontmostApp() (string, int, error) {
	out, err := x.exec("getactivewindow", "getwindowpid")
	if err != nil {
		return "", 0, fmt.Errorf("active window: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return "", 0, fmt.Errorf("active window pid %q: %w", strings.TrimSpace(out), err)
	}
	comm, err := os.ReadFile(fmt.Sprintf("%s/%d/comm", x.procRoot, pid))
	if err != nil {
		return "", pid, fmt.Errorf("process name: %w", err)
	}
	return strings.TrimSpace(string(comm)), pid, nil
}

func chordFor(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("no key specified in combo")
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return "", fmt.Errorf("empty key in combo")
		}
		if name, ok := keyNames[k]; ok {
			k = name
		} else if len(k) > 1 && k[0] == 'f' {
			if _, err := strconv.Atoi(k[1:]); err == nil {
				k = "F" + k[1:]
			}
		}
		parts = append(parts, k)
	}
	return strings.Join(parts, "+"), nil
}
