package platform

import (
	"fmt"
	"strings"
)

// MediaKey is a media or volume key on a keyboard.
type MediaKey int

const (
	MediaPlayPause MediaKey = iota
	MediaNext
	MediaPrevious
	MediaStop
	VolumeUp
	VolumeDown
	VolumeMute
)

func (k MediaKey) String() string {
	switch k {
	case MediaPlayPause:
		return "Play/Pause"
	case MediaNext:
		return "Next Track"
	case MediaPrevious:
		return "Previous Track"
	case MediaStop:
		return "Stop"
	case VolumeUp:
		return "Volume Up"
	case VolumeDown:
		return "Volume Down"
	case VolumeMute:
		return "Mute"
	default:
		return fmt.Sprintf("MediaKey(%d)", int(k))
	}
}

// ParseMultimedia maps a system_multimedia value to its key.
func ParseMultimedia(s string) (MediaKey, bool) {
	switch s {
	case "play_pause":
		return MediaPlayPause, true
	case "next":
		return MediaNext, true
	case "prev":
		return MediaPrevious, true
	case "stop":
		return MediaStop, true
	}
	return 0, false
}

// ParseVolume maps a volume_control value to its key.
func ParseVolume(s string) (MediaKey, bool) {
	switch s {
	case "increase":
		return VolumeUp, true
	case "decrease":
		return VolumeDown, true
	case "mute_toggle":
		return VolumeMute, true
	}
	return 0, false
}

// ParseHotkey splits "cmd+shift+4" into lower-cased keys. The last part is
// the key; everything before it is a modifier.
func ParseHotkey(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty hotkey")
	}
	parts := strings.Split(s, "+")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			return nil, fmt.Errorf("invalid hotkey %q", s)
		}
		keys = append(keys, p)
	}
	return keys, nil
}
