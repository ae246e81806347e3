package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mj1618/weel/internal/model"
)

// ActionError is a failure whose message is meant to be shown to the user
// as it is.
type ActionError struct {
	Msg string
	Err error
}

func (e *ActionError) Error() string { return e.Msg }
func (e *ActionError) Unwrap() error { return e.Err }

func actionErr(err error, format string, args ...any) error {
	return &ActionError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// Performer carries out OS-level button actions with the backends of a
// Provider. Missing backends make the actions that need them fail with
// ErrUnsupported.
type Performer struct {
	input    Inputter
	launcher Launcher
	logger   *slog.Logger
}

func NewPerformer(p *Provider, logger *slog.Logger) *Performer {
	if logger == nil {
		logger = slog.Default()
	}
	perf := &Performer{logger: logger}
	if p != nil {
		perf.input = p.Inputter
		perf.launcher = p.Launcher
	}
	return perf
}

// PerformAction runs one system action and returns the message to show.
func (p *Performer) PerformAction(ctx context.Context, kind model.Kind, value, name string) (string, error) {
	p.logger.Debug("perform action", "type", kind, "value", value, "name", name)

	switch kind.Canonical() {
	case model.KindNone:
		return `Action type is "none", no operation performed.`, nil

	case model.KindOpenURL:
		if err := p.needLauncher(); err != nil {
			return "", err
		}
		if err := p.launcher.OpenURL(ctx, value); err != nil {
			return "", actionErr(err, "Failed to open URL: %s. Error: %v", value, err)
		}
		return fmt.Sprintf("Successfully opened URL: %s", value), nil

	case model.KindSystemOpenApp:
		if err := p.needLauncher(); err != nil {
			return "", err
		}
		opened, err := p.launcher.OpenApp(ctx, value)
		if err != nil {
			return "", actionErr(err, "Failed to open app: %s. Error: %v", value, err)
		}
		return fmt.Sprintf("Successfully initiated opening of app: %s", opened), nil

	case model.KindSystemOpen:
		if err := p.needLauncher(); err != nil {
			return "", err
		}
		if err := p.launcher.OpenPath(ctx, value); err != nil {
			return "", actionErr(err, "Failed to open path: %s. Error: %v", value, err)
		}
		return fmt.Sprintf("Successfully attempted to open path: %s", value), nil

	case model.KindSystemClose:
		if err := p.needLauncher(); err != nil {
			return "", err
		}
		if err := p.launcher.CloseApp(ctx, value); err != nil {
			return "", actionErr(err, "Failed to close app: %s. Error: %v", value, err)
		}
		return fmt.Sprintf("Successfully closed app: %s", value), nil

	case model.KindRunScript:
		if err := p.needLauncher(); err != nil {
			return "", err
		}
		out, err := p.launcher.RunScript(ctx, value)
		if err != nil {
			return "", actionErr(err, "Failed to run script: %s. Error: %v", value, err)
		}
		if strings.TrimSpace(out) == "" {
			out = "(no stdout)"
		}
		label := name
		if label == "" || strings.HasPrefix(label, "Legacy: ") {
			label = value
		}
		return fmt.Sprintf("Script %q executed. Output: %s", label, out), nil

	case model.KindSystemSleep:
		if err := p.needLauncher(); err != nil {
			return "", err
		}
		if err := p.launcher.Sleep(ctx); err != nil {
			return "", actionErr(err, "Failed to put system to sleep: %v", err)
		}
		return "System is going to sleep.", nil

	case model.KindSystemMultimedia:
		key, ok := ParseMultimedia(value)
		if !ok {
			return "", actionErr(nil, "Unknown multimedia action value: %s", value)
		}
		if err := p.media(key); err != nil {
			return "", err
		}
		return fmt.Sprintf("Action '%s' executed.", key), nil

	case model.KindVolumeControl:
		key, ok := ParseVolume(value)
		if !ok {
			return "", actionErr(nil, "Unknown volume_control action value: %s", value)
		}
		if err := p.media(key); err != nil {
			return "", err
		}
		switch key {
		case VolumeUp:
			return "Volume increased.", nil
		case VolumeDown:
			return "Volume decreased.", nil
		default:
			return "Mute toggled.", nil
		}

	case model.KindSystemText:
		if err := p.needInput(); err != nil {
			return "", err
		}
		if err := p.input.TypeText(value, 0); err != nil {
			return "", actionErr(err, "Failed to type text: %v", err)
		}
		return "Typed text.", nil

	case model.KindHotkey:
		hotkey := strings.TrimSpace(value)
		if hotkey == "" {
			return "", actionErr(nil, "No hotkey specified")
		}
		if err := p.needInput(); err != nil {
			return "", err
		}
		keys, err := ParseHotkey(hotkey)
		if err != nil {
			return "", actionErr(err, "Failed to press hotkey: %v", err)
		}
		if err := p.input.KeyCombo(keys); err != nil {
			return "", actionErr(err, "Failed to press hotkey: %v", err)
		}
		return fmt.Sprintf("Pressed %s", hotkey), nil
	}

	p.logger.Warn("unhandled action type", "type", kind)
	return "", actionErr(nil, "Unknown or unhandled action type: %s", kind)
}

func (p *Performer) media(key MediaKey) error {
	if err := p.needInput(); err != nil {
		return err
	}
	if err := p.input.MediaKey(key); err != nil {
		return actionErr(err, "Failed to press %s: %v", key, err)
	}
	return nil
}

func (p *Performer) needInput() error {
	if p.input == nil {
		return actionErr(ErrUnsupported, "Keyboard input is unavailable: %v", ErrUnsupported)
	}
	return nil
}

func (p *Performer) needLauncher() error {
	if p.launcher == nil {
		return actionErr(ErrUnsupported, "Launching is unavailable: %v", ErrUnsupported)
	}
	return nil
}

// IsUnsupported reports whether err comes from a missing backend.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
