package actions

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mj1618/weel/internal/model"
)

// SystemActions performs OS-level effects: open URLs, launch apps, press
// keys, type text, media and volume keys. Errors carry a message suitable
// for showing to the user as-is.
type SystemActions interface {
	PerformAction(ctx context.Context, kind model.Kind, value, name string) (string, error)
}

// SystemHandler executes atomic OS actions and owns the per-button cursor
// of hotkey switches.
type SystemHandler struct {
	actions SystemActions
	logger  *slog.Logger

	mu      sync.Mutex
	cursors map[string]model.SwitchState
}

// NewSystemHandler creates a handler. A nil actions makes every system
// action fail with a "requires desktop environment" message.
func NewSystemHandler(actions SystemActions, logger *slog.Logger) *SystemHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemHandler{
		actions: actions,
		logger:  logger,
		cursors: make(map[string]model.SwitchState),
	}
}

// systemOp describes one simple system action: the message when the value
// is missing, the default collaborator name, and the label used when no
// collaborator is available.
type systemOp struct {
	missing string
	name    string
	label   string
}

var systemOps = map[model.Kind]systemOp{
	model.KindHotkey:           {"No hotkey specified", "Hotkey", "Hotkey execution"},
	model.KindSystemOpenApp:    {"No application path specified", "Open Application", "Application launching"},
	model.KindSystemOpen:       {"No file or folder path specified", "Open File/Folder", "File/folder opening"},
	model.KindSystemClose:      {"No application name specified", "Close Application", "Application closing"},
	model.KindSystemText:       {"No text specified", "Type Text", "Text typing"},
	model.KindSystemMultimedia: {"No multimedia command specified", "Multimedia Control", "Multimedia control"},
	model.KindVolumeControl:    {"No volume command specified", "Volume Control", "Volume control"},
	model.KindSystemSleep:      {"", "Sleep", "System sleep"},
}

// Execute runs a system-category action.
func (h *SystemHandler) Execute(ctx context.Context, action model.ButtonAction, buttonID string, hc HandlerContext) Result {
	kind := action.Kind().Canonical()
	switch kind {
	case model.KindOpenURL:
		return h.openWebsite(ctx, action)
	case model.KindHotkeySwitch:
		hs, _ := action.(model.HotkeySwitch)
		if hs.Type == "" {
			hs = model.HotkeySwitch{Base: model.Base{Type: action.Kind(), Value: action.Payload(), Name: action.DisplayName()}}
		}
		return h.hotkeySwitch(ctx, hs, buttonID, hc)
	}

	op, ok := systemOps[kind]
	if !ok {
		return fail("Unknown system action: %s", action.Kind())
	}
	value := action.Payload()
	if op.missing != "" && value == "" {
		return fail("%s", op.missing)
	}
	return h.perform(ctx, kind, value, nameOr(action.DisplayName(), op.name), op.label)
}

func (h *SystemHandler) perform(ctx context.Context, kind model.Kind, value, name, label string) Result {
	if h.actions == nil {
		return fail("%s requires desktop environment", label)
	}
	msg, err := h.actions.PerformAction(ctx, kind, value, name)
	if err != nil {
		h.logger.Warn("system action failed", "kind", kind, "value", value, "error", err)
	}
	return fromCollaborator(msg, err)
}

func (h *SystemHandler) openWebsite(ctx context.Context, action model.ButtonAction) Result {
	url := action.Payload()
	if url == "" {
		return fail("No URL specified")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return h.perform(ctx, model.KindOpenURL, url, nameOr(action.DisplayName(), "Open Website"), "Website opening")
}

// hotkeySwitch presses the hotkey selected by the button's cursor. The
// cursor flips and is persisted only after the press succeeded.
func (h *SystemHandler) hotkeySwitch(ctx context.Context, a model.HotkeySwitch, buttonID string, hc HandlerContext) Result {
	primary := a.PrimaryHotkey
	if primary == "" {
		primary = a.Value
	}
	if primary == "" || a.SecondaryHotkey == "" {
		return fail("Both primary and secondary hotkeys must be specified")
	}

	current := h.cursor(buttonID, a.CurrentState)
	next := current.Other()
	hotkey := primary
	if current == model.SwitchSecondary {
		hotkey = a.SecondaryHotkey
	}

	res := h.perform(ctx, model.KindHotkey, hotkey, nameOr(a.Name, "Hotkey Switch")+" ("+string(current)+")", "Hotkey execution")
	if !res.Success {
		return res
	}

	h.mu.Lock()
	h.cursors[buttonID] = next
	h.mu.Unlock()

	a.CurrentState = next
	hc.updateAction(a)
	return succeed("Executed %s hotkey: %s. Next: %s", current, hotkey, next)
}

// cursor returns the in-memory cursor for the button, falling back to the
// persisted one and finally to primary.
func (h *SystemHandler) cursor(buttonID string, persisted model.SwitchState) model.SwitchState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.cursors[buttonID]; ok {
		return s
	}
	if persisted == model.SwitchSecondary {
		return model.SwitchSecondary
	}
	return model.SwitchPrimary
}

// HotkeyState reports the cursor a hotkey switch button will use next.
func (h *SystemHandler) HotkeyState(buttonID string) model.SwitchState {
	return h.cursor(buttonID, "")
}

// ResetHotkeyState forgets the in-memory cursor for a button.
func (h *SystemHandler) ResetHotkeyState(buttonID string) {
	h.mu.Lock()
	delete(h.cursors, buttonID)
	h.mu.Unlock()
}

// ExecuteLegacy delegates run_script and plugin actions to the collaborator
// unchanged.
func (h *SystemHandler) ExecuteLegacy(ctx context.Context, action model.ButtonAction) Result {
	if h.actions == nil {
		return fail("Legacy action %q requires desktop environment", action.Kind())
	}
	name := nameOr(action.DisplayName(), "Legacy: "+string(action.Kind()))
	return h.perform(ctx, action.Kind(), action.Payload(), name, "Legacy action")
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
