package actions

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mj1618/weel/internal/model"
)

// AudioPlayer starts playback of a sound file. onDone is called once when a
// non-looping clip reaches its end. The returned stop func halts playback
// and may be called more than once.
type AudioPlayer interface {
	Play(source string, volume float64, loop bool, onDone func()) (stop func(), err error)
}

type playback struct {
	seq    uint64
	source string
	loop   bool
	stop   func()
}

// AudioHandler plays sound-board clips, at most one per button.
type AudioHandler struct {
	player AudioPlayer
	logger *slog.Logger

	mu      sync.Mutex
	playing map[string]*playback
	seq     uint64
	lastID  string
}

func NewAudioHandler(player AudioPlayer, logger *slog.Logger) *AudioHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudioHandler{
		player:  player,
		logger:  logger,
		playing: make(map[string]*playback),
	}
}

// Execute runs an audio-category action.
func (h *AudioHandler) Execute(_ context.Context, action model.ButtonAction, buttonID string) Result {
	a, ok := action.(model.Audio)
	if !ok {
		a = model.Audio{Base: model.Base{Type: action.Kind(), Value: action.Payload(), Name: action.DisplayName()}}
	}
	switch action.Kind().Canonical() {
	case model.KindPlayAudio:
		return h.play(a, buttonID)
	case model.KindStopAudio:
		return h.stopAction(a)
	default:
		return fail("Unknown audio action: %s", action.Kind())
	}
}

func (h *AudioHandler) play(a model.Audio, buttonID string) Result {
	src := a.Source()
	if src == "" {
		return fail("No audio file specified")
	}
	if h.player == nil {
		return fail("Audio playback requires desktop environment")
	}
	if a.OutputDevice != "" {
		h.logger.Debug("output device selection not supported, using default", "device", a.OutputDevice)
	}

	h.Stop(buttonID)

	h.mu.Lock()
	h.seq++
	pb := &playback{seq: h.seq, source: src, loop: a.Loop}
	h.playing[buttonID] = pb
	h.lastID = buttonID
	h.mu.Unlock()

	stop, err := h.player.Play(src, a.Gain(), a.Loop, func() { h.finished(buttonID, pb.seq) })
	if err != nil {
		h.finished(buttonID, pb.seq)
		h.logger.Warn("audio playback failed", "source", src, "error", err)
		return fail("Failed to play audio: %s", err)
	}

	h.mu.Lock()
	pb.stop = stop
	cur, ok := h.playing[buttonID]
	h.mu.Unlock()
	if !ok || cur != pb {
		// Stopped, superseded or already finished before Play returned.
		stop()
	}

	h.logger.Debug("audio started", "button", buttonID, "source", src, "volume", a.Gain(), "loop", a.Loop)
	return succeed("Playing audio: %s", filepath.Base(src))
}

// finished drops the playback entry if it still belongs to the given run.
func (h *AudioHandler) finished(buttonID string, seq uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if pb, ok := h.playing[buttonID]; ok && pb.seq == seq {
		delete(h.playing, buttonID)
		if h.lastID == buttonID {
			h.lastID = ""
		}
	}
}

func (h *AudioHandler) stopAction(a model.Audio) Result {
	if a.Value == "" || a.Value == "all" {
		n := h.StopAll()
		if n == 0 {
			return succeed("No audio was playing")
		}
		return succeed("Stopped %d audio instance(s)", n)
	}
	if !h.Stop(a.Value) {
		return fail("No audio playing for this button")
	}
	return succeed("Audio stopped")
}

// Stop halts the clip bound to id and reports whether one was playing.
func (h *AudioHandler) Stop(id string) bool {
	h.mu.Lock()
	pb, ok := h.playing[id]
	if ok {
		delete(h.playing, id)
		if h.lastID == id {
			h.lastID = ""
		}
	}
	h.mu.Unlock()
	if !ok {
		return false
	}
	if pb.stop != nil {
		pb.stop()
	}
	return true
}

// StopAll halts every clip and returns how many were playing.
func (h *AudioHandler) StopAll() int {
	h.mu.Lock()
	playing := h.playing
	h.playing = make(map[string]*playback)
	h.lastID = ""
	h.mu.Unlock()
	for _, pb := range playing {
		if pb.stop != nil {
			pb.stop()
		}
	}
	return len(playing)
}

// IsPlaying reports whether a clip is bound to id.
func (h *AudioHandler) IsPlaying(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.playing[id]
	return ok
}

// Playing returns the ids with an active clip, sorted.
func (h *AudioHandler) Playing() []string {
	h.mu.Lock()
	ids := make([]string, 0, len(h.playing))
	for id := range h.playing {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// LastPlayed is the id of the most recently started clip that is still
// playing, or "".
func (h *AudioHandler) LastPlayed() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastID
}
