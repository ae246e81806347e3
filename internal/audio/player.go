// Package audio plays sound-board clips through the default output device.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// Config sets the mixer format. Clips with another sample rate are
// resampled.
type Config struct {
	SampleRate int `yaml:"sample_rate"`
	BufferMs   int `yaml:"buffer_ms"`
}

func DefaultConfig() Config {
	return Config{SampleRate: 44100, BufferMs: 100}
}

// Player mixes any number of clips on one speaker. The speaker is
// initialised on the first Play.
type Player struct {
	rate   beep.SampleRate
	buffer time.Duration
	logger *slog.Logger

	initOnce sync.Once
	initErr  error

	// Overridden in tests.
	init   func(beep.SampleRate, int) error
	output func(beep.Streamer)
	lock   func()
	unlock func()
}

func NewPlayer(cfg Config, logger *slog.Logger) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	if cfg.BufferMs <= 0 {
		cfg.BufferMs = DefaultConfig().BufferMs
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		rate:   beep.SampleRate(cfg.SampleRate),
		buffer: time.Duration(cfg.BufferMs) * time.Millisecond,
		logger: logger,
		init:   speaker.Init,
		output: func(s beep.Streamer) { speaker.Play(s) },
		lock:   speaker.Lock,
		unlock: speaker.Unlock,
	}
}

func (p *Player) ensureSpeaker() error {
	p.initOnce.Do(func() {
		p.initErr = p.init(p.rate, p.rate.N(p.buffer))
		if p.initErr != nil {
			p.logger.Warn("audio output unavailable", "error", p.initErr)
		}
	})
	return p.initErr
}

// Play starts source at the given linear volume in [0,1]. onDone runs once
// when a non-looping clip reaches its end, never after stop.
func (p *Player) Play(source string, volume float64, loop bool, onDone func()) (func(), error) {
	if err := p.ensureSpeaker(); err != nil {
		return nil, fmt.Errorf("audio output: %w", err)
	}
	clip, format, err := decodeFile(source)
	if err != nil {
		return nil, err
	}

	var s beep.Streamer = clip
	if loop {
		s = beep.Loop(-1, clip)
	}
	if format.SampleRate != p.rate {
		s = beep.Resample(4, format.SampleRate, p.rate, s)
	}
	s = &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(volume, 1e-6)),
		Silent:   volume <= 0,
	}
	ctrl := &beep.Ctrl{Streamer: s}

	var (
		stopped   atomic.Bool
		closeOnce sync.Once
	)
	release := func() {
		closeOnce.Do(func() {
			if err := clip.Close(); err != nil {
				p.logger.Debug("close clip", "source", source, "error", err)
			}
		})
	}

	p.output(beep.Seq(ctrl, beep.Callback(func() {
		release()
		if !stopped.Load() && onDone != nil {
			onDone()
		}
	})))

	stop := func() {
		if stopped.Swap(true) {
			return
		}
		p.lock()
		ctrl.Streamer = nil
		p.unlock()
	}
	return stop, nil
}
