package audio

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

func writeWAV(t *testing.T, rate beep.SampleRate, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(samples), format); err != nil {
		t.Fatal(err)
	}
	return path
}

// testPlayer drains each played streamer on its own goroutine instead of
// a real speaker.
func testPlayer(t *testing.T) (*Player, *sync.WaitGroup) {
	t.Helper()
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	p := NewPlayer(DefaultConfig(), nil)
	p.init = func(beep.SampleRate, int) error { return nil }
	p.lock = mu.Lock
	p.unlock = mu.Unlock
	p.output = func(s beep.Streamer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([][2]float64, 512)
			for {
				mu.Lock()
				_, ok := s.Stream(buf)
				mu.Unlock()
				if !ok {
					return
				}
				time.Sleep(time.Millisecond)
			}
		}()
	}
	return p, &wg
}

func TestPlayer_OnDoneAfterClipEnds(t *testing.T) {
	p, wg := testPlayer(t)
	path := writeWAV(t, 44100, 2048)

	var done atomic.Int32
	stop, err := p.Play(path, 0.5, false, func() { done.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	wg.Wait()
	if done.Load() != 1 {
		t.Errorf("onDone called %d times, want 1", done.Load())
	}
	stop()
}

func TestPlayer_StopSuppressesOnDone(t *testing.T) {
	p, wg := testPlayer(t)
	path := writeWAV(t, 22050, 1024)

	var done atomic.Int32
	stop, err := p.Play(path, 1, true, func() { done.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	stop()
	stop()
	wg.Wait()
	if done.Load() != 0 {
		t.Errorf("onDone called %d times after stop", done.Load())
	}
}

func TestPlayer_Errors(t *testing.T) {
	p, _ := testPlayer(t)

	if _, err := p.Play("/nope/clip.mp3", 1, false, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := p.Play("clip.aiff", 1, false, nil); err == nil {
		t.Error("expected unsupported format error")
	}

	broken := NewPlayer(DefaultConfig(), nil)
	broken.init = func(beep.SampleRate, int) error { return errors.New("no device") }
	if _, err := broken.Play(writeWAV(t, 44100, 16), 1, false, nil); err == nil {
		t.Error("expected speaker error")
	}
}

func TestSupported(t *testing.T) {
	for _, f := range []string{"a.mp3", "B.WAV", "c.ogg"} {
		if !Supported(f) {
			t.Errorf("Supported(%q) = false", f)
		}
	}
	if Supported("d.flac") || Supported("noext") {
		t.Error("unexpected support")
	}
}
