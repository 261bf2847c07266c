package engine

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/soundpress/masterchain/internal/audio"
	"github.com/soundpress/masterchain/internal/chain"
	"github.com/soundpress/masterchain/internal/params"
)

// fakeHost records start/stop calls without touching real audio hardware.
type fakeHost struct {
	started int
	stopped int
	reader  io.Reader
}

func (h *fakeHost) Start(pcm io.Reader) error {
	h.started++
	h.reader = pcm
	return nil
}

func (h *fakeHost) Stop() { h.stopped++ }

// fakeClock advances only when told to.
type fakeClock struct{ now time.Time }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEngine() (*Engine, *fakeHost, *fakeClock) {
	host := &fakeHost{}
	clk := &fakeClock{now: time.Unix(1000, 0)}
	e := New(host)
	e.clock = func() time.Time { return clk.now }
	return e, host, clk
}

func toneBuffer(seconds float64) *audio.Buffer {
	sr := 44100
	frames := int(seconds * float64(sr))
	buf := audio.NewBuffer(sr, 2, frames)
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sr))
		buf.Channels[0][i] = v
		buf.Channels[1][i] = v
	}
	return buf
}

func TestPlayRequiresBuffer(t *testing.T) {
	e, _, _ := newTestEngine()
	if err := e.Play(0, params.Manual()); err != chain.ErrNoBufferLoaded {
		t.Errorf("err = %v, want ErrNoBufferLoaded", err)
	}
}

func TestPlayPausePosition(t *testing.T) {
	e, host, clk := newTestEngine()
	e.Load(toneBuffer(10))

	if err := e.Play(2.0, params.Manual()); err != nil {
		t.Fatal(err)
	}
	if e.State() != Playing {
		t.Fatalf("state = %s, want playing", e.State())
	}
	if host.started != 1 {
		t.Fatalf("host started %d times, want 1", host.started)
	}

	clk.advance(1500 * time.Millisecond)
	if pos := e.Position(); math.Abs(pos-3.5) > 1e-9 {
		t.Errorf("position = %g, want 3.5", pos)
	}

	e.Pause()
	if e.State() != Paused {
		t.Fatalf("state = %s, want paused", e.State())
	}
	clk.advance(5 * time.Second)
	if pos := e.Position(); math.Abs(pos-3.5) > 1e-9 {
		t.Errorf("paused position = %g, want 3.5 regardless of wall clock", pos)
	}
}

func TestPauseWhenNotPlayingIsNoop(t *testing.T) {
	e, host, _ := newTestEngine()
	e.Load(toneBuffer(1))
	stops := host.stopped
	e.Pause()
	e.Pause()
	if e.State() != Stopped {
		t.Errorf("state = %s, want stopped", e.State())
	}
	if host.stopped != stops {
		t.Errorf("pause while stopped must not touch the host")
	}
}

func TestSeekWhilePlayingRestarts(t *testing.T) {
	e, host, _ := newTestEngine()
	e.Load(toneBuffer(10))
	if err := e.Play(0, params.Manual()); err != nil {
		t.Fatal(err)
	}
	if err := e.Seek(7.0, params.Manual()); err != nil {
		t.Fatal(err)
	}
	if e.State() != Playing {
		t.Errorf("state = %s, want playing after live seek", e.State())
	}
	if host.started != 2 {
		t.Errorf("host started %d times, want 2 (seek rebuilds)", host.started)
	}
	if pos := e.Position(); math.Abs(pos-7.0) > 1e-9 {
		t.Errorf("position = %g, want 7.0", pos)
	}
}

func TestSeekWhilePausedOnlyStoresPosition(t *testing.T) {
	e, host, _ := newTestEngine()
	e.Load(toneBuffer(10))
	if err := e.Seek(4.0, params.Manual()); err != nil {
		t.Fatal(err)
	}
	if host.started != 0 {
		t.Error("seek while stopped must not start playback")
	}
	if pos := e.Position(); pos != 4.0 {
		t.Errorf("position = %g, want 4.0", pos)
	}
}

func TestSeekClampsToDuration(t *testing.T) {
	e, _, _ := newTestEngine()
	e.Load(toneBuffer(2))
	if err := e.Seek(99, params.Manual()); err != nil {
		t.Fatal(err)
	}
	if pos := e.Position(); math.Abs(pos-2.0) > 1e-9 {
		t.Errorf("position = %g, want clamped to 2.0", pos)
	}
}

func TestApplySettingsRampsWithoutRebuild(t *testing.T) {
	e, host, _ := newTestEngine()
	e.Load(toneBuffer(5))
	if err := e.Play(0, params.Manual()); err != nil {
		t.Fatal(err)
	}

	set := e.Settings()
	set.MasterGain = 0.4
	if err := e.ApplySettings(set); err != nil {
		t.Fatal(err)
	}
	if host.started != 1 {
		t.Error("scalar change must ramp in place, not restart playback")
	}

	set.Reverb.Decay = 5.0
	if err := e.ApplySettings(set); err != nil {
		t.Fatal(err)
	}
	if host.started != 2 {
		t.Error("decay change must rebuild the graph")
	}
}

func TestStreamDeliversPCM(t *testing.T) {
	e, host, _ := newTestEngine()
	e.Load(toneBuffer(1))
	if err := e.Play(0, params.Manual()); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4096)
	n, err := host.reader.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(buf) {
		t.Fatalf("read %d bytes, want %d", n, len(buf))
	}
	allZero := true
	for _, b := range buf {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("stream produced silence for a tone source")
	}
}

func TestStreamEndsWithEOF(t *testing.T) {
	e, host, _ := newTestEngine()
	sr := 44100
	short := audio.NewBuffer(sr, 2, 100)
	e.Load(short)
	if err := e.Play(0, params.Manual()); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 1<<20)
	total := 0
	for {
		n, err := host.reader.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if total != 100*4 {
		t.Errorf("stream delivered %d bytes, want %d", total, 100*4)
	}
}

func TestRenderWithoutBuffer(t *testing.T) {
	e, _, _ := newTestEngine()
	if _, err := e.Render(); err != chain.ErrNoBufferLoaded {
		t.Errorf("err = %v, want ErrNoBufferLoaded", err)
	}
}
