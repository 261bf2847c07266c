// Package engine ties the processing chain to a playback host and exposes
// the transport surface the user interface drives.
package engine

import (
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soundpress/masterchain/internal/audio"
	"github.com/soundpress/masterchain/internal/chain"
	"github.com/soundpress/masterchain/internal/params"
)

// Host abstracts the physical audio output. Start begins pulling interleaved
// 16-bit little-endian stereo PCM from the reader; Stop ends the pull. A host
// must tolerate Stop without a prior Start.
type Host interface {
	Start(pcm io.Reader) error
	Stop()
}

// Engine owns the loaded buffer, the current settings, and the live graph.
// It is not safe for concurrent use; the UI drives it from a single loop.
type Engine struct {
	host  Host
	clock func() time.Time

	buf      *audio.Buffer
	settings params.ParameterSet

	ctx    *chain.Context
	graph  *chain.Graph
	stream *stream

	state    TransportState
	startRef time.Time
	startPos float64 // seconds at startRef
	paused   float64 // seconds while not playing
}

// New creates an engine bound to a playback host.
func New(host Host) *Engine {
	return &Engine{
		host:     host,
		clock:    time.Now,
		settings: params.Manual(),
	}
}

// Load replaces the source buffer, stops any playback, and resets position.
func (e *Engine) Load(buf *audio.Buffer) {
	e.stopStream()
	e.detach()
	e.buf = buf
	e.ctx = nil
	e.state = Stopped
	e.paused = 0
	log.WithFields(log.Fields{
		"frames":     buf.Frames(),
		"sampleRate": buf.SampleRate,
		"duration":   buf.Duration(),
	}).Info("buffer loaded")
}

// Buffer returns the loaded buffer, or nil.
func (e *Engine) Buffer() *audio.Buffer { return e.buf }

// Settings returns a copy of the current parameter set.
func (e *Engine) Settings() params.ParameterSet { return e.settings.Clone() }

// Meter returns the live metering tap, or nil when no graph is wired.
func (e *Engine) Meter() *chain.MeterStage {
	if e.graph == nil {
		return nil
	}
	return e.graph.Meter()
}

// ApplySettings installs new settings. While playing, scalar parameters ramp
// in place; a change that invalidates the impulse response rebuilds the graph
// at the current position instead.
func (e *Engine) ApplySettings(set params.ParameterSet) error {
	e.settings = set.Clone()
	if e.state != Playing || e.graph == nil {
		return nil
	}
	if e.graph.NeedsRebuild(&e.settings) {
		pos := e.Position()
		return e.Play(pos, e.settings)
	}
	e.graph.Update(&e.settings)
	return nil
}

// Render runs the loaded buffer through the chain offline with the current
// settings applied statically.
func (e *Engine) Render() (*audio.Buffer, error) {
	if e.buf == nil {
		return nil, chain.ErrNoBufferLoaded
	}
	return chain.Render(e.buf, &e.settings)
}

func (e *Engine) detach() {
	if e.graph != nil {
		e.graph.Detach()
		e.graph = nil
	}
}

func (e *Engine) stopStream() {
	if e.stream != nil {
		e.stream.stop()
		e.stream = nil
	}
	e.host.Stop()
}
