// Package chain builds and runs the fixed-topology mastering graph. One
// builder produces the same ordered stage list for both execution backends:
// the realtime playback path and the deterministic offline render.
package chain

import "errors"

// DefaultBlockSize is the per-pull stereo block length in frames. Both
// backends process in fixed blocks; the offline path zero-pads its final one.
const DefaultBlockSize = 1024

// ErrNoBufferLoaded is returned when playback or an offline render is
// requested before any buffer has been loaded.
var ErrNoBufferLoaded = errors.New("masterchain: no buffer loaded")

// Context identifies one execution backend instance: its sample rate, block
// size and whether it drives a realtime output. The per-context impulse
// response cache lives here, so caches are never shared across contexts or
// sample rates.
type Context struct {
	sampleRate int
	blockSize  int
	realtime   bool

	impulse *impulseEntry
}

// NewRealtimeContext creates the context for interactive playback.
func NewRealtimeContext(sampleRate int) *Context {
	return &Context{sampleRate: sampleRate, blockSize: DefaultBlockSize, realtime: true}
}

// NewRenderContext creates the context for a one-shot offline render.
func NewRenderContext(sampleRate int) *Context {
	return &Context{sampleRate: sampleRate, blockSize: DefaultBlockSize, realtime: false}
}

// SampleRate returns the context sample rate in Hz.
func (c *Context) SampleRate() int { return c.sampleRate }

// BlockSize returns the processing block length in frames.
func (c *Context) BlockSize() int { return c.blockSize }

// Realtime reports whether this context drives a live output.
func (c *Context) Realtime() bool { return c.realtime }
