package engine

import (
	log "github.com/sirupsen/logrus"

	"github.com/soundpress/masterchain/internal/chain"
	"github.com/soundpress/masterchain/internal/params"
)

// TransportState is the playback lifecycle state.
type TransportState int

// Transport states.
const (
	Stopped TransportState = iota
	Playing
	Paused
)

// String returns the state name.
func (s TransportState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// State returns the current transport state.
func (e *Engine) State() TransportState { return e.state }

// Position returns the playback position in seconds. While playing it is
// derived from the wall clock against the start reference; otherwise it is
// the stored paused position.
func (e *Engine) Position() float64 {
	if e.state != Playing {
		return e.paused
	}
	pos := e.startPos + e.clock().Sub(e.startRef).Seconds()
	if e.buf != nil && pos > e.buf.Duration() {
		pos = e.buf.Duration()
	}
	return pos
}

// Play rebuilds the graph for the given settings and starts signal flow at
// offset seconds. Restarting while already playing tears down the previous
// stream first; stale stages never stay wired.
func (e *Engine) Play(offset float64, set params.ParameterSet) error {
	if e.buf == nil || e.buf.Frames() == 0 {
		return chain.ErrNoBufferLoaded
	}
	e.stopStream()
	e.detach()

	e.settings = set.Clone()
	if e.ctx == nil || e.ctx.SampleRate() != e.buf.SampleRate {
		e.ctx = chain.NewRealtimeContext(e.buf.SampleRate)
	}
	e.graph = chain.Build(e.ctx, &e.settings)
	e.graph.Meter().SetActive(true)

	if offset < 0 {
		offset = 0
	}
	if d := e.buf.Duration(); offset > d {
		offset = d
	}
	e.stream = newStream(e.buf, e.graph, int(offset*float64(e.buf.SampleRate)))
	if err := e.host.Start(e.stream); err != nil {
		e.stream = nil
		e.detach()
		return err
	}

	e.startRef = e.clock()
	e.startPos = offset
	e.state = Playing
	log.WithField("offset", offset).Debug("playback started")
	return nil
}

// Pause stops signal flow and stores the elapsed position. It is a no-op
// unless currently playing.
func (e *Engine) Pause() {
	if e.state != Playing {
		return
	}
	e.paused = e.Position()
	e.stopStream()
	if e.graph != nil {
		e.graph.Meter().SetActive(false)
	}
	e.state = Paused
	log.WithField("position", e.paused).Debug("playback paused")
}

// Seek moves the playback position. While playing this restarts signal flow
// at the new position, rebuilding the graph; otherwise it only updates the
// stored position.
func (e *Engine) Seek(seconds float64, set params.ParameterSet) error {
	if seconds < 0 {
		seconds = 0
	}
	if e.buf != nil {
		if d := e.buf.Duration(); seconds > d {
			seconds = d
		}
	}
	if e.state == Playing {
		e.Pause()
		return e.Play(seconds, set)
	}
	e.paused = seconds
	e.settings = set.Clone()
	return nil
}
