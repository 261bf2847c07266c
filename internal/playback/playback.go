// Package playback wraps the system audio output behind the engine's host
// interface.
package playback

import (
	"io"
	"time"

	"github.com/hajimehoshi/oto/v2"
	log "github.com/sirupsen/logrus"
)

const (
	channelCount = 2
	// bitDepthBytes selects 16-bit signed little-endian samples, matching
	// the engine's stream format.
	bitDepthBytes = 2

	readyTimeout = 3 * time.Second
)

// Host drives a single oto player at a fixed sample rate. The device context
// is opened once; players come and go with each transport start.
type Host struct {
	ctx    *oto.Context
	ready  chan struct{}
	player oto.Player
}

// NewHost opens the system audio device for the given sample rate.
func NewHost(sampleRate int) (*Host, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, bitDepthBytes)
	if err != nil {
		return nil, err
	}
	return &Host{ctx: ctx, ready: ready}, nil
}

// Start begins pulling PCM from the reader. It blocks until the device is
// ready, bounded by a timeout so a broken audio stack fails loudly instead
// of hanging the transport.
func (h *Host) Start(pcm io.Reader) error {
	select {
	case <-h.ready:
	case <-time.After(readyTimeout):
		log.Warn("audio device not ready, starting anyway")
	}
	h.Stop()
	h.player = h.ctx.NewPlayer(pcm)
	h.player.Play()
	return nil
}

// Stop tears down the current player, if any.
func (h *Host) Stop() {
	if h.player == nil {
		return
	}
	h.player.Close()
	h.player = nil
}
