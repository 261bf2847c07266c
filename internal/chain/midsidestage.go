package chain

import (
	"github.com/soundpress/masterchain/internal/dsp"
)

// sideShelfHz is the corner of the low shelf applied to the side channel.
const sideShelfHz = 120.0

// MidSideStage widens the stereo field. Left/right are matrixed to mid/side,
// a low shelf shapes the side channel's bass, the side is scaled by
// 1+stereoWidth, and the pair is matrixed back. The decode matrix restores
// the encoder's 0.5 scaling, so with width and shelf at zero the stage is an
// exact identity.
type MidSideStage struct {
	label      string
	sampleRate float64
	width      *dsp.Smoother // side gain offset
	bassGain   *dsp.Smoother // dB
	lastBass   float64
	shelf      dsp.Biquad
	mid        []float64
	side       []float64
	detached   bool
}

func newMidSideStage(ctx *Context, width, bassDB float64) *MidSideStage {
	sr := float64(ctx.SampleRate())
	s := &MidSideStage{
		label:      "mid/side",
		sampleRate: sr,
		width:      dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, width),
		bassGain:   dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, bassDB),
		lastBass:   bassDB,
		mid:        make([]float64, ctx.BlockSize()),
		side:       make([]float64, ctx.BlockSize()),
	}
	s.shelf.SetLowShelf(sr, sideShelfHz, bassDB)
	return s
}

// Kind implements Stage.
func (s *MidSideStage) Kind() StageKind { return StageMidSide }

// Label implements Stage.
func (s *MidSideStage) Label() string { return s.label }

// Width returns the current side gain offset.
func (s *MidSideStage) Width() float64 { return s.width.Value() }

// SetWidth ramps the side gain offset.
func (s *MidSideStage) SetWidth(width float64) { s.width.Set(width) }

// SetBassGain ramps the side-channel shelf gain in dB.
func (s *MidSideStage) SetBassGain(gainDB float64) { s.bassGain.Set(gainDB) }

// Process implements Stage.
func (s *MidSideStage) Process(left, right []float64) {
	if s.detached {
		return
	}
	n := len(left)
	mid, side := s.mid[:n], s.side[:n]
	for i := 0; i < n; i++ {
		mid[i], side[i] = dsp.EncodeMS.Apply(left[i], right[i])
	}
	if g := s.bassGain.Advance(n); g != s.lastBass {
		s.shelf.SetLowShelf(s.sampleRate, sideShelfHz, g)
		s.lastBass = g
	}
	s.shelf.ProcessBlock(side)
	gain := 1 + s.width.Advance(n)
	for i := 0; i < n; i++ {
		side[i] *= gain
		left[i], right[i] = dsp.DecodeMS.Apply(mid[i], side[i])
	}
}

// Detach implements Stage.
func (s *MidSideStage) Detach() { s.detached = true }
