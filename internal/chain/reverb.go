package chain

import (
	"github.com/soundpress/masterchain/internal/dsp"
)

// reverbToneHz darkens the wet path before convolution so the tail does not
// compete with the air band.
const reverbToneHz = 5000.0

// ReverbSendStage mixes a convolved wet path with the dry signal. The mix is
// split into complementary ramped dry and wet gains so a moving mix control
// never changes the total loudness abruptly.
type ReverbSendStage struct {
	label    string
	dry      *dsp.Smoother
	wet      *dsp.Smoother
	decay    float64
	toneL    dsp.Biquad
	toneR    dsp.Biquad
	convL    *dsp.Convolver
	convR    *dsp.Convolver
	wetL     []float64
	wetR     []float64
	detached bool
}

func newReverbSendStage(ctx *Context, mix, decay float64) *ReverbSendStage {
	left, right := ctx.ImpulseResponse(decay)
	sr := float64(ctx.SampleRate())
	s := &ReverbSendStage{
		label: "reverb send",
		dry:   dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, 1-mix),
		wet:   dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, mix),
		decay: decay,
		convL: dsp.NewConvolver(left, ctx.BlockSize()),
		convR: dsp.NewConvolver(right, ctx.BlockSize()),
		wetL:  make([]float64, ctx.BlockSize()),
		wetR:  make([]float64, ctx.BlockSize()),
	}
	s.toneL.SetLowPass(sr, reverbToneHz, 0.707)
	s.toneR.SetLowPass(sr, reverbToneHz, 0.707)
	return s
}

// Kind implements Stage.
func (s *ReverbSendStage) Kind() StageKind { return StageReverbSend }

// Label implements Stage.
func (s *ReverbSendStage) Label() string { return s.label }

// Mix returns the current wet fraction.
func (s *ReverbSendStage) Mix() float64 { return s.wet.Value() }

// Decay returns the decay exponent the impulse response was built with.
func (s *ReverbSendStage) Decay() float64 { return s.decay }

// SetMix ramps the dry and wet gains toward a new mix.
func (s *ReverbSendStage) SetMix(mix float64) {
	s.dry.Set(1 - mix)
	s.wet.Set(mix)
}

// Process implements Stage.
func (s *ReverbSendStage) Process(left, right []float64) {
	if s.detached {
		return
	}
	n := len(left)
	copy(s.wetL[:n], left)
	copy(s.wetR[:n], right)
	s.toneL.ProcessBlock(s.wetL[:n])
	s.toneR.ProcessBlock(s.wetR[:n])
	s.convL.ProcessBlock(s.wetL[:n], s.wetL[:n])
	s.convR.ProcessBlock(s.wetR[:n], s.wetR[:n])
	dry := s.dry.Advance(n)
	wet := s.wet.Advance(n)
	for i := 0; i < n; i++ {
		left[i] = left[i]*dry + s.wetL[i]*wet
		right[i] = right[i]*dry + s.wetR[i]*wet
	}
}

// Detach implements Stage.
func (s *ReverbSendStage) Detach() { s.detached = true }
