package chain

import (
	"github.com/soundpress/masterchain/internal/dsp"
)

// StageKind tags the typed variants in the stage topology.
type StageKind int

// Stage kinds, in the vocabulary of the graph description.
const (
	StageFilter StageKind = iota
	StageWaveshaper
	StageDynamics
	StageReverbSend
	StageMidSide
	StageGain
	StageMeter
)

// String returns the stage kind name.
func (k StageKind) String() string {
	switch k {
	case StageFilter:
		return "filter"
	case StageWaveshaper:
		return "waveshaper"
	case StageDynamics:
		return "dynamics"
	case StageReverbSend:
		return "reverb send"
	case StageMidSide:
		return "mid/side"
	case StageGain:
		return "gain"
	case StageMeter:
		return "meter"
	default:
		return "unknown"
	}
}

// Stage is one processing node in the ordered topology. Process mutates the
// stereo block in place. Detach disconnects the stage permanently: a detached
// stage passes audio through untouched, and detaching twice (or detaching a
// stage that was never wired) is a no-op.
type Stage interface {
	Kind() StageKind
	Label() string
	Process(left, right []float64)
	Detach()
}

// FilterShape selects the biquad response of a filter stage.
type FilterShape int

// Filter shapes used by the chain.
const (
	ShapeLowShelf FilterShape = iota
	ShapePeaking
	ShapeHighShelf
)

// String returns the shape name.
func (s FilterShape) String() string {
	switch s {
	case ShapeLowShelf:
		return "low shelf"
	case ShapePeaking:
		return "peaking"
	case ShapeHighShelf:
		return "high shelf"
	default:
		return "unknown"
	}
}

// FilterStage is a stereo biquad with a ramped gain parameter.
type FilterStage struct {
	label      string
	shape      FilterShape
	freq       float64
	q          float64
	sampleRate float64

	gain     *dsp.Smoother // dB
	lastGain float64
	left     dsp.Biquad
	right    dsp.Biquad
	detached bool
}

func newFilterStage(ctx *Context, label string, shape FilterShape, freq, q, gainDB float64) *FilterStage {
	s := &FilterStage{
		label:      label,
		shape:      shape,
		freq:       freq,
		q:          q,
		sampleRate: float64(ctx.SampleRate()),
		gain:       dsp.NewSmoother(float64(ctx.SampleRate()), dsp.DefaultSmoothingTime, gainDB),
	}
	s.configure(gainDB)
	return s
}

func (s *FilterStage) configure(gainDB float64) {
	switch s.shape {
	case ShapeLowShelf:
		s.left.SetLowShelf(s.sampleRate, s.freq, gainDB)
		s.right.SetLowShelf(s.sampleRate, s.freq, gainDB)
	case ShapeHighShelf:
		s.left.SetHighShelf(s.sampleRate, s.freq, gainDB)
		s.right.SetHighShelf(s.sampleRate, s.freq, gainDB)
	default:
		s.left.SetPeaking(s.sampleRate, s.freq, s.q, gainDB)
		s.right.SetPeaking(s.sampleRate, s.freq, s.q, gainDB)
	}
	s.lastGain = gainDB
}

// Kind implements Stage.
func (s *FilterStage) Kind() StageKind { return StageFilter }

// Label implements Stage.
func (s *FilterStage) Label() string { return s.label }

// Shape returns the configured filter shape.
func (s *FilterStage) Shape() FilterShape { return s.shape }

// Frequency returns the configured corner/centre frequency in Hz.
func (s *FilterStage) Frequency() float64 { return s.freq }

// Gain returns the current (possibly mid-ramp) gain in dB.
func (s *FilterStage) Gain() float64 { return s.gain.Value() }

// SetGain ramps the filter gain toward gainDB.
func (s *FilterStage) SetGain(gainDB float64) { s.gain.Set(gainDB) }

// Process implements Stage.
func (s *FilterStage) Process(left, right []float64) {
	if s.detached {
		return
	}
	if g := s.gain.Advance(len(left)); g != s.lastGain {
		s.configure(g)
	}
	s.left.ProcessBlock(left)
	s.right.ProcessBlock(right)
}

// Detach implements Stage.
func (s *FilterStage) Detach() { s.detached = true }

// WaveshaperStage applies a nonlinear transfer curve sample by sample.
// Amount changes swap the table immediately rather than ramping: a table
// swap is not a scalar parameter.
type WaveshaperStage struct {
	label    string
	amount   float64
	curve    *dsp.Curve
	generate func(float64) *dsp.Curve
	detached bool
}

func newWaveshaperStage(label string, amount float64, generate func(float64) *dsp.Curve) *WaveshaperStage {
	return &WaveshaperStage{
		label:    label,
		amount:   amount,
		curve:    generate(amount),
		generate: generate,
	}
}

// Kind implements Stage.
func (s *WaveshaperStage) Kind() StageKind { return StageWaveshaper }

// Label implements Stage.
func (s *WaveshaperStage) Label() string { return s.label }

// Amount returns the current curve amount.
func (s *WaveshaperStage) Amount() float64 { return s.amount }

// SetAmount regenerates the transfer curve for the new amount.
func (s *WaveshaperStage) SetAmount(amount float64) {
	if amount == s.amount {
		return
	}
	s.amount = amount
	s.curve = s.generate(amount)
}

// Process implements Stage.
func (s *WaveshaperStage) Process(left, right []float64) {
	if s.detached {
		return
	}
	s.curve.ProcessBlock(left)
	s.curve.ProcessBlock(right)
}

// Detach implements Stage.
func (s *WaveshaperStage) Detach() { s.detached = true }

// DynamicsStage wraps the envelope compressor with ramped threshold and
// ratio. Attack and release swap coefficients directly; they are time
// constants, not audible levels.
type DynamicsStage struct {
	label     string
	comp      *dsp.Dynamics
	threshold *dsp.Smoother // dB
	ratio     *dsp.Smoother
	detached  bool
}

func newDynamicsStage(ctx *Context, label string, thresholdDB, ratio, attackSec, releaseSec float64) *DynamicsStage {
	sr := float64(ctx.SampleRate())
	return &DynamicsStage{
		label:     label,
		comp:      dsp.NewDynamics(sr, thresholdDB, ratio, attackSec, releaseSec),
		threshold: dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, thresholdDB),
		ratio:     dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, ratio),
	}
}

func newLimiterStage(ctx *Context, ceilingDB float64) *DynamicsStage {
	sr := float64(ctx.SampleRate())
	return &DynamicsStage{
		label:     "limiter",
		comp:      dsp.NewLimiter(sr, ceilingDB),
		threshold: dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, ceilingDB),
		ratio:     dsp.NewSmoother(sr, dsp.DefaultSmoothingTime, 20),
	}
}

// Kind implements Stage.
func (s *DynamicsStage) Kind() StageKind { return StageDynamics }

// Label implements Stage.
func (s *DynamicsStage) Label() string { return s.label }

// Dynamics exposes the underlying compressor for inspection.
func (s *DynamicsStage) Dynamics() *dsp.Dynamics { return s.comp }

// SetThreshold ramps the threshold toward thresholdDB.
func (s *DynamicsStage) SetThreshold(thresholdDB float64) { s.threshold.Set(thresholdDB) }

// SetParams ramps threshold and ratio and swaps timing immediately.
func (s *DynamicsStage) SetParams(thresholdDB, ratio, attackSec, releaseSec float64) {
	s.threshold.Set(thresholdDB)
	s.ratio.Set(ratio)
	s.comp.SetAttack(attackSec)
	s.comp.SetRelease(releaseSec)
}

// Process implements Stage.
func (s *DynamicsStage) Process(left, right []float64) {
	if s.detached {
		return
	}
	n := len(left)
	s.comp.SetThreshold(s.threshold.Advance(n))
	s.comp.SetRatio(s.ratio.Advance(n))
	s.comp.ProcessStereo(left, right)
}

// Detach implements Stage.
func (s *DynamicsStage) Detach() { s.detached = true }

// GainStage multiplies both channels by a ramped linear gain.
type GainStage struct {
	label    string
	gain     *dsp.Smoother // linear
	detached bool
}

func newGainStage(ctx *Context, label string, gain float64) *GainStage {
	return &GainStage{
		label: label,
		gain:  dsp.NewSmoother(float64(ctx.SampleRate()), dsp.DefaultSmoothingTime, gain),
	}
}

// Kind implements Stage.
func (s *GainStage) Kind() StageKind { return StageGain }

// Label implements Stage.
func (s *GainStage) Label() string { return s.label }

// Gain returns the current linear gain.
func (s *GainStage) Gain() float64 { return s.gain.Value() }

// SetGain ramps the linear gain toward gain.
func (s *GainStage) SetGain(gain float64) { s.gain.Set(gain) }

// Process implements Stage.
func (s *GainStage) Process(left, right []float64) {
	if s.detached {
		return
	}
	g := s.gain.Advance(len(left))
	for i := range left {
		left[i] *= g
		right[i] *= g
	}
}

// Detach implements Stage.
func (s *GainStage) Detach() { s.detached = true }
