// Package params defines the mastering parameter data model and preset library.
package params

import "sort"

// EQBandCount is the fixed number of parametric correction bands.
const EQBandCount = 14

// EQBandFrequencies lists the fixed band centre frequencies in Hz, ascending.
// The lowest band is realised as a low shelf, the highest as a high shelf,
// everything in between as a peaking filter.
var EQBandFrequencies = []float64{
	31.5, 50, 80, 125, 200, 315, 500, 800,
	1250, 2000, 3150, 5000, 8000, 12500,
}

// EQBand is one band of the correction curve.
type EQBand struct {
	Frequency float64 // Hz, fixed per band
	Gain      float64 // dB, -12..12
}

// CompressorParams configures the glue dynamics stage.
type CompressorParams struct {
	Threshold float64 // dB, -60..0
	Ratio     float64 // clamped to >= 1 at use
	Attack    float64 // seconds, 0..1
	Release   float64 // seconds, 0..1
}

// ReverbParams configures the send-based ambience stage.
type ReverbParams struct {
	Mix   float64 // 0..1 wet fraction
	Decay float64 // seconds, 0.1..10
}

// ParameterSet is the full mastering configuration. It is pure data; range
// enforcement is the producing caller's responsibility except where the chain
// must clamp to stay numerically valid (compressor ratio >= 1).
type ParameterSet struct {
	MasterGain  float64  // 0..~0.8, added to unity linear gain
	EQ          []EQBand // 14 bands, processed in ascending-frequency order
	Compressor  CompressorParams
	Reverb      ReverbParams
	Saturation  float64 // 0..1 pre-dynamics harmonic drive
	Body        float64 // dB, 0..6 low-mid peaking warmth
	Air         float64 // dB, 0..12 high-shelf brightness
	StereoWidth float64 // 0..2, side-channel gain boost over unity
	StereoBass  float64 // dB, 0..12 low shelf on the side channel only
	DynamicBass float64 // dB, 0..12 peaking punch pre-dynamics
	Ceiling     float64 // dB, -10..0 limiter threshold
	SoftClip    float64 // 0..1 final nonlinear ceiling shaping
}

// Manual returns the all-zero/unity default set: flat EQ, unity dynamics,
// no ambience, no width or tone adjustments.
func Manual() ParameterSet {
	eq := make([]EQBand, len(EQBandFrequencies))
	for i, f := range EQBandFrequencies {
		eq[i] = EQBand{Frequency: f}
	}
	return ParameterSet{
		EQ: eq,
		Compressor: CompressorParams{
			Threshold: 0,
			Ratio:     1.0,
			Attack:    0.01,
			Release:   0.1,
		},
		Reverb: ReverbParams{Mix: 0, Decay: 2.0},
	}
}

// Clone returns a deep copy; the EQ slice is never shared.
func (p ParameterSet) Clone() ParameterSet {
	out := p
	out.EQ = make([]EQBand, len(p.EQ))
	copy(out.EQ, p.EQ)
	return out
}

// SortedEQ returns the EQ bands in ascending-frequency order without
// mutating the receiver. Band identity in the chain is frequency-derived,
// not index-derived.
func (p ParameterSet) SortedEQ() []EQBand {
	bands := make([]EQBand, len(p.EQ))
	copy(bands, p.EQ)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Frequency < bands[j].Frequency })
	return bands
}
