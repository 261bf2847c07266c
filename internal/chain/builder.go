package chain

import (
	"math"

	"github.com/soundpress/masterchain/internal/dsp"
	"github.com/soundpress/masterchain/internal/params"
)

// Fixed voicing of the tone stages.
const (
	dynamicBassHz = 65.0
	dynamicBassQ  = 1.2
	bodyHz        = 300.0
	bodyQ         = 0.7
	airHz         = 12000.0
	eqQ           = 1.0
)

// Graph is the fully wired mastering topology. Stage order is fixed: the EQ
// stack in ascending frequency order, dynamic bass, body, saturation,
// compressor, reverb send, air, mid/side, master gain, soft clip, limiter,
// and the metering tap.
type Graph struct {
	ctx    *Context
	stages []Stage

	eq          []*FilterStage
	dynamicBass *FilterStage
	body        *FilterStage
	saturation  *WaveshaperStage
	compressor  *DynamicsStage
	reverb      *ReverbSendStage
	air         *FilterStage
	midSide     *MidSideStage
	masterGain  *GainStage
	softClip    *WaveshaperStage
	limiter     *DynamicsStage
	meter       *MeterStage
}

// Build wires the mastering topology for the given settings. The same
// construction serves live playback and offline rendering; the context
// decides block size and whether parameter updates ramp.
func Build(ctx *Context, set *params.ParameterSet) *Graph {
	g := &Graph{ctx: ctx}

	bands := set.SortedEQ()
	for i, band := range bands {
		shape := ShapePeaking
		switch i {
		case 0:
			shape = ShapeLowShelf
		case len(bands) - 1:
			shape = ShapeHighShelf
		}
		g.eq = append(g.eq, newFilterStage(ctx, "eq", shape, band.Frequency, eqQ, band.Gain))
	}
	g.dynamicBass = newFilterStage(ctx, "dynamic bass", ShapePeaking, dynamicBassHz, dynamicBassQ, set.DynamicBass)
	g.body = newFilterStage(ctx, "body", ShapePeaking, bodyHz, bodyQ, set.Body)
	g.saturation = newWaveshaperStage("saturation", set.Saturation, dsp.SaturationCurve)
	g.compressor = newDynamicsStage(ctx, "compressor",
		set.Compressor.Threshold, set.Compressor.Ratio, set.Compressor.Attack, set.Compressor.Release)
	g.reverb = newReverbSendStage(ctx, set.Reverb.Mix, set.Reverb.Decay)
	g.air = newFilterStage(ctx, "air", ShapeHighShelf, airHz, eqQ, set.Air)
	g.midSide = newMidSideStage(ctx, set.StereoWidth, set.StereoBass)
	g.masterGain = newGainStage(ctx, "master gain", 1+set.MasterGain)
	g.softClip = newWaveshaperStage("soft clip", set.SoftClip, dsp.SoftClipCurve)
	g.limiter = newLimiterStage(ctx, set.Ceiling)
	g.meter = newMeterStage()

	for _, f := range g.eq {
		g.stages = append(g.stages, f)
	}
	g.stages = append(g.stages,
		g.dynamicBass, g.body, g.saturation, g.compressor, g.reverb,
		g.air, g.midSide, g.masterGain, g.softClip, g.limiter, g.meter)
	return g
}

// Process runs one stereo block through every stage in order, in place.
func (g *Graph) Process(left, right []float64) {
	for _, s := range g.stages {
		s.Process(left, right)
	}
}

// Stages returns the ordered stage list.
func (g *Graph) Stages() []Stage { return g.stages }

// Meter returns the metering tap.
func (g *Graph) Meter() *MeterStage { return g.meter }

// Detach disconnects every stage. A rebuilt graph must never leave stale
// handles wired, so detach always precedes construction of a replacement.
// Calling Detach more than once is harmless.
func (g *Graph) Detach() {
	for _, s := range g.stages {
		s.Detach()
	}
	g.stages = nil
}

// NeedsRebuild reports whether the new settings require reconstructing the
// graph rather than ramping the current one. Only a change to the reverb
// decay does: it invalidates the convolved impulse response.
func (g *Graph) NeedsRebuild(set *params.ParameterSet) bool {
	return math.Abs(set.Reverb.Decay-g.reverb.Decay()) >= decayTolerance
}

// Update retargets every ramped parameter toward the new settings and swaps
// curve tables immediately. It must not be called when NeedsRebuild reports
// true; the impulse response cannot be ramped.
func (g *Graph) Update(set *params.ParameterSet) {
	bands := set.SortedEQ()
	for i, f := range g.eq {
		if i < len(bands) {
			f.SetGain(bands[i].Gain)
		}
	}
	g.dynamicBass.SetGain(set.DynamicBass)
	g.body.SetGain(set.Body)
	g.saturation.SetAmount(set.Saturation)
	g.compressor.SetParams(set.Compressor.Threshold, set.Compressor.Ratio,
		set.Compressor.Attack, set.Compressor.Release)
	g.reverb.SetMix(set.Reverb.Mix)
	g.air.SetGain(set.Air)
	g.midSide.SetWidth(set.StereoWidth)
	g.midSide.SetBassGain(set.StereoBass)
	g.masterGain.SetGain(1 + set.MasterGain)
	g.softClip.SetAmount(set.SoftClip)
	g.limiter.SetThreshold(set.Ceiling)
}
