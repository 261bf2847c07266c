package dsp

import "math"

// Dynamics is a stereo-linked feed-forward compressor with a hard knee and a
// peak envelope detector. The limiter at the end of the mastering chain is
// the same machine with a high ratio and fast, fixed timing.
type Dynamics struct {
	sampleRate float64

	thresholdDB float64
	ratio       float64 // >= 1, enforced on every set
	attackSec   float64
	releaseSec  float64

	attackCoeff  float64
	releaseCoeff float64
	envelope     float64 // linear detector level, shared across channels
}

// NewDynamics creates a compressor. A ratio below 1 is clamped to 1 rather
// than rejected; inverted dynamics are never meaningful here.
func NewDynamics(sampleRate, thresholdDB, ratio, attackSec, releaseSec float64) *Dynamics {
	d := &Dynamics{sampleRate: sampleRate}
	d.SetThreshold(thresholdDB)
	d.SetRatio(ratio)
	d.SetAttack(attackSec)
	d.SetRelease(releaseSec)
	return d
}

// NewLimiter creates the fixed-character ceiling limiter: hard knee,
// 1ms attack, 100ms release, 20:1 ratio.
func NewLimiter(sampleRate, ceilingDB float64) *Dynamics {
	return NewDynamics(sampleRate, ceilingDB, 20.0, 0.001, 0.1)
}

// SetThreshold sets the compression threshold in dB.
func (d *Dynamics) SetThreshold(db float64) {
	d.thresholdDB = db
}

// SetRatio sets the compression ratio, clamped to >= 1.
func (d *Dynamics) SetRatio(ratio float64) {
	if ratio < 1 {
		ratio = 1
	}
	d.ratio = ratio
}

// SetAttack sets the attack time in seconds.
func (d *Dynamics) SetAttack(sec float64) {
	d.attackSec = sec
	d.attackCoeff = timeCoeff(d.sampleRate, sec)
}

// SetRelease sets the release time in seconds.
func (d *Dynamics) SetRelease(sec float64) {
	d.releaseSec = sec
	d.releaseCoeff = timeCoeff(d.sampleRate, sec)
}

// Threshold returns the threshold in dB.
func (d *Dynamics) Threshold() float64 { return d.thresholdDB }

// Ratio returns the effective (clamped) ratio.
func (d *Dynamics) Ratio() float64 { return d.ratio }

// Attack returns the attack time in seconds.
func (d *Dynamics) Attack() float64 { return d.attackSec }

// Release returns the release time in seconds.
func (d *Dynamics) Release() float64 { return d.releaseSec }

func timeCoeff(sampleRate, sec float64) float64 {
	if sec <= 0 || sampleRate <= 0 {
		return 0 // instant
	}
	return math.Exp(-1 / (sampleRate * sec))
}

// ProcessStereo compresses left and right in place with a shared detector,
// so the stereo image does not wander under gain reduction.
func (d *Dynamics) ProcessStereo(left, right []float64) {
	for i := range left {
		level := math.Abs(left[i])
		if r := math.Abs(right[i]); r > level {
			level = r
		}

		if level > d.envelope {
			d.envelope = d.attackCoeff*d.envelope + (1-d.attackCoeff)*level
		} else {
			d.envelope = d.releaseCoeff*d.envelope + (1-d.releaseCoeff)*level
		}

		gain := d.gainFor(d.envelope)
		left[i] *= gain
		right[i] *= gain
	}
}

// gainFor returns the static gain for a detector level.
func (d *Dynamics) gainFor(level float64) float64 {
	overDB := LinearToDb(level) - d.thresholdDB
	if overDB <= 0 {
		return 1
	}
	reductionDB := overDB * (1/d.ratio - 1)
	return DbToLinear(reductionDB)
}

// Reset clears detector state.
func (d *Dynamics) Reset() {
	d.envelope = 0
}
