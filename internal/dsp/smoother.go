package dsp

import "math"

// DefaultSmoothingTime is the exponential ramp time constant applied to live
// parameter changes, in seconds. Roughly 50ms keeps control moves click-free
// without feeling sluggish.
const DefaultSmoothingTime = 0.05

// Smoother ramps a scalar toward its target with a first-order exponential,
// advanced in block-sized steps. Offline rendering never moves the target, so
// a freshly built smoother behaves as a static value.
type Smoother struct {
	value  float64
	target float64
	coeff  float64 // per-sample decay factor
}

// NewSmoother creates a smoother resting at initial.
func NewSmoother(sampleRate float64, timeConstant, initial float64) *Smoother {
	coeff := 0.0
	if timeConstant > 0 && sampleRate > 0 {
		coeff = math.Exp(-1 / (sampleRate * timeConstant))
	}
	return &Smoother{value: initial, target: initial, coeff: coeff}
}

// Set updates the ramp target; the current value is left to converge.
func (s *Smoother) Set(target float64) {
	s.target = target
}

// Snap jumps directly to v with no ramp.
func (s *Smoother) Snap(v float64) {
	s.value = v
	s.target = v
}

// Advance moves the smoother forward by n samples and returns the new value.
func (s *Smoother) Advance(n int) float64 {
	if s.value != s.target {
		s.value = s.target + (s.value-s.target)*math.Pow(s.coeff, float64(n))
		if math.Abs(s.value-s.target) < 1e-9 {
			s.value = s.target
		}
	}
	return s.value
}

// Value returns the current value without advancing.
func (s *Smoother) Value() float64 { return s.value }

// Target returns the current ramp target.
func (s *Smoother) Target() float64 { return s.target }
