package chain

import (
	"math"
	"math/rand"
)

// Impulse synthesis constants.
const (
	// impulseDurationSec is the reverb tail length. The chain always uses a
	// three second decaying-noise impulse; only the decay exponent varies.
	impulseDurationSec = 3.0

	// decayTolerance is the cache validity window: a cached impulse serves
	// any request whose decay differs by less than this.
	decayTolerance = 0.01

	// impulseSeed fixes the noise generator so identical settings produce
	// bit-identical impulses, which offline render determinism depends on.
	impulseSeed = 0x6d7374726e
)

type impulseEntry struct {
	decay float64
	left  []float64
	right []float64
}

// ImpulseResponse returns the stereo decaying-noise impulse for the given
// decay, serving from the per-context cache when the cached decay is within
// tolerance. Only the chain builder calls this; cache writes happen solely on
// miss.
func (c *Context) ImpulseResponse(decay float64) (left, right []float64) {
	if c.impulse != nil && math.Abs(c.impulse.decay-decay) < decayTolerance {
		return c.impulse.left, c.impulse.right
	}
	left, right = synthesizeImpulse(c.sampleRate, decay)
	c.impulse = &impulseEntry{decay: decay, left: left, right: right}
	return left, right
}

// synthesizeImpulse generates two independent uniform-noise streams shaped
// by the envelope (1 - n/length)^decay. Left and right are uncorrelated so
// the tail keeps a natural stereo spread.
func synthesizeImpulse(sampleRate int, decay float64) (left, right []float64) {
	length := int(float64(sampleRate) * impulseDurationSec)
	left = make([]float64, length)
	right = make([]float64, length)

	rngL := rand.New(rand.NewSource(impulseSeed))
	rngR := rand.New(rand.NewSource(impulseSeed + 1))
	for n := 0; n < length; n++ {
		env := math.Pow(1-float64(n)/float64(length), decay)
		left[n] = (rngL.Float64()*2 - 1) * env
		right[n] = (rngR.Float64()*2 - 1) * env
	}
	return left, right
}
