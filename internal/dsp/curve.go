package dsp

import (
	"fmt"
	"math"
	"sync"
)

// CurveResolution is the number of entries in a transfer-curve lookup table,
// spread evenly over the input domain [-1, 1].
const CurveResolution = 4096

// curveKeyPrecision rounds the curve amount for cache keying, so rapid
// control movement does not regenerate near-identical tables.
const curveKeyPrecision = 1000

// Curve is a fixed-resolution nonlinear transfer table applied sample by
// sample. Curves are pure functions of their amount and are shared via a
// package-level cache; they must never be mutated after construction.
type Curve struct {
	table []float64
}

var (
	curveMu    sync.Mutex
	curveCache = map[string]*Curve{}
)

// SaturationCurve returns the harmonic drive transfer table for the given
// amount in [0, 1]. With amount 0 the curve degenerates to identity.
func SaturationCurve(amount float64) *Curve {
	return cachedCurve("sat", amount, func(x float64) float64 {
		drive := amount * 10
		return (math.Pi + drive) * x / (math.Pi + drive*math.Abs(x))
	})
}

// SoftClipCurve returns the final ceiling-shaping transfer table for the
// given amount in [0, 1]. Amount 0 is the identity function; the tanh form
// only applies once there is any shaping to do.
func SoftClipCurve(amount float64) *Curve {
	if amount == 0 {
		return cachedCurve("clip", 0, func(x float64) float64 { return x })
	}
	return cachedCurve("clip", amount, func(x float64) float64 {
		k := 1 + amount*2
		return math.Tanh(k*x) / math.Tanh(k)
	})
}

func cachedCurve(kind string, amount float64, fn func(float64) float64) *Curve {
	key := fmt.Sprintf("%s:%d", kind, int(math.Round(amount*curveKeyPrecision)))

	curveMu.Lock()
	defer curveMu.Unlock()
	if c, ok := curveCache[key]; ok {
		return c
	}

	c := &Curve{table: make([]float64, CurveResolution)}
	for i := range c.table {
		x := -1.0 + 2.0*float64(i)/float64(CurveResolution-1)
		c.table[i] = fn(x)
	}
	curveCache[key] = c
	return c
}

// Apply maps one sample through the curve with linear interpolation between
// table entries. Input outside [-1, 1] is clamped to the table edges.
func (c *Curve) Apply(x float64) float64 {
	pos := (Clamp(x, -1, 1) + 1) / 2 * float64(CurveResolution-1)
	i := int(pos)
	if i >= CurveResolution-1 {
		return c.table[CurveResolution-1]
	}
	frac := pos - float64(i)
	return c.table[i] + (c.table[i+1]-c.table[i])*frac
}

// ProcessBlock applies the curve to buf in place.
func (c *Curve) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.Apply(x)
	}
}
