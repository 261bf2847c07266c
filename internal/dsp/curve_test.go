package dsp

import (
	"math"
	"testing"
)

func TestCurveOddSymmetry(t *testing.T) {
	curves := map[string]*Curve{
		"saturation 0.5": SaturationCurve(0.5),
		"saturation 1.0": SaturationCurve(1.0),
		"soft clip 0.3":  SoftClipCurve(0.3),
		"soft clip 1.0":  SoftClipCurve(1.0),
	}

	for name, c := range curves {
		t.Run(name, func(t *testing.T) {
			if got := c.Apply(0); math.Abs(got) > 1e-9 {
				t.Errorf("f(0) = %v, want 0", got)
			}
			for x := 0.0; x <= 1.0; x += 0.01 {
				pos := c.Apply(x)
				neg := c.Apply(-x)
				if math.Abs(pos+neg) > 1e-6 {
					t.Fatalf("f(%v)=%v, f(-%v)=%v: not odd", x, pos, x, neg)
				}
			}
		})
	}
}

func TestCurveIdentityCollapse(t *testing.T) {
	for name, c := range map[string]*Curve{
		"saturation amount 0": SaturationCurve(0),
		"soft clip amount 0":  SoftClipCurve(0),
	} {
		t.Run(name, func(t *testing.T) {
			for x := -1.0; x <= 1.0; x += 0.005 {
				if got := c.Apply(x); math.Abs(got-x) > 1e-6 {
					t.Fatalf("f(%v) = %v, want identity", x, got)
				}
			}
		})
	}
}

func TestSaturationCurveFormula(t *testing.T) {
	amount := 0.4
	drive := amount * 10
	c := SaturationCurve(amount)
	for _, x := range []float64{-1, -0.5, -0.1, 0.1, 0.5, 1} {
		want := (math.Pi + drive) * x / (math.Pi + drive*math.Abs(x))
		if got := c.Apply(x); math.Abs(got-want) > 1e-4 {
			t.Errorf("f(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestCurveCacheReuse(t *testing.T) {
	a := SaturationCurve(0.2)
	b := SaturationCurve(0.2)
	if a != b {
		t.Error("identical amounts should share one cached table")
	}

	// Amounts within the rounding quantum share a table too.
	c := SaturationCurve(0.2001)
	if a != c {
		t.Error("amounts inside the cache quantum should not regenerate")
	}

	d := SaturationCurve(0.25)
	if a == d {
		t.Error("distinct amounts must not share a table")
	}
}

func TestSoftClipBoundsOutput(t *testing.T) {
	c := SoftClipCurve(1.0)
	for _, x := range []float64{-2, -1, -0.9, 0.9, 1, 2} {
		if got := c.Apply(x); got < -1.0-1e-9 || got > 1.0+1e-9 {
			t.Errorf("f(%v) = %v escapes [-1, 1]", x, got)
		}
	}
	// Full-scale input maps to the full-scale table edge.
	if got := c.Apply(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("f(1) = %v, want 1", got)
	}
}
