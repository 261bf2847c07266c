package dsp

import "math"

// Biquad is a second-order IIR filter section in transposed direct form II.
// Coefficients can be reconfigured in place without disturbing filter state,
// which is what the live automation path relies on when ramping gains.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

// shelfSlope is the RBJ shelf slope parameter; 1.0 gives the steepest shelf
// that stays monotonic.
const shelfSlope = 1.0

// SetPeaking configures a peaking filter at the given centre frequency.
func (f *Biquad) SetPeaking(sampleRate, freq, q, gainDB float64) {
	a := math.Pow(10, gainDB/40.0)
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	cosW0 := math.Cos(w0)

	b0 := 1 + alpha*a
	b1 := -2 * cosW0
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cosW0
	a2 := 1 - alpha/a

	f.normalize(b0, b1, b2, a0, a1, a2)
}

// SetLowShelf configures a low shelf with corner frequency freq.
func (f *Biquad) SetLowShelf(sampleRate, freq, gainDB float64) {
	a := math.Pow(10, gainDB/40.0)
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / 2 * math.Sqrt((a+1/a)*(1/shelfSlope-1)+2)
	sqrtA2alpha := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) - (a-1)*cosW0 + sqrtA2alpha)
	b1 := 2 * a * ((a - 1) - (a+1)*cosW0)
	b2 := a * ((a + 1) - (a-1)*cosW0 - sqrtA2alpha)
	a0 := (a + 1) + (a-1)*cosW0 + sqrtA2alpha
	a1 := -2 * ((a - 1) + (a+1)*cosW0)
	a2 := (a + 1) + (a-1)*cosW0 - sqrtA2alpha

	f.normalize(b0, b1, b2, a0, a1, a2)
}

// SetHighShelf configures a high shelf with corner frequency freq.
func (f *Biquad) SetHighShelf(sampleRate, freq, gainDB float64) {
	a := math.Pow(10, gainDB/40.0)
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / 2 * math.Sqrt((a+1/a)*(1/shelfSlope-1)+2)
	sqrtA2alpha := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) + (a-1)*cosW0 + sqrtA2alpha)
	b1 := -2 * a * ((a - 1) + (a+1)*cosW0)
	b2 := a * ((a + 1) + (a-1)*cosW0 - sqrtA2alpha)
	a0 := (a + 1) - (a-1)*cosW0 + sqrtA2alpha
	a1 := 2 * ((a - 1) - (a+1)*cosW0)
	a2 := (a + 1) - (a-1)*cosW0 - sqrtA2alpha

	f.normalize(b0, b1, b2, a0, a1, a2)
}

// SetLowPass configures a low-pass filter with cutoff frequency freq.
func (f *Biquad) SetLowPass(sampleRate, freq, q float64) {
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 - cosW0) / 2
	b1 := 1 - cosW0
	b2 := (1 - cosW0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW0
	a2 := 1 - alpha

	f.normalize(b0, b1, b2, a0, a1, a2)
}

func (f *Biquad) normalize(b0, b1, b2, a0, a1, a2 float64) {
	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}

// ProcessSample filters one sample.
func (f *Biquad) ProcessSample(x float64) float64 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// ProcessBlock filters buf in place.
func (f *Biquad) ProcessBlock(buf []float64) {
	for i, x := range buf {
		y := f.b0*x + f.z1
		f.z1 = f.b1*x - f.a1*y + f.z2
		f.z2 = f.b2*x - f.a2*y
		buf[i] = y
	}
}

// Reset clears filter state without touching coefficients.
func (f *Biquad) Reset() {
	f.z1, f.z2 = 0, 0
}
