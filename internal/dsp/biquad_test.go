package dsp

import (
	"math"
	"testing"
)

// sineRMSGain measures the steady-state gain of a filter at freq by driving
// it with a unit sine and comparing output to input RMS after settling.
func sineRMSGain(f *Biquad, sampleRate, freq float64) float64 {
	const settle = 4096
	const measure = 8192

	var inSq, outSq float64
	for n := 0; n < settle+measure; n++ {
		x := math.Sin(2 * math.Pi * freq * float64(n) / sampleRate)
		y := f.ProcessSample(x)
		if n >= settle {
			inSq += x * x
			outSq += y * y
		}
	}
	return math.Sqrt(outSq / inSq)
}

func TestPeakingUnityAtZeroGain(t *testing.T) {
	var f Biquad
	f.SetPeaking(44100, 1000, 1.0, 0)

	// Zero-gain peaking must pass an impulse through unchanged.
	if got := f.ProcessSample(1.0); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("first impulse sample = %v, want 1", got)
	}
	for i := 0; i < 64; i++ {
		if got := f.ProcessSample(0.0); math.Abs(got) > 1e-9 {
			t.Fatalf("tail sample %d = %v, want 0", i, got)
		}
	}
}

func TestPeakingBoostsCentreFrequency(t *testing.T) {
	var f Biquad
	f.SetPeaking(44100, 1000, 1.0, 6)

	gain := sineRMSGain(&f, 44100, 1000)
	wantDB := 6.0
	gotDB := 20 * math.Log10(gain)
	if math.Abs(gotDB-wantDB) > 0.5 {
		t.Errorf("centre gain = %.2f dB, want about %.2f dB", gotDB, wantDB)
	}

	// Two octaves away the boost should have mostly receded.
	f.Reset()
	far := sineRMSGain(&f, 44100, 4000)
	if 20*math.Log10(far) > 2.0 {
		t.Errorf("gain two octaves up = %.2f dB, want well under the peak", 20*math.Log10(far))
	}
}

func TestLowShelfGainBelowCorner(t *testing.T) {
	var f Biquad
	f.SetLowShelf(44100, 500, 6)

	low := sineRMSGain(&f, 44100, 50)
	if got := 20 * math.Log10(low); math.Abs(got-6.0) > 0.5 {
		t.Errorf("shelf gain at 50 Hz = %.2f dB, want about 6 dB", got)
	}

	f.Reset()
	high := sineRMSGain(&f, 44100, 8000)
	if got := 20 * math.Log10(high); math.Abs(got) > 0.5 {
		t.Errorf("gain far above the shelf = %.2f dB, want about 0 dB", got)
	}
}

func TestHighShelfGainAboveCorner(t *testing.T) {
	var f Biquad
	f.SetHighShelf(44100, 2000, -6)

	high := sineRMSGain(&f, 44100, 12000)
	if got := 20 * math.Log10(high); math.Abs(got+6.0) > 0.5 {
		t.Errorf("shelf gain at 12 kHz = %.2f dB, want about -6 dB", got)
	}

	f.Reset()
	low := sineRMSGain(&f, 44100, 100)
	if got := 20 * math.Log10(low); math.Abs(got) > 0.5 {
		t.Errorf("gain far below the shelf = %.2f dB, want about 0 dB", got)
	}
}

func TestLowPassAttenuatesHighFrequencies(t *testing.T) {
	var f Biquad
	f.SetLowPass(44100, 5000, 0.707)

	pass := sineRMSGain(&f, 44100, 500)
	f.Reset()
	stop := sineRMSGain(&f, 44100, 15000)

	if pass < 0.9 {
		t.Errorf("passband gain = %v, want near unity", pass)
	}
	if stop > 0.2 {
		t.Errorf("stopband gain = %v, want strong attenuation", stop)
	}
}

func TestReconfigurePreservesState(t *testing.T) {
	var f Biquad
	f.SetPeaking(44100, 300, 0.7, 3)
	for i := 0; i < 16; i++ {
		f.ProcessSample(0.5)
	}
	z1, z2 := f.z1, f.z2

	f.SetPeaking(44100, 300, 0.7, 4)
	if f.z1 != z1 || f.z2 != z2 {
		t.Error("coefficient update must not disturb filter state")
	}
}
