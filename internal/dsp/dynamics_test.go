package dsp

import (
	"math"
	"testing"
)

func sineBlock(freq, sampleRate, amp float64, n int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return buf
}

func blockRMS(buf []float64) float64 {
	var sum float64
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func TestRatioClampedToUnity(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{"zero ratio", 0, 1},
		{"negative ratio", -3, 1},
		{"fractional ratio", 0.5, 1},
		{"valid ratio", 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDynamics(44100, -20, tt.ratio, 0.01, 0.1)
			if got := d.Ratio(); got != tt.want {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBelowThresholdIsTransparent(t *testing.T) {
	d := NewDynamics(44100, -6, 4, 0.001, 0.05)

	left := sineBlock(440, 44100, 0.1, 44100) // -20 dBFS, well below -6 dB
	right := append([]float64(nil), left...)
	want := append([]float64(nil), left...)

	d.ProcessStereo(left, right)
	for i := range left {
		if math.Abs(left[i]-want[i]) > 1e-9 {
			t.Fatalf("sample %d altered below threshold: %v vs %v", i, left[i], want[i])
		}
	}
}

func TestAboveThresholdReduces(t *testing.T) {
	d := NewDynamics(44100, -20, 4, 0.001, 0.1)

	left := sineBlock(440, 44100, 0.8, 44100)
	right := append([]float64(nil), left...)
	inRMS := blockRMS(left)

	d.ProcessStereo(left, right)

	// Skip the attack transient before measuring.
	outRMS := blockRMS(left[8820:])
	if outRMS >= inRMS*0.9 {
		t.Errorf("output RMS %v not meaningfully below input RMS %v", outRMS, inRMS)
	}

	// Stereo-linked: both channels see the identical gain trace.
	for i := range left {
		if math.Abs(left[i]-right[i]) > 1e-12 {
			t.Fatal("stereo channels diverged under shared detector")
		}
	}
}

func TestUnityRatioIsBypass(t *testing.T) {
	d := NewDynamics(44100, -40, 1, 0.001, 0.05)

	left := sineBlock(440, 44100, 0.9, 4096)
	right := append([]float64(nil), left...)
	want := append([]float64(nil), left...)

	d.ProcessStereo(left, right)
	for i := range left {
		if math.Abs(left[i]-want[i]) > 1e-9 {
			t.Fatalf("ratio 1 altered sample %d", i)
		}
	}
}

func TestLimiterCharacter(t *testing.T) {
	l := NewLimiter(48000, -1.0)
	if l.Ratio() != 20 {
		t.Errorf("limiter ratio = %v, want 20", l.Ratio())
	}
	if l.Attack() != 0.001 {
		t.Errorf("limiter attack = %v, want 1ms", l.Attack())
	}
	if l.Release() != 0.1 {
		t.Errorf("limiter release = %v, want 100ms", l.Release())
	}
	if l.Threshold() != -1.0 {
		t.Errorf("limiter threshold = %v, want ceiling", l.Threshold())
	}
}

func TestLimiterHoldsCeiling(t *testing.T) {
	l := NewLimiter(44100, -6)

	left := sineBlock(440, 44100, 1.0, 44100)
	right := append([]float64(nil), left...)
	l.ProcessStereo(left, right)

	// After settling, peaks should sit near the -6 dB ceiling; with 20:1
	// a 6 dB overshoot leaves about 0.3 dB above it.
	peak := 0.0
	for _, v := range left[22050:] {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	ceilingLin := DbToLinear(-6)
	if peak > ceilingLin*DbToLinear(1.0) {
		t.Errorf("settled peak %v exceeds ceiling %v by more than 1 dB", peak, ceilingLin)
	}
}
