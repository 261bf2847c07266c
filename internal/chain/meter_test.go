package chain

import (
	"math"
	"testing"
)

func feedSine(m *MeterStage, sampleRate int, freq float64, blocks int) {
	left := make([]float64, DefaultBlockSize)
	right := make([]float64, DefaultBlockSize)
	n := 0
	for b := 0; b < blocks; b++ {
		for i := range left {
			v := 0.8 * math.Sin(2*math.Pi*freq*float64(n)/float64(sampleRate))
			left[i], right[i] = v, v
			n++
		}
		m.Process(left, right)
	}
}

func TestMeterSpectrumShape(t *testing.T) {
	m := newMeterStage()
	if m.Bins() != 1024 {
		t.Fatalf("bins = %d, want 1024", m.Bins())
	}
	m.SetActive(true)
	feedSine(m, 44100, 1000, 8)

	spec := m.Spectrum()
	if len(spec) != 1024 {
		t.Fatalf("spectrum length = %d, want 1024", len(spec))
	}

	// The bin nearest 1 kHz should dominate a distant quiet bin.
	fftSize := float64(meterFFTSize)
	bin := int(1000 / (44100.0 / fftSize))
	if spec[bin] <= spec[900] {
		t.Errorf("tone bin %d (%d) not above noise floor bin (%d)", bin, spec[bin], spec[900])
	}
}

func TestMeterHoldsWhileInactive(t *testing.T) {
	m := newMeterStage()
	m.SetActive(true)
	feedSine(m, 44100, 1000, 8)
	before := m.Spectrum()

	m.SetActive(false)
	left := make([]float64, DefaultBlockSize)
	right := make([]float64, DefaultBlockSize)
	for i := range left {
		left[i], right[i] = 0.9, 0.9
	}
	m.Process(left, right)

	after := m.Spectrum()
	fftSize := float64(meterFFTSize)
	bin := int(1000 / (44100.0 / fftSize))
	if after[bin] < before[bin] {
		t.Errorf("inactive meter lost its tone bin: %d -> %d", before[bin], after[bin])
	}
}

func TestMeterPassesAudioThrough(t *testing.T) {
	m := newMeterStage()
	m.SetActive(true)
	left := []float64{0.25, -0.5}
	right := []float64{0.5, -0.25}
	m.Process(left, right)
	if left[0] != 0.25 || right[1] != -0.25 {
		t.Error("meter tap must not alter the signal")
	}
}
