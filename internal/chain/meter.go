package chain

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	meterFFTSize   = 2048
	meterBins      = meterFFTSize / 2
	meterSmoothing = 0.85
	meterFloorDB   = -100.0
	meterCeilDB    = -30.0
)

// MeterStage taps the final signal for spectrum display. It accumulates a
// mono mix into a ring, and Spectrum folds the most recent window through an
// FFT into byte-normalized magnitudes. The tap only refreshes while the
// transport marks it active; a paused meter holds its last picture.
type MeterStage struct {
	mu       sync.Mutex
	ring     []float64
	writePos int
	active   bool
	detached bool

	fft      *fourier.FFT
	window   []float64
	frame    []float64
	smoothed []float64
	bytes    []byte
}

func newMeterStage() *MeterStage {
	window := make([]float64, meterFFTSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(meterFFTSize-1)))
	}
	smoothed := make([]float64, meterBins)
	for i := range smoothed {
		smoothed[i] = meterFloorDB
	}
	return &MeterStage{
		ring:     make([]float64, meterFFTSize),
		fft:      fourier.NewFFT(meterFFTSize),
		window:   window,
		frame:    make([]float64, meterFFTSize),
		smoothed: smoothed,
		bytes:    make([]byte, meterBins),
	}
}

// Kind implements Stage.
func (s *MeterStage) Kind() StageKind { return StageMeter }

// Label implements Stage.
func (s *MeterStage) Label() string { return "meter" }

// SetActive controls whether Process feeds the ring.
func (s *MeterStage) SetActive(active bool) {
	s.mu.Lock()
	s.active = active
	s.mu.Unlock()
}

// Process implements Stage. The audio passes through untouched.
func (s *MeterStage) Process(left, right []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached || !s.active {
		return
	}
	for i := range left {
		s.ring[s.writePos] = 0.5 * (left[i] + right[i])
		s.writePos = (s.writePos + 1) % len(s.ring)
	}
}

// Bins returns the spectrum resolution.
func (s *MeterStage) Bins() int { return meterBins }

// Spectrum returns the smoothed magnitude spectrum of the most recent window
// as bytes, 0 at the display floor and 255 at the display ceiling.
func (s *MeterStage) Spectrum() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < meterFFTSize; i++ {
		s.frame[i] = s.ring[(s.writePos+i)%meterFFTSize] * s.window[i]
	}
	coeffs := s.fft.Coefficients(nil, s.frame)
	scale := 2.0 / float64(meterFFTSize)
	for i := 0; i < meterBins; i++ {
		mag := cmplxAbs(coeffs[i]) * scale
		db := meterFloorDB
		if mag > 0 {
			db = 20 * math.Log10(mag)
		}
		s.smoothed[i] = meterSmoothing*s.smoothed[i] + (1-meterSmoothing)*db
		norm := (s.smoothed[i] - meterFloorDB) / (meterCeilDB - meterFloorDB)
		if norm < 0 {
			norm = 0
		} else if norm > 1 {
			norm = 1
		}
		s.bytes[i] = byte(norm * 255)
	}
	out := make([]byte, meterBins)
	copy(out, s.bytes)
	return out
}

// Detach implements Stage.
func (s *MeterStage) Detach() {
	s.mu.Lock()
	s.detached = true
	s.mu.Unlock()
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
