// Package analysis computes the signal metrics the mastering assistant
// consumes: loudness proxies, crest factor, spectral flux and the per-band
// energy balance across the correction bands.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/soundpress/masterchain/internal/audio"
	"github.com/soundpress/masterchain/internal/params"
)

const (
	frameSize = 2048
	hopSize   = 1024

	// Band edges for the coarse energy split used by the width heuristics.
	lowBandHz = 250.0
	midBandHz = 4000.0
)

// Result is the metric snapshot one analysis pass produces.
type Result struct {
	RMS          float64
	CrestFactor  float64 // peak over RMS
	SpectralFlux float64 // mean frame-to-frame magnitude change, scaled
	LowEnergy    float64 // fraction of energy below 250 Hz
	MidEnergy    float64 // fraction of energy between 250 Hz and 4 kHz
	Balance      []float64
}

// ComputeMetrics analyzes the buffer in one pass. The buffer is downmixed to
// mono for spectral work; RMS and peak use all channels.
func ComputeMetrics(buf *audio.Buffer) Result {
	res := Result{Balance: make([]float64, params.EQBandCount)}
	frames := buf.Frames()
	if frames == 0 {
		return res
	}

	sumSq, peak := 0.0, 0.0
	for _, ch := range buf.Channels {
		for _, v := range ch {
			sumSq += v * v
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}
	res.RMS = math.Sqrt(sumSq / float64(frames*buf.NumChannels()))
	if res.RMS > 0 {
		res.CrestFactor = peak / res.RMS
	}

	mono := make([]float64, frames)
	left, right := buf.StereoPair()
	for i := range mono {
		mono[i] = 0.5 * (left[i] + right[i])
	}

	fft := fourier.NewFFT(frameSize)
	window := make([]float64, frameSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(frameSize-1)))
	}

	binHz := float64(buf.SampleRate) / float64(frameSize)
	bandEnergy := make([]float64, params.EQBandCount)
	lowSum, midSum, totalSum := 0.0, 0.0, 0.0
	var prev []float64
	fluxSum, fluxFrames := 0.0, 0

	frame := make([]float64, frameSize)
	for start := 0; start+frameSize <= frames; start += hopSize {
		for i := 0; i < frameSize; i++ {
			frame[i] = mono[start+i] * window[i]
		}
		coeffs := fft.Coefficients(nil, frame)

		mags := make([]float64, len(coeffs))
		for i, c := range coeffs {
			m := math.Hypot(real(c), imag(c))
			mags[i] = m

			hz := float64(i) * binHz
			e := m * m
			totalSum += e
			if hz < lowBandHz {
				lowSum += e
			} else if hz < midBandHz {
				midSum += e
			}
			bandEnergy[nearestBand(hz)] += e
		}

		if prev != nil {
			flux := 0.0
			for i := range mags {
				if d := mags[i] - prev[i]; d > 0 {
					flux += d
				}
			}
			fluxSum += flux
			fluxFrames++
		}
		prev = mags
	}

	if totalSum > 0 {
		res.LowEnergy = lowSum / totalSum
		res.MidEnergy = midSum / totalSum
	}
	if fluxFrames > 0 {
		res.SpectralFlux = fluxSum / float64(fluxFrames)
	}

	maxBand := 0.0
	for _, e := range bandEnergy {
		if e > maxBand {
			maxBand = e
		}
	}
	if maxBand > 0 {
		for i, e := range bandEnergy {
			res.Balance[i] = e / maxBand
		}
	}
	return res
}

// nearestBand maps a frequency to the closest correction band index.
func nearestBand(hz float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, f := range params.EQBandFrequencies {
		if d := math.Abs(math.Log(hz+1) - math.Log(f)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
