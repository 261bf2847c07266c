package dsp

import "gonum.org/v1/gonum/dsp/fourier"

// Convolver convolves a signal with a fixed impulse response using uniformly
// partitioned FFT convolution: the impulse is split into block-sized
// partitions transformed once up front, and each input block is multiplied
// against the partition spectra through a frequency-domain delay line. This
// keeps per-block cost low enough for multi-second reverb tails.
type Convolver struct {
	blockSize int
	fftSize   int
	fft       *fourier.FFT

	partitions [][]complex128 // impulse partition spectra, oldest-lag last
	history    [][]complex128 // input block spectra ring, newest at writePos
	writePos   int

	acc     []complex128
	scratch []float64
	overlap []float64
}

// NewConvolver prepares a convolver for the given mono impulse response and
// processing block size. An empty impulse yields silence.
func NewConvolver(impulse []float64, blockSize int) *Convolver {
	fftSize := blockSize * 2
	c := &Convolver{
		blockSize: blockSize,
		fftSize:   fftSize,
		fft:       fourier.NewFFT(fftSize),
		acc:       make([]complex128, blockSize+1),
		scratch:   make([]float64, fftSize),
		overlap:   make([]float64, blockSize),
	}

	numParts := (len(impulse) + blockSize - 1) / blockSize
	if numParts == 0 {
		numParts = 1
	}
	c.partitions = make([][]complex128, numParts)
	c.history = make([][]complex128, numParts)
	padded := make([]float64, fftSize)
	for p := 0; p < numParts; p++ {
		for i := range padded {
			padded[i] = 0
		}
		start := p * blockSize
		end := start + blockSize
		if end > len(impulse) {
			end = len(impulse)
		}
		if start < len(impulse) {
			copy(padded, impulse[start:end])
		}
		c.partitions[p] = c.fft.Coefficients(nil, padded)
		c.history[p] = make([]complex128, blockSize+1)
	}
	return c
}

// ProcessBlock convolves exactly blockSize samples from in into out.
// in and out may alias.
func (c *Convolver) ProcessBlock(in, out []float64) {
	// Transform the new input block, zero-padded to the FFT size.
	copy(c.scratch[:c.blockSize], in[:c.blockSize])
	for i := c.blockSize; i < c.fftSize; i++ {
		c.scratch[i] = 0
	}
	c.history[c.writePos] = c.fft.Coefficients(c.history[c.writePos], c.scratch)

	// Accumulate partition products: partition p pairs with the input block
	// that arrived p blocks ago.
	for i := range c.acc {
		c.acc[i] = 0
	}
	n := len(c.partitions)
	for p := 0; p < n; p++ {
		h := c.history[(c.writePos-p+n*2)%n]
		part := c.partitions[p]
		for i := range c.acc {
			c.acc[i] += h[i] * part[i]
		}
	}
	c.writePos = (c.writePos + 1) % n

	// Back to time domain; gonum's inverse is unnormalised.
	c.scratch = c.fft.Sequence(c.scratch, c.acc)
	scale := 1 / float64(c.fftSize)
	for i := 0; i < c.blockSize; i++ {
		out[i] = c.scratch[i]*scale + c.overlap[i]
	}
	for i := 0; i < c.blockSize; i++ {
		c.overlap[i] = c.scratch[c.blockSize+i] * scale
	}
}

// Reset clears the input history and overlap tail.
func (c *Convolver) Reset() {
	for _, h := range c.history {
		for i := range h {
			h[i] = 0
		}
	}
	for i := range c.overlap {
		c.overlap[i] = 0
	}
	c.writePos = 0
}
