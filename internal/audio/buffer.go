// Package audio provides the shared PCM buffer model and audio file I/O.
package audio

// Buffer holds decoded PCM audio as per-channel float64 sample slices.
// Samples are nominally in [-1, 1]; the processing chain may exceed that
// range internally before the limiter stage.
type Buffer struct {
	SampleRate int
	Channels   [][]float64 // [channel][frame]
}

// NewBuffer allocates a silent buffer with the given shape.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	ch := make([][]float64, channels)
	for i := range ch {
		ch[i] = make([]float64, frames)
	}
	return &Buffer{SampleRate: sampleRate, Channels: ch}
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{SampleRate: b.SampleRate, Channels: make([][]float64, len(b.Channels))}
	for i, ch := range b.Channels {
		out.Channels[i] = make([]float64, len(ch))
		copy(out.Channels[i], ch)
	}
	return out
}

// StereoPair returns left and right channel slices. Mono buffers return the
// same slice for both sides; extra channels beyond the first two are ignored.
func (b *Buffer) StereoPair() (left, right []float64) {
	switch len(b.Channels) {
	case 0:
		return nil, nil
	case 1:
		return b.Channels[0], b.Channels[0]
	default:
		return b.Channels[0], b.Channels[1]
	}
}
