package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Metadata contains audio file metadata.
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	BitDepth   int
}

// LoadWAV decodes a PCM WAV file into a Buffer. Compressed formats are an
// external decoder concern; anything go-audio cannot decode is rejected
// before it reaches the processing chain.
func LoadWAV(filename string) (*Buffer, *Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, nil, fmt.Errorf("not a decodable WAV file: %s", filename)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	buf, err := fromIntBuffer(pcm, bitDepth)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filename, err)
	}

	meta := &Metadata{
		Duration:   buf.Duration(),
		SampleRate: buf.SampleRate,
		Channels:   buf.NumChannels(),
		BitDepth:   bitDepth,
	}
	return buf, meta, nil
}

// fromIntBuffer converts go-audio's interleaved integer PCM into per-channel
// floats scaled to [-1, 1].
func fromIntBuffer(pcm *goaudio.IntBuffer, bitDepth int) (*Buffer, error) {
	if pcm == nil || pcm.Format == nil || pcm.Format.NumChannels == 0 {
		return nil, fmt.Errorf("no audio stream found")
	}
	channels := pcm.Format.NumChannels
	frames := len(pcm.Data) / channels
	buf := NewBuffer(pcm.Format.SampleRate, channels, frames)

	scale := 1.0 / float64(int(1)<<(bitDepth-1))
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			buf.Channels[ch][frame] = float64(pcm.Data[frame*channels+ch]) * scale
		}
	}
	return buf, nil
}
