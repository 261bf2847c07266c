// Package wavcodec implements the canonical 44-byte RIFF/WAVE export
// boundary: interleaved little-endian sample data at 16-bit or 24-bit
// integer PCM, or 32-bit IEEE float.
package wavcodec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/soundpress/masterchain/internal/audio"
)

// Format tags per the RIFF specification.
const (
	formatPCM   = 1
	formatFloat = 3
)

const headerSize = 44

// Encode writes the buffer as a WAV stream at the given bit depth. Supported
// depths are 16, 24 (integer PCM) and 32 (IEEE float). Float samples are
// written unscaled; integer depths scale ±1 to the full signed range and
// clamp anything beyond it.
func Encode(w io.Writer, buf *audio.Buffer, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("wavcodec: unsupported bit depth %d", bitDepth)
	}

	channels := buf.NumChannels()
	frames := buf.Frames()
	bytesPerSample := bitDepth / 8
	blockAlign := channels * bytesPerSample
	dataSize := frames * blockAlign

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	tag := formatPCM
	if bitDepth == 32 {
		tag = formatFloat
	}
	binary.LittleEndian.PutUint16(header[20:22], uint16(tag))
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(buf.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitDepth))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	if _, err := w.Write(header); err != nil {
		return err
	}

	data := make([]byte, dataSize)
	pos := 0
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			v := buf.Channels[c][f]
			switch bitDepth {
			case 16:
				s := scaleInt(v, 32767, 32768)
				binary.LittleEndian.PutUint16(data[pos:], uint16(int16(s)))
			case 24:
				s := scaleInt(v, 0x7FFFFF, 0x800000)
				data[pos] = byte(s)
				data[pos+1] = byte(s >> 8)
				data[pos+2] = byte(s >> 16)
			case 32:
				binary.LittleEndian.PutUint32(data[pos:], math.Float32bits(float32(v)))
			}
			pos += bytesPerSample
		}
	}
	_, err := w.Write(data)
	return err
}

// scaleInt maps v in [-1, 1] to a signed integer range, rounding to the
// nearest step and clamping outside the range. Positive values scale by the
// positive maximum and negative by the (one larger) negative maximum, so the
// decoder's mirror-image scaling keeps round-trip error within one quantum.
func scaleInt(v float64, posMax, negMax int32) int32 {
	if v >= 0 {
		s := int64(math.Round(v * float64(posMax)))
		if s > int64(posMax) {
			s = int64(posMax)
		}
		return int32(s)
	}
	s := int64(math.Round(v * float64(negMax)))
	if s < -int64(negMax) {
		s = -int64(negMax)
	}
	return int32(s)
}

// unscaleInt is the inverse of scaleInt's asymmetric mapping.
func unscaleInt(s, posMax, negMax int32) float64 {
	if s >= 0 {
		return float64(s) / float64(posMax)
	}
	return float64(s) / float64(negMax)
}

// Decode reads a WAV stream produced by Encode (or any plain 44-byte-header
// WAV at a supported depth) back into a float buffer.
func Decode(r io.Reader) (*audio.Buffer, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("wavcodec: reading header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wavcodec: not a RIFF/WAVE stream")
	}
	if string(header[36:40]) != "data" {
		return nil, fmt.Errorf("wavcodec: expected a plain data chunk at offset 36")
	}

	tag := int(binary.LittleEndian.Uint16(header[20:22]))
	channels := int(binary.LittleEndian.Uint16(header[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(header[24:28]))
	bitDepth := int(binary.LittleEndian.Uint16(header[34:36]))
	dataSize := int(binary.LittleEndian.Uint32(header[40:44]))
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("wavcodec: invalid format (%d channels, %d Hz)", channels, sampleRate)
	}

	bytesPerSample := bitDepth / 8
	switch {
	case tag == formatPCM && (bitDepth == 16 || bitDepth == 24):
	case tag == formatFloat && bitDepth == 32:
	default:
		return nil, fmt.Errorf("wavcodec: unsupported format tag %d at %d bits", tag, bitDepth)
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("wavcodec: reading samples: %w", err)
	}

	frames := dataSize / (channels * bytesPerSample)
	buf := audio.NewBuffer(sampleRate, channels, frames)
	pos := 0
	for f := 0; f < frames; f++ {
		for c := 0; c < channels; c++ {
			switch bitDepth {
			case 16:
				s := int16(binary.LittleEndian.Uint16(data[pos:]))
				buf.Channels[c][f] = unscaleInt(int32(s), 32767, 32768)
			case 24:
				s := int32(data[pos]) | int32(data[pos+1])<<8 | int32(data[pos+2])<<16
				if s&0x800000 != 0 {
					s -= 1 << 24
				}
				buf.Channels[c][f] = unscaleInt(s, 0x7FFFFF, 0x800000)
			case 32:
				bits := binary.LittleEndian.Uint32(data[pos:])
				buf.Channels[c][f] = float64(math.Float32frombits(bits))
			}
			pos += bytesPerSample
		}
	}
	return buf, nil
}
