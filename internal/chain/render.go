package chain

import (
	log "github.com/sirupsen/logrus"

	"github.com/soundpress/masterchain/internal/audio"
	"github.com/soundpress/masterchain/internal/params"
)

// Render runs the buffer through the full mastering topology in one
// deterministic pass. Parameters are applied as static values at
// construction; no ramps engage, so identical settings and input always
// produce bit-identical output.
func Render(buf *audio.Buffer, set *params.ParameterSet) (*audio.Buffer, error) {
	if buf == nil || buf.Frames() == 0 {
		return nil, ErrNoBufferLoaded
	}
	ctx := NewRenderContext(buf.SampleRate)
	graph := Build(ctx, set)
	defer graph.Detach()

	frames := buf.Frames()
	block := ctx.BlockSize()
	log.WithFields(log.Fields{
		"frames":    frames,
		"blockSize": block,
	}).Debug("rendering")

	srcL, srcR := buf.StereoPair()
	out := audio.NewBuffer(buf.SampleRate, 2, frames)
	left := make([]float64, block)
	right := make([]float64, block)
	for pos := 0; pos < frames; pos += block {
		n := copy(left, srcL[pos:])
		copy(right, srcR[pos:])
		for i := n; i < block; i++ {
			left[i], right[i] = 0, 0
		}
		graph.Process(left, right)
		copy(out.Channels[0][pos:pos+n], left[:n])
		copy(out.Channels[1][pos:pos+n], right[:n])
	}
	return out, nil
}
