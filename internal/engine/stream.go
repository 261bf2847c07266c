package engine

import (
	"io"
	"sync"

	"github.com/soundpress/masterchain/internal/audio"
	"github.com/soundpress/masterchain/internal/chain"
)

// stream pulls blocks from the source buffer through the graph and serves
// them as interleaved 16-bit little-endian stereo PCM. The playback host
// reads from its own goroutine, so the graph handle is swapped under a lock
// when the transport rebuilds.
type stream struct {
	mu    sync.Mutex
	buf   *audio.Buffer
	graph *chain.Graph
	pos   int // next source frame
	done  bool

	left    []float64
	right   []float64
	pending []byte
}

func newStream(buf *audio.Buffer, graph *chain.Graph, offsetFrames int) *stream {
	if offsetFrames < 0 {
		offsetFrames = 0
	}
	if offsetFrames > buf.Frames() {
		offsetFrames = buf.Frames()
	}
	return &stream{
		buf:   buf,
		graph: graph,
		pos:   offsetFrames,
		left:  make([]float64, chain.DefaultBlockSize),
		right: make([]float64, chain.DefaultBlockSize),
	}
}

// setGraph swaps the processing graph mid-stream.
func (s *stream) setGraph(g *chain.Graph) {
	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()
}

// stop makes all further reads return io.EOF.
func (s *stream) stop() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// Read implements io.Reader for the playback host.
func (s *stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			if !s.fillBlock() {
				s.done = true
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
		}
		c := copy(p[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	return n, nil
}

// fillBlock processes the next source block into pending bytes. It returns
// false once the source is exhausted.
func (s *stream) fillBlock() bool {
	frames := s.buf.Frames()
	if s.pos >= frames {
		return false
	}
	srcL, srcR := s.buf.StereoPair()
	block := len(s.left)
	n := frames - s.pos
	if n > block {
		n = block
	}
	copy(s.left[:n], srcL[s.pos:s.pos+n])
	copy(s.right[:n], srcR[s.pos:s.pos+n])
	for i := n; i < block; i++ {
		s.left[i], s.right[i] = 0, 0
	}
	s.pos += n

	s.graph.Process(s.left, s.right)

	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		putSample(out[i*4:], s.left[i])
		putSample(out[i*4+2:], s.right[i])
	}
	s.pending = out
	return true
}

func putSample(b []byte, v float64) {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	s := int16(v * 32767)
	b[0] = byte(s)
	b[1] = byte(s >> 8)
}
