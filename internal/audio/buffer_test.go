package audio

import "testing"

func TestBufferShape(t *testing.T) {
	buf := NewBuffer(44100, 2, 441)
	if buf.NumChannels() != 2 {
		t.Errorf("channels = %d, want 2", buf.NumChannels())
	}
	if buf.Frames() != 441 {
		t.Errorf("frames = %d, want 441", buf.Frames())
	}
	if got := buf.Duration(); got != 0.01 {
		t.Errorf("duration = %g, want 0.01", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	buf := NewBuffer(44100, 2, 4)
	buf.Channels[0][0] = 0.5
	clone := buf.Clone()
	clone.Channels[0][0] = -0.5
	if buf.Channels[0][0] != 0.5 {
		t.Error("clone shares sample storage with the original")
	}
}

func TestStereoPairMono(t *testing.T) {
	mono := NewBuffer(44100, 1, 8)
	mono.Channels[0][3] = 0.25
	left, right := mono.StereoPair()
	if &left[0] != &right[0] {
		t.Error("mono buffer should serve the same slice on both sides")
	}
	if right[3] != 0.25 {
		t.Error("mono samples not visible through the right side")
	}
}

func TestStereoPairIgnoresExtraChannels(t *testing.T) {
	multi := NewBuffer(48000, 4, 8)
	multi.Channels[1][0] = 0.5
	_, right := multi.StereoPair()
	if right[0] != 0.5 {
		t.Error("right side should be channel 1")
	}
}
