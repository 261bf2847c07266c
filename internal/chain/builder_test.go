package chain

import (
	"testing"

	"github.com/soundpress/masterchain/internal/params"
)

func buildManual(t *testing.T) (*Graph, *params.ParameterSet) {
	t.Helper()
	set := params.Manual()
	return Build(NewRenderContext(44100), &set), &set
}

func TestBuildStageOrder(t *testing.T) {
	g, _ := buildManual(t)
	want := []StageKind{}
	for i := 0; i < params.EQBandCount; i++ {
		want = append(want, StageFilter)
	}
	want = append(want,
		StageFilter, StageFilter, // dynamic bass, body
		StageWaveshaper, StageDynamics, StageReverbSend,
		StageFilter, StageMidSide, StageGain,
		StageWaveshaper, StageDynamics, StageMeter)

	stages := g.Stages()
	if len(stages) != len(want) {
		t.Fatalf("stage count = %d, want %d", len(stages), len(want))
	}
	for i, s := range stages {
		if s.Kind() != want[i] {
			t.Errorf("stage %d = %s, want %s", i, s.Kind(), want[i])
		}
	}
}

func TestBuildEQOrderingAndShapes(t *testing.T) {
	set := params.Manual()
	// Scramble band order; the builder must sort by frequency, not index.
	set.EQ[0], set.EQ[13] = set.EQ[13], set.EQ[0]
	set.EQ[3], set.EQ[7] = set.EQ[7], set.EQ[3]

	g := Build(NewRenderContext(44100), &set)
	prev := 0.0
	for i, f := range g.eq {
		if f.Frequency() <= prev {
			t.Errorf("band %d frequency %g not ascending after %g", i, f.Frequency(), prev)
		}
		prev = f.Frequency()

		want := ShapePeaking
		switch i {
		case 0:
			want = ShapeLowShelf
		case len(g.eq) - 1:
			want = ShapeHighShelf
		}
		if f.Shape() != want {
			t.Errorf("band %d shape = %s, want %s", i, f.Shape(), want)
		}
	}
}

func TestDetachIsIdempotentAndSilencesStages(t *testing.T) {
	g, _ := buildManual(t)
	stages := g.Stages()
	g.Detach()
	g.Detach()
	if got := g.Stages(); len(got) != 0 {
		t.Fatalf("detached graph still exposes %d stages", len(got))
	}

	// A detached stage passes audio through untouched.
	left := make([]float64, DefaultBlockSize)
	right := make([]float64, DefaultBlockSize)
	left[0], right[0] = 0.5, -0.5
	for _, s := range stages {
		s.Process(left, right)
	}
	if left[0] != 0.5 || right[0] != -0.5 {
		t.Errorf("detached stages altered signal: %g/%g", left[0], right[0])
	}
}

func TestNeedsRebuildOnDecayChange(t *testing.T) {
	g, set := buildManual(t)

	same := set.Clone()
	same.Reverb.Decay += 0.005
	if g.NeedsRebuild(&same) {
		t.Error("decay change within tolerance should not force a rebuild")
	}

	moved := set.Clone()
	moved.Reverb.Decay += 0.5
	if !g.NeedsRebuild(&moved) {
		t.Error("decay change past tolerance must force a rebuild")
	}
}

func TestUpdateRetargetsStages(t *testing.T) {
	set := params.Manual()
	g := Build(NewRealtimeContext(44100), &set)

	next := set.Clone()
	next.MasterGain = 0.5
	next.Saturation = 0.3
	next.StereoWidth = 0.2
	next.Compressor.Threshold = -18
	next.Compressor.Ratio = 3
	g.Update(&next)

	if got := g.masterGain.gain.Target(); got != 1.5 {
		t.Errorf("master gain target = %g, want 1.5", got)
	}
	if got := g.saturation.Amount(); got != 0.3 {
		t.Errorf("saturation amount = %g, want 0.3 (curve swaps are immediate)", got)
	}
	if got := g.midSide.width.Target(); got != 0.2 {
		t.Errorf("width target = %g, want 0.2", got)
	}
	if got := g.compressor.threshold.Target(); got != -18 {
		t.Errorf("threshold target = %g, want -18", got)
	}
}
