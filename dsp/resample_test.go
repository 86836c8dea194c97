package dsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmradio.dev/sdr/dsp"
	"fmradio.dev/sdr/engine"
)

type float32Source struct {
	values  []float32
	emitted int
	spec    engine.PortSpec
}

func (s *float32Source) IsSource()                  {}
func (s *float32Source) Inputs() []engine.PortSpec  { return nil }
func (s *float32Source) Outputs() []engine.PortSpec { return []engine.PortSpec{s.spec} }
func (s *float32Source) Reset()                     { s.emitted = 0 }

func (s *float32Source) Process(ins []engine.InputView, outs []engine.OutputView) error {
	out := outs[0].Float32()
	take := len(out)
	if s.emitted+take > len(s.values) {
		take = len(s.values) - s.emitted
	}
	copy(out[:take], s.values[s.emitted:s.emitted+take])
	outs[0].Advance(take)
	s.emitted += take
	if take == 0 {
		return engine.NewAbortedError("float32Source exhausted")
	}
	return nil
}

type recordingSink struct {
	got  []float32
	spec engine.PortSpec
}

func (s *recordingSink) IsSink()                   {}
func (s *recordingSink) Inputs() []engine.PortSpec  { return []engine.PortSpec{s.spec} }
func (s *recordingSink) Outputs() []engine.PortSpec { return nil }
func (s *recordingSink) Reset()                     { s.got = s.got[:0] }

func (s *recordingSink) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	s.got = append(s.got, in...)
	ins[0].Advance(len(in))
	return nil
}

// TestResamplerDoublesSampleCount feeds a ramp through a 1:2 resampler and
// checks the output is roughly twice the input length and monotonically
// increasing like the source ramp it's interpolating.
func TestResamplerDoublesSampleCount(t *testing.T) {
	const n = 256
	in := make([]float32, n)
	for i := range in {
		in[i] = float32(i)
	}

	g := engine.NewGraph(0)
	src := &float32Source{values: in, spec: engine.PortSpec{Kind: engine.KindFloat32, SuggestedBatch: 32}}
	res := dsp.NewResampler(1, 2)
	sink := &recordingSink{spec: engine.PortSpec{Kind: engine.KindFloat32, SuggestedBatch: 32}}

	hSrc := g.AddStage("src", src)
	hRes := g.AddStage("resample", res)
	hSink := g.AddStage("sink", sink)
	require.NoError(t, g.Connect(hSrc, 0, hRes, 0))
	require.NoError(t, g.Connect(hRes, 0, hSink, 0))

	p, err := engine.Build(g)
	require.NoError(t, err)
	err = p.Run()
	require.Error(t, err)

	// Every doubled sample alternates between an exact input value and the
	// (equal-neighbor) interpolated midpoint, so output strictly increases.
	require.Greater(t, len(sink.got), n)
	for i := 1; i < len(sink.got); i++ {
		assert.GreaterOrEqual(t, sink.got[i], sink.got[i-1])
	}
}
