// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fmradio.dev/sdr/engine"
)

// TestChannelCapacityRoundsUpToPowerOfTwo covers the buffer sizing invariant:
// any requested capacity is rounded up to the next power of two.
func TestChannelCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	cases := map[int]int{
		1: 1, 2: 2, 3: 4, 5: 8, 9: 16, 1000: 1024, 1024: 1024,
	}
	for requested, want := range cases {
		ch := engine.NewChannel[float32](requested, 0)
		assert.Equal(t, want, ch.Capacity(), "requested %d", requested)
	}
}

// counterSource emits consecutive float32 values starting at zero, one
// SuggestedBatch-sized chunk at a time, until it has emitted n total.
type counterSource struct {
	n, emitted int
	out        engine.PortSpec
}

func (s *counterSource) IsSource()          {}
func (s *counterSource) Inputs() []engine.PortSpec  { return nil }
func (s *counterSource) Outputs() []engine.PortSpec { return []engine.PortSpec{s.out} }
func (s *counterSource) Reset()                     { s.emitted = 0 }

func (s *counterSource) Process(ins []engine.InputView, outs []engine.OutputView) error {
	out := outs[0].Float32()
	take := len(out)
	if s.emitted+take > s.n {
		take = s.n - s.emitted
	}
	for i := 0; i < take; i++ {
		out[i] = float32(s.emitted + i)
	}
	outs[0].Advance(take)
	s.emitted += take
	if take == 0 {
		return engine.NewAbortedError("counterSource exhausted")
	}
	return nil
}

// recordingSink copies every sample it is handed into a slice only its own
// worker goroutine touches, and signals done once it has seen want samples.
type recordingSink struct {
	got  []float32
	want int
	done chan struct{}
	in   engine.PortSpec
}

func (s *recordingSink) IsSink()                   {}
func (s *recordingSink) Inputs() []engine.PortSpec  { return []engine.PortSpec{s.in} }
func (s *recordingSink) Outputs() []engine.PortSpec { return nil }
func (s *recordingSink) Reset()                     { s.got = nil }

func (s *recordingSink) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	s.got = append(s.got, in...)
	ins[0].Advance(len(in))
	if s.done != nil && len(s.got) >= s.want {
		select {
		case s.done <- struct{}{}:
		default:
		}
	}
	return nil
}

// TestPipelineDeliversSamplesInOrder exercises properties 2 and 3: every
// sample the source emits reaches the sink exactly once, in order, and the
// pipeline's index bookkeeping is monotonic (no duplication, no gaps).
func TestPipelineDeliversSamplesInOrder(t *testing.T) {
	const total = 5000

	g := engine.NewGraph(0)
	src := &counterSource{n: total, out: engine.PortSpec{Kind: engine.KindFloat32, SuggestedBatch: 64}}
	sink := &recordingSink{
		in:   engine.PortSpec{Kind: engine.KindFloat32, SuggestedBatch: 64},
		want: total,
		done: make(chan struct{}, 1),
	}

	srcHandle := g.AddStage("counter", src)
	sinkHandle := g.AddStage("recorder", sink)
	assert.NoError(t, g.Connect(srcHandle, 0, sinkHandle, 0))

	p, err := engine.Build(g)
	assert.NoError(t, err)

	runDone := make(chan error, 1)
	go func() { runDone <- p.Run() }()

	<-sink.done
	p.Stop()
	<-runDone

	assert.Len(t, sink.got, total)
	for i, v := range sink.got {
		assert.Equal(t, float32(i), v)
	}
}

// TestStageResetIsBitIdentical covers property 4: Reset returns a Stage to
// the same observable state as a freshly constructed one.
func TestStageResetIsBitIdentical(t *testing.T) {
	s := &recordingSink{in: engine.PortSpec{Kind: engine.KindFloat32}}
	s.got = append(s.got, 1, 2, 3)
	s.Reset()
	assert.Empty(t, s.got)

	fresh := &recordingSink{in: engine.PortSpec{Kind: engine.KindFloat32}}
	assert.Equal(t, fresh.got, s.got)
}
