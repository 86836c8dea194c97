package fm

import (
	"fmradio.dev/sdr/engine"
)

// Deemphasis is a single-pole IIR low-pass reversing the transmitter's
// pre-emphasis boost, per the data-flow description in the receiver
// section: mono and each stereo channel pass through one of these before
// the audio sink.
//
// Resolves the de-emphasis time constant open question: the constructors
// below default to 50us (Europe, CCIR) and expose 75us (North America,
// RCA) explicitly rather than hardcoding one.
type Deemphasis struct {
	alpha float64
	prev  float32
}

// TimeConstantEurope and TimeConstantNorthAmerica are the two time constants in use by FM broadcast
// standards worldwide.
const (
	TimeConstantEurope      = 50e-6
	TimeConstantNorthAmerica = 75e-6
)

// NewDeemphasis builds a de-emphasis filter for a stream sampled at
// sampleRate with the given RC time constant in seconds.
func NewDeemphasis(sampleRate, timeConstant float64) *Deemphasis {
	dt := 1 / sampleRate
	alpha := dt / (timeConstant + dt)
	return &Deemphasis{alpha: alpha}
}

// NewDeemphasisEurope builds a 50us de-emphasis filter, the CCIR/Europe
// broadcast standard.
func NewDeemphasisEurope(sampleRate float64) *Deemphasis {
	return NewDeemphasis(sampleRate, TimeConstantEurope)
}

// NewDeemphasisNorthAmerica builds a 75us de-emphasis filter, the
// North American broadcast standard.
func NewDeemphasisNorthAmerica(sampleRate float64) *Deemphasis {
	return NewDeemphasis(sampleRate, TimeConstantNorthAmerica)
}

func (d *Deemphasis) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, History: 1, SuggestedBatch: 1024}}
}

func (d *Deemphasis) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 1024}}
}

func (d *Deemphasis) Reset() { d.prev = 0 }

func (d *Deemphasis) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	out := outs[0].Float32()

	n := len(in)
	if len(out) < n {
		n = len(out)
	}

	y := d.prev
	for i := 0; i < n; i++ {
		y += float32(d.alpha) * (in[i] - y)
		out[i] = y
	}
	d.prev = y

	ins[0].Advance(n)
	outs[0].Advance(n)
	return nil
}
