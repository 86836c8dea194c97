// Package fm implements the FM-specific dataflow stages: the carrier
// tracking PLL demodulator, the pilot-locked stereo extractor and
// demultiplexer, and the de-emphasis filter, grounded on hvylya's
// src/hvylya/filters/fm tree and generalized onto the engine.Stage
// contract.
package fm

import (
	"math"
	"math/cmplx"

	"fmradio.dev/sdr/dsp"
	"fmradio.dev/sdr/engine"
)

// DeltaFMaxBroadcast is the maximum frequency deviation of broadcast FM,
// used to derive the demodulator's output gain.
const DeltaFMaxBroadcast = 75_000

// PLL demodulates a complex baseband FM signal into a real-valued audio
// stream by tracking the instantaneous carrier phase with a second-order
// loop, per 4.F: a local reference r_n = exp(-i*phi) is mixed against the
// input, the resulting phase error drives the loop filter, and the error
// itself (scaled by fm_gain) is the demodulated output.
type PLL struct {
	sampleRate float64
	maxDeviation float64
	coef       dsp.PLLCoefficients

	phase     float64
	frequency float64

	fmGain float64
}

// NewPLL builds an FM PLL demodulator for a baseband stream sampled at
// sampleRate, tracking deviations up to maxDeviation (75kHz for broadcast
// FM), with the given loop bandwidth (radians/sample) and damping factor.
func NewPLL(sampleRate, maxDeviation, loopBandwidth, damping float64) *PLL {
	return &PLL{
		sampleRate:   sampleRate,
		maxDeviation: maxDeviation,
		coef:         dsp.NewPLLCoefficients(loopBandwidth, damping),
		fmGain:       float32GainOf(sampleRate, maxDeviation),
	}
}

func float32GainOf(sampleRate, maxDeviation float64) float64 {
	return sampleRate / (2 * math.Pi * maxDeviation)
}

func (p *PLL) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindComplex64, SuggestedBatch: 1024}}
}

func (p *PLL) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 1024}}
}

// Reset zeros phase and the loop's frequency state, matching a freshly
// constructed PLL.
func (p *PLL) Reset() {
	p.phase = 0
	p.frequency = 0
}

func (p *PLL) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Complex64()
	out := outs[0].Float32()

	n := len(in)
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		z := complex128(in[i])
		ref := cmplx.Exp(complex(0, -p.phase))
		e := cmplx.Phase(z * ref)

		p.frequency += p.coef.Beta * e
		p.phase = dsp.WrapPhase(p.phase + p.frequency + p.coef.Alpha*e)

		out[i] = float32(p.fmGain * e)
	}

	ins[0].Advance(n)
	outs[0].Advance(n)
	return nil
}
