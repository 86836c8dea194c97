package dsp

import "fmradio.dev/sdr/engine"

// Resampler converts a real-valued stream from one sample rate to another
// by linear interpolation between input samples at the fractional position
// the output rate demands -- the audio-rate equivalent of the teacher's
// stream.ResampleReader, simplified from an FFT-domain resample (overkill
// for the modest MPX-to-audio-rate ratios this receiver needs) down to a
// resampling kernel cheap enough to run per-sample in the dataflow engine.
type Resampler struct {
	inRate, outRate float64
	step            float64 // input samples advanced per output sample

	pos  float64 // fractional read position into the pending history
	prev float32
}

// NewResampler builds a resampler from inRate to outRate.
func NewResampler(inRate, outRate float64) *Resampler {
	return &Resampler{inRate: inRate, outRate: outRate, step: inRate / outRate}
}

func (r *Resampler) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, History: 1, SuggestedBatch: 1024}}
}

func (r *Resampler) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 1024}}
}

func (r *Resampler) Reset() {
	r.pos = 0
	r.prev = 0
}

// Process consumes as many input samples as needed to produce as many
// output samples as outs[0] has room for, interpolating linearly between
// consecutive input samples at each output's fractional source position.
func (r *Resampler) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	out := outs[0].Float32()

	if len(in) < 2 {
		ins[0].Advance(0)
		outs[0].Advance(0)
		return nil
	}

	produced := 0
	consumed := 0
	for produced < len(out) {
		i0 := int(r.pos)
		if i0+1 >= len(in) {
			break
		}
		frac := float32(r.pos - float64(i0))
		out[produced] = in[i0] + frac*(in[i0+1]-in[i0])
		produced++
		r.pos += r.step
	}

	consumed = int(r.pos)
	if consumed > len(in)-1 {
		consumed = len(in) - 1
	}
	r.pos -= float64(consumed)

	ins[0].Advance(consumed)
	outs[0].Advance(produced)
	return nil
}
