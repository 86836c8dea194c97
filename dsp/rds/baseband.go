package rds

import (
	"math"
	"math/cmplx"

	"fmradio.dev/sdr/engine"
)

// SubcarrierBandwidth is the one-pole low-pass bandwidth (Hz) applied after
// mixing the composite signal down to baseband around the 57kHz RDS
// subcarrier -- equivalent to a bandpass filter centered at 57kHz ahead of
// downconversion, narrow enough to reject the stereo pilot and L-R
// difference bands on either side while passing the ~2.4kHz-wide
// BPSK-modulated RDS signal.
const SubcarrierBandwidth = 2400

// BasebandExtract downconverts the real composite demodulated signal to a
// complex baseband stream centered on the 57kHz RDS subcarrier (three times
// the 19kHz stereo pilot), the "RDS baseband extract" stage the data flow
// places between the FM demodulator and the Costas loop. It mixes by the
// pilot-locked reference tripled in frequency (exp(-i*3*pilot_phase)), the
// same doubled/tripled-reference trick fm.StereoExtractor uses to recover
// the 38kHz stereo subcarrier from the 19kHz pilot, then low-pass filters
// each quadrature component with a single-pole IIR to reject everything
// outside the subcarrier band -- the bandpass-then-downconvert the data
// flow calls for, applied after mixing rather than before since a filter at
// baseband needs far fewer taps than one at the composite rate.
type BasebandExtract struct {
	alpha    float64
	lpI, lpQ float64
}

// NewBasebandExtract builds a baseband extractor for a composite signal
// sampled at sampleRate.
func NewBasebandExtract(sampleRate float64) *BasebandExtract {
	return &BasebandExtract{
		alpha: 1 - math.Exp(-2*math.Pi*SubcarrierBandwidth/sampleRate),
	}
}

func (b *BasebandExtract) Inputs() []engine.PortSpec {
	return []engine.PortSpec{
		{Kind: engine.KindComplex64, SuggestedBatch: 1024}, // pilot-locked reference
		{Kind: engine.KindFloat32, SuggestedBatch: 1024},   // composite demodulated audio
	}
}

func (b *BasebandExtract) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindComplex64, SuggestedBatch: 1024}}
}

func (b *BasebandExtract) Reset() {
	b.lpI, b.lpQ = 0, 0
}

func (b *BasebandExtract) Process(ins []engine.InputView, outs []engine.OutputView) error {
	pilot := ins[0].Complex64()
	composite := ins[1].Float32()
	out := outs[0].Complex64()

	n := len(pilot)
	if len(composite) < n {
		n = len(composite)
	}
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		phi := cmplx.Phase(complex128(pilot[i]))
		ref := cmplx.Exp(complex(0, -3*phi))
		mixed := complex128(composite[i]) * ref

		b.lpI += b.alpha * (real(mixed) - b.lpI)
		b.lpQ += b.alpha * (imag(mixed) - b.lpQ)

		out[i] = complex64(complex(b.lpI, b.lpQ))
	}

	ins[0].Advance(n)
	ins[1].Advance(n)
	outs[0].Advance(n)
	return nil
}
