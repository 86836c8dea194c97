package fm

import (
	"math"
	"math/cmplx"

	"code.hybscloud.com/atomix"

	"fmradio.dev/sdr/dsp"
	"fmradio.dev/sdr/engine"
)

// PilotPLL tracks the 19kHz stereo pilot tone directly in the real-valued
// composite signal. Unlike PLL (which demodulates a complex baseband FM
// carrier with an arg() phase detector), the pilot is a real passband tone
// already mixed down by the FM demodulator, so PilotPLL uses the
// multiplier phase detector a hardware PLL chip applies to a real
// sinusoid: err = composite * sin(phi), the quadrature component of the
// tracked reference times the input. The same second-order loop filter as
// PLL (dsp.PLLCoefficients) integrates that error into phase/frequency;
// the output is the complex reference exp(i*phi) that StereoExtractor and
// rds.BasebandExtract multiply by integer frequency ratios to recover
// their respective subcarriers.
type PilotPLL struct {
	coef dsp.PLLCoefficients

	phase     float64
	frequency float64
}

// NewPilotPLL builds a pilot tracking loop with the given loop bandwidth
// (radians/sample) and damping.
func NewPilotPLL(loopBandwidth, damping float64) *PilotPLL {
	return &PilotPLL{coef: dsp.NewPLLCoefficients(loopBandwidth, damping)}
}

func (p *PilotPLL) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 1024}}
}

func (p *PilotPLL) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindComplex64, SuggestedBatch: 1024}}
}

func (p *PilotPLL) Reset() {
	p.phase = 0
	p.frequency = 0
}

func (p *PilotPLL) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	out := outs[0].Complex64()

	n := len(in)
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		err := float64(in[i]) * math.Sin(p.phase)

		p.frequency += p.coef.Beta * err
		p.phase = dsp.WrapPhase(p.phase + p.frequency + p.coef.Alpha*err)

		out[i] = complex64(cmplx.Exp(complex(0, p.phase)))
	}

	ins[0].Advance(n)
	outs[0].Advance(n)
	return nil
}

// StereoExtractor multiplies the composite demodulated audio by a doubled
// -frequency pilot reference (cos(2*pilot_phase)) to recover the baseband
// L-R difference signal, per 4.G.
type StereoExtractor struct {
	pilotPhase float64 // radians/sample increment tracked externally via PilotPLL
}

func NewStereoExtractor() *StereoExtractor { return &StereoExtractor{} }

func (s *StereoExtractor) Inputs() []engine.PortSpec {
	return []engine.PortSpec{
		{Kind: engine.KindComplex64, SuggestedBatch: 1024}, // pilot-locked reference
		{Kind: engine.KindFloat32, SuggestedBatch: 1024},   // composite demodulated audio
	}
}

func (s *StereoExtractor) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 1024}}
}

func (s *StereoExtractor) Reset() {}

func (s *StereoExtractor) Process(ins []engine.InputView, outs []engine.OutputView) error {
	pilot := ins[0].Complex64()
	composite := ins[1].Float32()
	out := outs[0].Float32()

	n := len(pilot)
	if len(composite) < n {
		n = len(composite)
	}
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		phi := cmplx.Phase(complex128(pilot[i]))
		ref := math.Cos(2 * phi)
		out[i] = composite[i] * float32(ref)
	}

	ins[0].Advance(n)
	ins[1].Advance(n)
	outs[0].Advance(n)
	return nil
}

// Demux combines mono M=(L+R)/2 with the stereo difference S=(L-R)/2 to
// emit left/right channels, per 4.G:
//
//	L = M + w*S
//	R = M - w*S
//
// w is an atomically updatable stereo weight in [0,1] so a supervisory
// stage (driven from the SNR estimator) can fade to mono without
// introducing a discontinuity visible to the audio worker's own Process
// loop. The weight is stored as IEEE-754 bits, zero-extended, in an
// atomix.Uint64 (the same cursor type engine.Channel uses) so reads and
// writes from different goroutines never tear.
type Demux struct {
	weight atomix.Uint64
}

// NewDemux creates a Demux with the stereo weight initialized to 1
// (full stereo).
func NewDemux() *Demux {
	d := &Demux{}
	d.SetWeight(1)
	return d
}

// SetWeight updates the stereo blend weight; w is clamped to [0,1].
func (d *Demux) SetWeight(w float32) {
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	d.weight.StoreRelease(uint64(math.Float32bits(w)))
}

// Weight returns the current stereo blend weight.
func (d *Demux) Weight() float32 {
	return math.Float32frombits(uint32(d.weight.LoadAcquire()))
}

func (d *Demux) Inputs() []engine.PortSpec {
	return []engine.PortSpec{
		{Kind: engine.KindFloat32, SuggestedBatch: 1024}, // M
		{Kind: engine.KindFloat32, SuggestedBatch: 1024}, // S
	}
}

func (d *Demux) Outputs() []engine.PortSpec {
	return []engine.PortSpec{
		{Kind: engine.KindFloat32, SuggestedBatch: 1024}, // L
		{Kind: engine.KindFloat32, SuggestedBatch: 1024}, // R
	}
}

func (d *Demux) Reset() { d.SetWeight(1) }

func (d *Demux) Process(ins []engine.InputView, outs []engine.OutputView) error {
	m := ins[0].Float32()
	s := ins[1].Float32()
	l := outs[0].Float32()
	r := outs[1].Float32()

	n := len(m)
	for _, sl := range [][]float32{s, l, r} {
		if len(sl) < n {
			n = len(sl)
		}
	}

	w := d.Weight()
	for i := 0; i < n; i++ {
		l[i] = m[i] + w*s[i]
		r[i] = m[i] - w*s[i]
	}

	ins[0].Advance(n)
	ins[1].Advance(n)
	outs[0].Advance(n)
	outs[1].Advance(n)
	return nil
}
