package rds

import (
	"math"
	"math/cmplx"

	"fmradio.dev/sdr/dsp"
	"fmradio.dev/sdr/engine"
)

// SubcarrierFrequency is the RDS subcarrier, three times the stereo pilot.
const SubcarrierFrequency = 57_000

// CostasLoop tracks the phase of the BPSK-modulated 57kHz RDS subcarrier,
// the same second-order tracking loop shape as dsp/fm.PLL (both trace back
// to hvylya's shared PllGenerator), specialized to a BPSK error detector:
// the sign of the in-phase component against the quadrature component,
// rather than the raw complex phase angle used for FM's wideband carrier.
type CostasLoop struct {
	coef dsp.PLLCoefficients

	phase     float64
	frequency float64
}

// NewCostasLoop builds a Costas loop for a baseband stream already mixed
// down to the subcarrier, with the given loop bandwidth (radians/sample)
// and damping.
func NewCostasLoop(loopBandwidth, damping float64) *CostasLoop {
	return &CostasLoop{coef: dsp.NewPLLCoefficients(loopBandwidth, damping)}
}

func (c *CostasLoop) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindComplex64, SuggestedBatch: 512}}
}

func (c *CostasLoop) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 512}}
}

func (c *CostasLoop) Reset() {
	c.phase = 0
	c.frequency = 0
}

// Process derotates each input sample by the tracked phase and outputs its
// in-phase component (the BPSK symbol value, still analog), driving the
// loop from the sign-based Costas error detector err = I*sign(Q)-Q*sign(I)
// generalized here to the real-imaginary product appropriate for a
// baseband (not bandpass) BPSK signal: err = I*Q / (|I|+|Q|), the product
// normalised by the sample's magnitude.
func (c *CostasLoop) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Complex64()
	out := outs[0].Float32()

	n := len(in)
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		ref := cmplx.Exp(complex(0, -c.phase))
		z := complex128(in[i]) * ref

		iComp := real(z)
		qComp := imag(z)
		err := iComp * sign(qComp) * math.Abs(qComp) / (math.Abs(iComp) + math.Abs(qComp) + 1e-20)

		c.frequency += c.coef.Beta * err
		c.phase = dsp.WrapPhase(c.phase + c.frequency + c.coef.Alpha*err)

		out[i] = float32(iComp)
	}

	ins[0].Advance(n)
	outs[0].Advance(n)
	return nil
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
