package rds

import "fmradio.dev/sdr/engine"

// SymbolRate is the RDS data rate: the subcarrier is BPSK modulated at
// 1187.5 symbols/second (half the 2375Hz biphase clock).
const SymbolRate = 1187.5

// SymbolSampler integrates the analog Costas-loop output over one symbol
// period and emits its sign, recovering one raw (still differentially
// encoded) bit per samplesPerSymbol input samples.
type SymbolSampler struct {
	samplesPerSymbol float64
	acc              float64
	count            float64
}

// NewSymbolSampler builds a sampler for a Costas-loop output stream at
// sampleRate.
func NewSymbolSampler(sampleRate float64) *SymbolSampler {
	return &SymbolSampler{samplesPerSymbol: sampleRate / SymbolRate}
}

func (s *SymbolSampler) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 512}}
}

func (s *SymbolSampler) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 64}}
}

func (s *SymbolSampler) Reset() {
	s.acc = 0
	s.count = 0
}

// Process integrate-and-dumps: it accumulates samples until it crosses a
// symbol boundary, then emits +1/-1 for the accumulated sign and carries
// any fractional remainder into the next symbol period.
func (s *SymbolSampler) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	out := outs[0].Float32()

	consumed := 0
	produced := 0
	for consumed < len(in) && produced < len(out) {
		s.acc += float64(in[consumed])
		s.count++
		consumed++
		if s.count >= s.samplesPerSymbol {
			v := float32(1)
			if s.acc < 0 {
				v = -1
			}
			out[produced] = v
			produced++
			s.acc = 0
			s.count -= s.samplesPerSymbol
		}
	}

	ins[0].Advance(consumed)
	outs[0].Advance(produced)
	return nil
}

// DifferentialDecoder recovers RDS data bits from the biphase-coded symbol
// stream: each output bit is the XOR of consecutive symbol signs, which is
// how RDS encodes 1/0 as a transition/no-transition rather than an
// absolute polarity (removing sensitivity to a 180 degree Costas-loop
// phase ambiguity).
type DifferentialDecoder struct {
	havePrev bool
	prev     bool // true = positive symbol
}

func NewDifferentialDecoder() *DifferentialDecoder { return &DifferentialDecoder{} }

func (d *DifferentialDecoder) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 64}}
}

func (d *DifferentialDecoder) Outputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 64}}
}

func (d *DifferentialDecoder) Reset() {
	d.havePrev = false
	d.prev = false
}

func (d *DifferentialDecoder) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	out := outs[0].Float32()

	n := len(in)
	if len(out) < n {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		cur := in[i] >= 0
		if !d.havePrev {
			d.prev = cur
			d.havePrev = true
			out[i] = 0
			continue
		}
		bit := float32(0)
		if cur != d.prev {
			bit = 1
		}
		out[i] = bit
		d.prev = cur
	}

	ins[0].Advance(n)
	outs[0].Advance(n)
	return nil
}

// Bit extracts a 0/1 int from a DifferentialDecoder output sample, the
// shape Synchronizer.PushBit expects.
func Bit(v float32) int {
	if v != 0 {
		return 1
	}
	return 0
}
