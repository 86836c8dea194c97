package engine

// Reader is the minimal blocking-read capability a Source stage needs from
// an upstream sample provider. sdr.Reader (reading into an sdr.SamplesC64
// buffer) satisfies it once wrapped; kept minimal here so this package
// doesn't need to import the sdr package just for this one adapter.
type Reader interface {
	ReadComplex64(buf []complex64) (int, error)
}

// SDRSource is a Source stage that pulls complex64 baseband samples from a
// Reader (typically wrapping an sdr.Reader over a real or mock device) and
// pushes them onto its single output port. Process blocks on Reader.ReadComplex64,
// which is the one place in the graph blocking I/O is allowed, per the
// Source contract.
type SDRSource struct {
	r    Reader
	spec PortSpec
}

// NewSDRSource builds a Source stage reading from r with the given output
// batch size hint.
func NewSDRSource(r Reader, suggestedBatch int) *SDRSource {
	return &SDRSource{r: r, spec: PortSpec{Kind: KindComplex64, SuggestedBatch: suggestedBatch}}
}

func (s *SDRSource) IsSource() {}

func (s *SDRSource) Inputs() []PortSpec  { return nil }
func (s *SDRSource) Outputs() []PortSpec { return []PortSpec{s.spec} }
func (s *SDRSource) Reset()              {}

func (s *SDRSource) Process(ins []InputView, outs []OutputView) error {
	out := outs[0].Complex64()
	n, err := s.r.ReadComplex64(out)
	outs[0].Advance(n)
	if err != nil {
		return NewIOError(0, err.Error())
	}
	if n == 0 {
		return NewAbortedError("source exhausted")
	}
	return nil
}
