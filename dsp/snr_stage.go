package dsp

import "fmradio.dev/sdr/engine"

// SNRStage adapts SNREstimator onto engine.Stage as a Sink: like the RDS
// synchronizer, its real output (a occasional SNR reading driving, for
// instance, the stereo blend weight) isn't itself a sample stream, so it
// reports through a callback rather than an output port.
type SNRStage struct {
	est      *SNREstimator
	onUpdate func(snr float64)
}

// NewSNRStage builds a Sink stage taking paired signal-band/noise-band
// power samples and invoking onUpdate every time a fresh SNR value is
// computed (see SNREstimator.Update).
func NewSNRStage(windowSize, snrRate int, k float64, onUpdate func(snr float64)) *SNRStage {
	return &SNRStage{est: NewSNREstimator(windowSize, snrRate, k), onUpdate: onUpdate}
}

func (s *SNRStage) IsSink() {}

func (s *SNRStage) Inputs() []engine.PortSpec {
	return []engine.PortSpec{
		{Kind: engine.KindFloat32, SuggestedBatch: 256}, // signal-band power
		{Kind: engine.KindFloat32, SuggestedBatch: 256}, // noise-band power
	}
}

func (s *SNRStage) Outputs() []engine.PortSpec { return nil }

func (s *SNRStage) Reset() { s.est.Reset() }

func (s *SNRStage) Process(ins []engine.InputView, outs []engine.OutputView) error {
	sig := ins[0].Float32()
	noise := ins[1].Float32()

	n := len(sig)
	if len(noise) < n {
		n = len(noise)
	}

	for i := 0; i < n; i++ {
		if snr, fresh := s.est.Update(float64(sig[i]), float64(noise[i])); fresh && s.onUpdate != nil {
			s.onUpdate(snr)
		}
	}

	ins[0].Advance(n)
	ins[1].Advance(n)
	return nil
}
