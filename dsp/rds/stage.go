package rds

import "fmradio.dev/sdr/engine"

// SynchronizerStage adapts Synchronizer onto the engine.Stage contract as
// a Sink: it has no output ports of its own because its real output, a
// stream of decoded Groups, isn't a numeric sample stream the engine's
// Channel type can carry. Instead it invokes onGroup synchronously from
// within Process for each frame it completes, the same "sink as the only
// place side effects happen" shape the audio and WAV sinks use for their
// own non-sample output.
type SynchronizerStage struct {
	sync    *Synchronizer
	onGroup func(Group)
}

// NewSynchronizerStage builds a Sink stage that decodes a recovered RDS bit
// stream and invokes onGroup for every completed 104-bit frame.
func NewSynchronizerStage(onGroup func(Group)) *SynchronizerStage {
	return &SynchronizerStage{sync: NewSynchronizer(), onGroup: onGroup}
}

func (s *SynchronizerStage) IsSink() {}

func (s *SynchronizerStage) Inputs() []engine.PortSpec {
	return []engine.PortSpec{{Kind: engine.KindFloat32, SuggestedBatch: 64}}
}

func (s *SynchronizerStage) Outputs() []engine.PortSpec { return nil }

func (s *SynchronizerStage) Reset() { s.sync.Reset() }

// Stats returns the underlying synchronizer's decoding statistics.
func (s *SynchronizerStage) Stats() Stats { return s.sync.Stats() }

func (s *SynchronizerStage) Process(ins []engine.InputView, outs []engine.OutputView) error {
	in := ins[0].Float32()
	for _, v := range in {
		if g, ok := s.sync.PushBit(Bit(v)); ok && s.onGroup != nil {
			s.onGroup(g)
		}
	}
	ins[0].Advance(len(in))
	return nil
}
