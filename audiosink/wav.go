// Package audiosink implements the receiver's audio output stage: a WAV
// file sink taking one or two float32 channels and writing interleaved
// 16-bit PCM, grounded on ik5-audpbx's formats/wav decoder (the inverse
// operation, reading 16-bit PCM into float32) generalized to writing, and
// built on github.com/go-audio/wav for the container/encoding itself
// rather than hand-rolling RIFF chunk framing the way that reference
// decoder does for reads.
package audiosink

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"fmradio.dev/sdr/engine"
)

const maxInt16 = 32767

// WAVSink is a Sink stage writing one (mono) or two (stereo) float32 input
// channels to a WAV file as interleaved 16-bit PCM.
type WAVSink struct {
	enc      *wav.Encoder
	channels int
	buf      *audio.IntBuffer
}

// NewWAVSink wraps w as a mono or stereo WAV sink at sampleRate. Close must
// be called (it implements engine.Closer) to flush the WAV header with the
// final sample count.
func NewWAVSink(w io.WriteSeeker, sampleRate int, channels int) *WAVSink {
	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)
	return &WAVSink{
		enc:      enc,
		channels: channels,
		buf: &audio.IntBuffer{
			Format: &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		},
	}
}

func (s *WAVSink) IsSink() {}

func (s *WAVSink) Inputs() []engine.PortSpec {
	ports := make([]engine.PortSpec, s.channels)
	for i := range ports {
		ports[i] = engine.PortSpec{Kind: engine.KindFloat32, SuggestedBatch: 4096}
	}
	return ports
}

func (s *WAVSink) Outputs() []engine.PortSpec { return nil }

func (s *WAVSink) Reset() {}

func (s *WAVSink) Process(ins []engine.InputView, outs []engine.OutputView) error {
	n := ins[0].Len()
	for _, in := range ins[1:] {
		if in.Len() < n {
			n = in.Len()
		}
	}
	if n == 0 {
		return nil
	}

	samples := make([]int, n*s.channels)
	for ch, in := range ins {
		data := in.Float32()
		for i := 0; i < n; i++ {
			samples[i*s.channels+ch] = clampToInt16(data[i])
		}
	}
	s.buf.Data = samples

	if err := s.enc.Write(s.buf); err != nil {
		return engine.NewIOError(0, err.Error())
	}

	for _, in := range ins {
		in.Advance(n)
	}
	return nil
}

// Close flushes the WAV encoder's header with the final frame count.
func (s *WAVSink) Close() error {
	return s.enc.Close()
}

func clampToInt16(v float32) int {
	f := v * maxInt16
	if f > maxInt16 {
		f = maxInt16
	}
	if f < -maxInt16-1 {
		f = -maxInt16 - 1
	}
	return int(f)
}
