// Package receiver wires the FM/RDS dataflow graph described by the data
// flow section: an SDR source feeds the carrier PLL, whose output fans out
// to a mono de-emphasis/resample branch, a stereo extractor/demux/
// de-emphasis branch, and an RDS Costas-loop/symbol-sampler/differential-
// decoder/synchronizer branch. The audio branches end in WAVSink; the RDS
// branch ends in a caller-supplied callback receiving decoded groups.
package receiver

import (
	"io"

	"fmradio.dev/sdr"

	"fmradio.dev/sdr/audiosink"
	"fmradio.dev/sdr/dsp"
	"fmradio.dev/sdr/dsp/fm"
	"fmradio.dev/sdr/dsp/rds"
	"fmradio.dev/sdr/engine"
	"fmradio.dev/sdr/stream"
)

// readerAdapter satisfies engine.Reader by reading into an sdr.SamplesC64
// buffer and copying out the complex64 slice, bridging the sdr package's
// Samples abstraction to the engine's raw-slice Source contract.
type readerAdapter struct {
	r   sdr.Reader
	buf sdr.SamplesC64
}

func (a *readerAdapter) ReadComplex64(out []complex64) (int, error) {
	if cap(a.buf) < len(out) {
		a.buf = make(sdr.SamplesC64, len(out))
	}
	a.buf = a.buf[:len(out)]
	n, err := a.r.Read(a.buf)
	copy(out, a.buf[:n])
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

// Config describes one receiver instance.
type Config struct {
	SampleRate   float64
	AudioRate    float64
	Stereo       bool
	DeemphasisNA bool // true selects the 75us North America constant

	// InputGain, if non-zero and not 1, scales every IQ sample coming off
	// src before it reaches the dataflow graph -- useful for devices whose
	// driver doesn't already apply an AGC stage.
	InputGain float32

	// PhaseTrim, if non-zero, rotates every IQ sample coming off src by
	// this complex multiplier ahead of the graph -- corrects a fixed IQ
	// phase/gain imbalance left over from tuner calibration.
	PhaseTrim complex64

	// DecimationFactor, if greater than 1, decimates src by that factor
	// ahead of the graph (trading bandwidth for a lower engine sample
	// rate) before SampleRate below is reinterpreted as the decimated
	// rate for every downstream stage.
	DecimationFactor uint

	// OnRDSGroup, if non-nil, receives every decoded RDS group.
	OnRDSGroup func(rds.Group)
}

// Built holds the constructed pipeline plus the stages a caller typically
// wants a handle to after Build (to set the stereo weight from an SNR
// supervisor, or to read RDS decoding stats).
type Built struct {
	Pipeline *engine.Pipeline
	Demux    *fm.Demux         // nil if Config.Stereo is false
	RDS      *rds.SynchronizerStage // nil if OnRDSGroup is nil
}

// Build constructs the full dataflow graph reading from src and writing
// decoded audio to sink.
func Build(src sdr.Reader, sink io.WriteSeeker, cfg Config) (*Built, error) {
	g := engine.NewGraph(0)

	conditioned := src
	if cfg.InputGain != 0 && cfg.InputGain != 1 {
		conditioned = stream.Gain(conditioned, cfg.InputGain)
	}
	if cfg.PhaseTrim != 0 {
		rotated, err := stream.Multiply(conditioned, cfg.PhaseTrim)
		if err != nil {
			return nil, err
		}
		conditioned = rotated
	}

	sampleRate := cfg.SampleRate
	if cfg.DecimationFactor > 1 {
		decimated, err := stream.DecimateReader(conditioned, cfg.DecimationFactor)
		if err != nil {
			return nil, err
		}
		conditioned = decimated
		sampleRate = cfg.SampleRate / float64(cfg.DecimationFactor)
	}
	cfg.SampleRate = sampleRate

	source := engine.NewSDRSource(&readerAdapter{r: conditioned}, 4096)
	sourceHandle := g.AddStage("sdr-source", source)

	pll := fm.NewPLL(cfg.SampleRate, fm.DeltaFMaxBroadcast, 0.01, 0.707)
	pllHandle := g.AddStage("fm-pll", pll)
	if err := g.Connect(sourceHandle, 0, pllHandle, 0); err != nil {
		return nil, err
	}

	channels := 1
	if cfg.Stereo {
		channels = 2
	}

	// The pilot PLL is shared by the stereo extractor and the RDS baseband
	// extractor -- both recover a subcarrier (38kHz, 57kHz) by multiplying
	// the composite signal by an integer multiple of the same 19kHz
	// pilot-locked reference, so only one pilot-tracking stage needs
	// connecting to the demodulator output regardless of which branches
	// are enabled.
	var pilotHandle engine.Handle
	var havePilot bool
	var pilotErr error
	needPilot := func() engine.Handle {
		if !havePilot {
			pilot := fm.NewPilotPLL(0.001, 0.707)
			pilotHandle = g.AddStage("pilot-pll", pilot)
			pilotErr = g.Connect(pllHandle, 0, pilotHandle, 0)
			havePilot = true
		}
		return pilotHandle
	}

	var demux *fm.Demux
	var audioHandles [2]engine.Handle

	if !cfg.Stereo {
		deemph := newDeemphasis(cfg)
		deemphHandle := g.AddStage("deemphasis-mono", deemph)
		if err := g.Connect(pllHandle, 0, deemphHandle, 0); err != nil {
			return nil, err
		}
		resample := dspResampler(cfg)
		resampleHandle := g.AddStage("resample-mono", resample)
		if err := g.Connect(deemphHandle, 0, resampleHandle, 0); err != nil {
			return nil, err
		}
		audioHandles[0] = resampleHandle
	} else {
		pilotHandle := needPilot()
		if pilotErr != nil {
			return nil, pilotErr
		}

		extractor := fm.NewStereoExtractor()
		extractorHandle := g.AddStage("stereo-extractor", extractor)
		if err := g.Connect(pilotHandle, 0, extractorHandle, 0); err != nil {
			return nil, err
		}
		if err := g.Connect(pllHandle, 0, extractorHandle, 1); err != nil {
			return nil, err
		}

		demux = fm.NewDemux()
		demuxHandle := g.AddStage("stereo-demux", demux)
		if err := g.Connect(pllHandle, 0, demuxHandle, 0); err != nil {
			return nil, err
		}
		if err := g.Connect(extractorHandle, 0, demuxHandle, 1); err != nil {
			return nil, err
		}

		for ch := 0; ch < 2; ch++ {
			deemph := newDeemphasis(cfg)
			name := "deemphasis-l"
			if ch == 1 {
				name = "deemphasis-r"
			}
			deemphHandle := g.AddStage(name, deemph)
			if err := g.Connect(demuxHandle, ch, deemphHandle, 0); err != nil {
				return nil, err
			}
			resample := dspResampler(cfg)
			resampleHandle := g.AddStage(name+"-resample", resample)
			if err := g.Connect(deemphHandle, 0, resampleHandle, 0); err != nil {
				return nil, err
			}
			audioHandles[ch] = resampleHandle
		}
	}

	wavSink := audiosink.NewWAVSink(sink, int(cfg.AudioRate), channels)
	sinkHandle := g.AddStage("wav-sink", wavSink)
	for ch := 0; ch < channels; ch++ {
		if err := g.Connect(audioHandles[ch], 0, sinkHandle, ch); err != nil {
			return nil, err
		}
	}

	var rdsStage *rds.SynchronizerStage
	if cfg.OnRDSGroup != nil {
		pilotHandle := needPilot()
		if pilotErr != nil {
			return nil, pilotErr
		}

		baseband := rds.NewBasebandExtract(cfg.SampleRate)
		basebandHandle := g.AddStage("rds-baseband-extract", baseband)
		if err := g.Connect(pilotHandle, 0, basebandHandle, 0); err != nil {
			return nil, err
		}
		if err := g.Connect(pllHandle, 0, basebandHandle, 1); err != nil {
			return nil, err
		}

		costas := rds.NewCostasLoop(0.002, 0.707)
		costasHandle := g.AddStage("rds-costas", costas)
		if err := g.Connect(basebandHandle, 0, costasHandle, 0); err != nil {
			return nil, err
		}

		sampler := rds.NewSymbolSampler(cfg.SampleRate)
		samplerHandle := g.AddStage("rds-symbol-sampler", sampler)
		if err := g.Connect(costasHandle, 0, samplerHandle, 0); err != nil {
			return nil, err
		}

		diff := rds.NewDifferentialDecoder()
		diffHandle := g.AddStage("rds-differential-decoder", diff)
		if err := g.Connect(samplerHandle, 0, diffHandle, 0); err != nil {
			return nil, err
		}

		rdsStage = rds.NewSynchronizerStage(cfg.OnRDSGroup)
		rdsHandle := g.AddStage("rds-synchronizer", rdsStage)
		if err := g.Connect(diffHandle, 0, rdsHandle, 0); err != nil {
			return nil, err
		}
	}

	p, err := engine.Build(g)
	if err != nil {
		return nil, err
	}
	return &Built{Pipeline: p, Demux: demux, RDS: rdsStage}, nil
}

func newDeemphasis(cfg Config) *fm.Deemphasis {
	if cfg.DeemphasisNA {
		return fm.NewDeemphasisNorthAmerica(cfg.SampleRate)
	}
	return fm.NewDeemphasisEurope(cfg.SampleRate)
}

func dspResampler(cfg Config) *dsp.Resampler {
	return dsp.NewResampler(cfg.SampleRate, cfg.AudioRate)
}
