// Command fm-receiver drives the FM/RDS dataflow graph against the built-in
// mock device (the only device it accepts), writing demodulated audio to a
// WAV file and logging RDS station info as it decodes.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"hz.tools/rf"
	"fmradio.dev/sdr"
	"fmradio.dev/sdr/debug"
	"fmradio.dev/sdr/mock"

	"fmradio.dev/sdr/dsp/rds"
	"fmradio.dev/sdr/engine"
	"fmradio.dev/sdr/receiver"
	"fmradio.dev/sdr/stream"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		device       = pflag.String("device", "mock", "SDR device to use: mock is the only built-in driver.")
		frequency    = pflag.Float64P("frequency", "f", 97.9e6, "Center frequency in Hz.")
		sampleRate   = pflag.Uint("sample-rate", 1_200_000, "SDR sample rate in Hz.")
		audioRate    = pflag.Uint("audio-rate", 48_000, "Output audio sample rate in Hz.")
		stereo       = pflag.Bool("stereo", true, "Decode stereo audio.")
		deemphasisNA = pflag.Bool("deemphasis-north-america", false, "Use the 75us North America de-emphasis time constant instead of the 50us Europe default.")
		rdsEnabled   = pflag.Bool("rds", true, "Decode and log RDS groups.")
		output       = pflag.StringP("output", "o", "out.wav", "Output WAV file path.")
		buildInfo    = pflag.Bool("build-info", false, "Print SIMD/sample-format build info and exit.")
		realtime     = pflag.Bool("realtime", false, "Throttle the source to real time instead of reading as fast as the device can produce samples.")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)

	if *buildInfo {
		info := debug.ReadBuildInfo()
		logger.Info("build info", "simd_enabled", info.SIMD.Enabled, "simd_backends", info.SIMD.Backends, "endianness", info.HostEndianness)
		return 0
	}

	if *device != "mock" {
		logger.Error("unsupported device; only mock is built in", "device", *device)
		return 1
	}

	src := mock.New(mock.Config{
		CenterFrequency: rf.Hz(*frequency),
		SampleRate:      *sampleRate,
		SampleFormat:    sdr.SampleFormatC64,
		Rx: func(sdr.Transceiver) (sdr.ReadCloser, error) {
			return nil, sdr.ErrNotSupported
		},
	})
	defer src.Close()

	if err := src.SetCenterFrequency(rf.Hz(*frequency)); err != nil {
		logger.Error("setting center frequency", "err", err)
		return 2
	}

	reader, err := src.StartRx()
	if err != nil {
		logger.Error("starting rx", "err", err)
		return 2
	}
	defer reader.Close()

	var rxReader sdr.Reader = reader
	if *realtime {
		throttled, err := stream.Throttle(rxReader)
		if err != nil {
			logger.Error("throttling source", "err", err)
			return 2
		}
		rxReader = throttled
	}

	outFile, err := os.Create(*output)
	if err != nil {
		logger.Error("creating output file", "err", err)
		return 2
	}
	defer outFile.Close()

	var info rds.ProgramInfo
	cfg := receiver.Config{
		SampleRate:   float64(*sampleRate),
		AudioRate:    float64(*audioRate),
		Stereo:       *stereo,
		DeemphasisNA: *deemphasisNA,
	}
	if *rdsEnabled {
		cfg.OnRDSGroup = func(g rds.Group) {
			rds.ParseGroup(g, &info)
			if info.PSNameComplete() {
				logger.Info("rds", "pi", fmt.Sprintf("%04X", info.PI), "ps", string(info.PSName[:]))
			}
		}
	}

	built, err := receiver.Build(rxReader, outFile, cfg)
	if err != nil {
		logger.Error("building pipeline", "err", err)
		return 1
	}

	runErr := make(chan error, 1)
	go func() { runErr <- built.Pipeline.Run() }()

	if err := <-runErr; err != nil {
		var ee *engine.Error
		if eerr, ok := err.(*engine.Error); ok {
			ee = eerr
		}
		if ee != nil && ee.Kind == engine.KindIO {
			logger.Error("pipeline stopped on I/O error", "err", ee)
			_ = built.Pipeline.Close()
			return 2
		}
		logger.Error("pipeline failed", "err", err)
		_ = built.Pipeline.Close()
		return 3
	}

	if err := built.Pipeline.Close(); err != nil {
		logger.Error("closing pipeline", "err", err)
		return 2
	}
	return 0
}
