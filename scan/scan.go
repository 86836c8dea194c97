// Package scan implements the station finder (component J): it sweeps an
// sdr.Sdr's center frequency across a band, reading a short burst
// at each step and reporting which frequencies carry a signal whose SNR
// exceeds a threshold. Included, per the distilled spec, because it
// composes engine/dsp rather than introducing new core machinery.
package scan

import (
	"sort"

	"hz.tools/rf"
	"fmradio.dev/sdr"

	"fmradio.dev/sdr/dsp"
)

// Config describes one sweep.
type Config struct {
	// StartFrequency and StopFrequency bound the sweep, inclusive.
	StartFrequency, StopFrequency rf.Hz

	// UseSpectrumPercent is the fraction (0,100] of the sampling rate
	// used as the step size between consecutive center frequencies, so
	// steps overlap deliberately to avoid missing a station that sits
	// near the edge of one capture's usable bandwidth.
	UseSpectrumPercent float64

	// ReadingsPerSlot is how many SNR readings are averaged, via a
	// RunningSum at window Scale, before a step's frequency is judged.
	ReadingsPerSlot int
	Scale           int

	// SNRThreshold is the minimum averaged SNR a step must exceed to be
	// reported as a station.
	SNRThreshold float64

	// ReadBurst is invoked once per SNR reading to pull one batch of IQ
	// samples at the current center frequency and return a power-ratio
	// SNR estimate for that batch; the caller owns how that estimate is
	// computed (the receiver pipeline's own SNREstimator, typically).
	ReadBurst func(centerFreq rf.Hz) (snr float64, err error)
}

// Station is one frequency the sweep found with averaged SNR above the
// configured threshold.
type Station struct {
	Frequency rf.Hz
	SNR       float64
}

// FindStations sweeps t's center frequency per cfg and returns every step
// whose averaged SNR exceeded cfg.SNRThreshold, sorted by frequency
// ascending.
//
// Resolves open question (a): step/frequency bookkeeping here uses Go's
// native int (64-bit on every platform this module targets) rather than a
// fixed 32-bit width, which already exceeds the >= 1e5 dynamic range per
// reading the original's std::size_t headroom comment calls for at a sweep
// scale of 1e10 Hz.
func FindStations(t sdr.Sdr, cfg Config) ([]Station, error) {
	sampleRate, err := t.GetSampleRate()
	if err != nil {
		return nil, err
	}

	step := rf.Hz(float64(sampleRate) * cfg.UseSpectrumPercent / 100)
	if step <= 0 {
		step = rf.Hz(sampleRate)
	}

	var stations []Station
	for f := cfg.StartFrequency; f <= cfg.StopFrequency; f += step {
		if err := t.SetCenterFrequency(f); err != nil {
			return nil, err
		}

		running := dsp.NewRunningSum(cfg.Scale)
		for i := 0; i < cfg.ReadingsPerSlot; i++ {
			snr, err := cfg.ReadBurst(f)
			if err != nil {
				return nil, err
			}
			running.Add(snr)
		}

		avg := running.Avg()
		if avg > cfg.SNRThreshold {
			stations = append(stations, Station{Frequency: f, SNR: avg})
		}
	}

	sort.Slice(stations, func(i, j int) bool {
		return stations[i].Frequency < stations[j].Frequency
	})
	return stations, nil
}
