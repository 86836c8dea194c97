package dsp

// SNREstimator tracks signal-to-noise ratio from two running sums of squared
// magnitude: one over the signal band, one over a displaced noise band of
// equal bandwidth, grounded on hvylya's FmSnrEstimator
// (src/hvylya/filters/fm/fm_snr_estimator.h), which holds exactly this pair
// of core::RunningSum<T> instances plus a noise_multiplier_ compensation
// term and an update-rate step counter.
//
// Every snrRate samples fed to Update, SNR emits
// (P_sig - k*P_noise) / (k*P_noise), clamped to >= 0. k corrects for the
// differing gain/bandwidth between whatever extracted the two bands
// upstream (the signal extractor and the displaced noise extractor rarely
// share identical filter gain).
type SNREstimator struct {
	powerSignal *RunningSum
	powerNoise  *RunningSum

	snrRate int
	step    int
	k       float64

	last float64
}

// NewSNREstimator creates an estimator averaging over windowSize samples,
// emitting a fresh SNR value every snrRate samples fed to Update. k
// compensates the bandwidth/gain mismatch between the signal and noise band
// extractors upstream.
func NewSNREstimator(windowSize, snrRate int, k float64) *SNREstimator {
	return &SNREstimator{
		powerSignal: NewRunningSum(windowSize),
		powerNoise:  NewRunningSum(windowSize),
		snrRate:     snrRate,
		k:           k,
	}
}

// Reset returns the estimator to its freshly constructed state.
func (e *SNREstimator) Reset() {
	e.powerSignal.Clear()
	e.powerNoise.Clear()
	e.step = 0
	e.last = 0
}

// Update feeds one signal-band sample and one noise-band sample (already
// squared-magnitude, or any other power proxy the caller extracted). It
// returns the most recent SNR value and whether this call produced a fresh
// one (every snrRate calls once both windows are non-empty).
func (e *SNREstimator) Update(signalPower, noisePower float64) (snr float64, fresh bool) {
	e.powerSignal.Add(signalPower)
	e.powerNoise.Add(noisePower)

	e.step++
	if e.step < e.snrRate {
		return e.last, false
	}
	e.step = 0

	pSig := e.powerSignal.Avg()
	pNoise := e.k * e.powerNoise.Avg()

	var v float64
	if pNoise > 0 {
		v = (pSig - pNoise) / pNoise
	}
	if v < 0 {
		v = 0
	}
	e.last = v
	return v, true
}

// Last returns the most recently computed SNR value without advancing the
// estimator.
func (e *SNREstimator) Last() float64 { return e.last }
