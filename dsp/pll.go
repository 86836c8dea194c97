package dsp

import "math"

// PLLCoefficients computes the loop-filter gains shared by every second
// order phase-locked loop in the receiver: the FM carrier tracking loop
// (dsp/fm.PLL) and the RDS subcarrier Costas loop (dsp/rds.CostasLoop).
// Grounded on hvylya's PllGenerator (src/hvylya/filters/pll_generator.h),
// which derives alpha_/beta_ from a loop bandwidth and damping factor and
// stores them alongside phase_/frequency_ state -- the standard
// proportional+integral digital PLL design (Gardner, "Phaselock
// Techniques").
type PLLCoefficients struct {
	// Alpha is the proportional (phase) gain.
	Alpha float64
	// Beta is the integral (frequency) gain.
	Beta float64
}

// NewPLLCoefficients derives alpha/beta from a normalized loop bandwidth
// (radians/sample) and damping factor (0.707 is the typical critically
// damped choice).
func NewPLLCoefficients(loopBandwidth, damping float64) PLLCoefficients {
	theta := loopBandwidth / (damping + 1/(4*damping))
	d := 1 + 2*damping*theta + theta*theta
	alpha := (4 * damping * theta) / d
	beta := (4 * theta * theta) / d
	return PLLCoefficients{Alpha: alpha, Beta: beta}
}

// WrapPhase clamps a phase to (-pi, pi], the wrapping rule used throughout
// the receiver's PLLs.
func WrapPhase(phi float64) float64 {
	for phi > math.Pi {
		phi -= 2 * math.Pi
	}
	for phi <= -math.Pi {
		phi += 2 * math.Pi
	}
	return phi
}
