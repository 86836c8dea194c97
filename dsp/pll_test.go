package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fmradio.dev/sdr/dsp"
)

func TestWrapPhaseClampsToRange(t *testing.T) {
	cases := []float64{0, math.Pi, -math.Pi, 3 * math.Pi, -3 * math.Pi, 2*math.Pi + 0.1}
	for _, phi := range cases {
		w := dsp.WrapPhase(phi)
		assert.True(t, w > -math.Pi && w <= math.Pi, "wrapped %v out of range: %v", phi, w)
	}
}

func TestPLLCoefficientsPositive(t *testing.T) {
	coef := dsp.NewPLLCoefficients(0.01, 0.707)
	assert.Greater(t, coef.Alpha, 0.0)
	assert.Greater(t, coef.Beta, 0.0)
}
