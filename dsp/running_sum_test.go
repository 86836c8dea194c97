package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fmradio.dev/sdr/dsp"
)

// TestRunningSumMatchesMeanOfLastN covers testable property 8: a
// RunningSum of window N fed 2N samples then queried equals the
// arithmetic mean of the last N, within epsilon = N * 2^-23.
func TestRunningSumMatchesMeanOfLastN(t *testing.T) {
	const n = 64
	r := dsp.NewRunningSum(n)

	for i := 0; i < 2*n; i++ {
		r.Add(float64(i))
	}

	var want float64
	for i := n; i < 2*n; i++ {
		want += float64(i)
	}
	want /= n

	eps := float64(n) * math.Pow(2, -23)
	assert.InDelta(t, want, r.Avg(), eps)
	assert.True(t, r.Full())
	assert.Equal(t, n, r.Size())
}

func TestRunningSumEmptyAndClear(t *testing.T) {
	r := dsp.NewRunningSum(4)
	assert.True(t, r.Empty())
	assert.Zero(t, r.Avg())

	r.Add(1)
	r.Add(2)
	assert.False(t, r.Empty())
	assert.False(t, r.Full())

	r.Clear()
	assert.True(t, r.Empty())
	assert.Zero(t, r.Sum())
}
