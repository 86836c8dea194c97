package rds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmradio.dev/sdr/dsp/rds"
)

// bitsFor packs a 26-bit block MSB-first into a []int of 0/1 values.
func bitsFor(block uint32) []int {
	bits := make([]int, 26)
	for i := 0; i < 26; i++ {
		bits[i] = int((block >> uint(25-i)) & 1)
	}
	return bits
}

func pushAll(s *rds.Synchronizer, bits []int) (group rds.Group, ok bool) {
	for _, b := range bits {
		group, ok = s.PushBit(b)
	}
	return
}

// TestSynchronizerLocksAndAssemblesGroup feeds one clean encoded frame
// (blocks A, B, C, D back to back) and expects lock acquisition partway
// through block A followed by a fully assembled group at the end of
// block D.
func TestSynchronizerLocksAndAssemblesGroup(t *testing.T) {
	infoA, infoB, infoC, infoD := uint32(0x1001), uint32(0x2002), uint32(0x3003), uint32(0x4004)

	blockA := rds.Encode(infoA, rds.OffsetA)
	blockB := rds.Encode(infoB, rds.OffsetB)
	blockC := rds.Encode(infoC, rds.OffsetC)
	blockD := rds.Encode(infoD, rds.OffsetD)

	s := rds.NewSynchronizer()

	var bits []int
	bits = append(bits, bitsFor(blockA)...)
	bits = append(bits, bitsFor(blockB)...)
	bits = append(bits, bitsFor(blockC)...)
	bits = append(bits, bitsFor(blockD)...)

	var (
		group rds.Group
		ok    bool
	)
	for _, b := range bits {
		group, ok = s.PushBit(b)
	}

	require.True(t, ok)
	assert.Equal(t, infoA, group.Blocks[0])
	assert.Equal(t, infoB, group.Blocks[1])
	assert.Equal(t, infoC, group.Blocks[2])
	assert.Equal(t, infoD, group.Blocks[3])

	stats := s.Stats()
	assert.Equal(t, uint64(0), stats.FailedBlocks)
}

// TestSynchronizerNoGroupFromGarbageAndOneBlock feeds 200 alternating bits
// that never validate against any offset, then a single clean block A, and
// expects no group yet: one block is not a full frame.
func TestSynchronizerNoGroupFromGarbageAndOneBlock(t *testing.T) {
	s := rds.NewSynchronizer()

	noise := make([]int, 200)
	for i := range noise {
		noise[i] = i % 2
	}
	pushAll(s, noise)

	info := uint32(0x5555)
	block := rds.Encode(info, rds.OffsetA)

	var (
		group rds.Group
		ok    bool
	)
	for _, b := range bitsFor(block) {
		group, ok = s.PushBit(b)
	}
	// A single block isn't a full frame yet.
	assert.False(t, ok)
	_ = group
}
