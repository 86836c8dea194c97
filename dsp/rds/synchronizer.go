package rds

// Stats mirrors hvylya's RdsDecodingStats (rds_decoding_stats.h): counters
// the block synchronizer accumulates as it works through the incoming bit
// stream.
type Stats struct {
	FailedBlocks          uint64
	CorrectedBlocks        uint64
	ValidBlocks            uint64
	SkippedBits            uint64
	TentativeSkippedBits   uint64
}

// Clear zeros every counter, matching a freshly constructed Stats.
func (s *Stats) Clear() { *s = Stats{} }

var offsets = [4]uint32{OffsetA, OffsetB, OffsetC, OffsetD}

// Group is one synchronized 104-bit RDS group: four decoded 16-bit info
// words, block C possibly decoded against the C' offset (group type B
// groups use C' in place of C).
type Group struct {
	Blocks [4]uint32
	UsedCp bool
}

// Synchronizer maintains a 26-bit sliding window over an incoming bit
// stream and tries each of the four block offsets at every bit position
// until one produces a valid block (single-bit correction is not applied
// while searching), at which point it locks to that 26-bit frame phase and starts decoding blocks
// directly, per the block-synchronizer description in 4.H.
type Synchronizer struct {
	window  uint32 // low 26 bits hold the current candidate block
	filled  int    // number of bits shifted in since Reset/loss of lock

	locked   bool
	blockPos int // which of A,B,C,D the next 26-bit window should be

	stats Stats
	group Group
}

// NewSynchronizer creates an unlocked synchronizer.
func NewSynchronizer() *Synchronizer { return &Synchronizer{} }

// Reset returns the synchronizer to its freshly constructed, unlocked
// state and clears its stats.
func (s *Synchronizer) Reset() {
	s.window = 0
	s.filled = 0
	s.locked = false
	s.blockPos = 0
	s.stats.Clear()
	s.group = Group{}
}

// Stats returns a copy of the accumulated decoding statistics.
func (s *Synchronizer) Stats() Stats { return s.stats }

// PushBit feeds one recovered RDS data bit (0 or 1, MSB-first framing)
// into the synchronizer. It returns a completed Group with ok true whenever
// all four blocks of one 104-bit frame have been decoded, and ok false
// otherwise. A block that cannot be decoded drops the lock, and the search
// for a new frame phase starts with the next bit.
func (s *Synchronizer) PushBit(bit int) (group Group, ok bool) {
	s.window = ((s.window << 1) | uint32(bit&1)) & 0x3FFFFFF
	if s.filled < 26 {
		s.filled++
	}

	if !s.locked {
		return s.tryAcquireLock()
	}
	return s.tryDecodeBlock()
}

func (s *Synchronizer) tryAcquireLock() (Group, bool) {
	if s.filled < 26 {
		return Group{}, false
	}
	for i, off := range offsets {
		if Validate(s.window, off) {
			s.locked = true
			s.blockPos = (i + 1) % 4
			s.filled = 0
			s.stats.ValidBlocks++
			s.group = Group{}
			s.group.Blocks[i] = (s.window >> 10) & 0xFFFF
			return Group{}, false
		}
	}
	s.stats.SkippedBits++
	return Group{}, false
}

func (s *Synchronizer) tryDecodeBlock() (Group, bool) {
	if s.filled < 26 {
		return Group{}, false
	}
	s.filled = 0

	off := offsets[s.blockPos]
	res := Decode(s.window, off)
	usedCp := false
	if s.blockPos == 2 && !res.Valid {
		if alt := Decode(s.window, OffsetCp); alt.Valid || (alt.Corrected && res.Failed) {
			res, usedCp = alt, true
		}
	}

	switch {
	case res.Valid:
		s.stats.ValidBlocks++
		s.group.Blocks[s.blockPos] = res.Info
	case res.Corrected:
		s.stats.CorrectedBlocks++
		s.group.Blocks[s.blockPos] = res.Info
	default:
		s.stats.FailedBlocks++
		s.stats.TentativeSkippedBits++
		s.locked = false
		s.blockPos = 0
		return Group{}, false
	}

	if s.blockPos == 2 {
		s.group.UsedCp = usedCp
	}

	complete := s.blockPos == 3
	s.blockPos = (s.blockPos + 1) % 4

	if complete {
		g := s.group
		s.group = Group{}
		return g, true
	}
	return Group{}, false
}
