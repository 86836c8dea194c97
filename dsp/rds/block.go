// Package rds implements RDS (IEC 62106) baseband recovery: the block
// codec, the 26-bit frame synchronizer, the Costas loop + symbol sampler +
// differential decoder chain that recovers bits from the 57kHz subcarrier,
// and the group 0A/2A field parser. Grounded on hvylya's
// src/hvylya/filters/fm/rds_bits_corrector.h (encode/validate/decode
// function shapes) and rds_decoding_stats.h (the synchronizer's stats
// struct), generalized onto engine.Stage.
package rds

// Offset words for the four RDS block positions, IEC 62106 table 2. Block
// position C uses offset C normally and C' when the group type calls for
// it; the synchronizer tries both.
const (
	OffsetA  = 0x0FC
	OffsetB  = 0x198
	OffsetC  = 0x168
	OffsetCp = 0x350
	OffsetD  = 0x1B4
)

// generator is the RDS checkword generator polynomial
// g(x) = x^10+x^8+x^7+x^5+x^4+x^3+1, represented with its implicit leading
// term so polynomial division can be done by repeated XOR-shift -- the
// standard cyclic-code realization of multiplying a 16-bit info word by
// the 16x10 generator matrix the block format calls for.
const generator = 0x5B9 // degree-10 polynomial, 11 bits incl. leading term

// checkword computes info*G mod g(x): the 10-bit remainder of dividing the
// 16-bit info word (left-shifted by 10, i.e. padded with the 10 check
// bits' worth of zeros) by the generator polynomial.
func checkword(info uint32) uint32 {
	dividend := (info & 0xFFFF) << 10
	for i := 25; i >= 10; i-- {
		if dividend&(1<<uint(i)) != 0 {
			dividend ^= generator << uint(i-10)
		}
	}
	return dividend & 0x3FF
}

// Encode builds the 26-bit transmitted block for a 16-bit info word at the
// given 10-bit offset: info<<10 | (checkword(info) XOR offset).
func Encode(info, offset uint32) uint32 {
	return (info&0xFFFF)<<10 | (checkword(info) ^ (offset & 0x3FF))
}

// Validate reports whether a 26-bit block is a valid codeword at the given
// offset: the syndrome (the block's actual checkword, recomputed expected
// checkword, and the offset all XORed together) must be zero.
func Validate(block, offset uint32) bool {
	return syndrome(block, offset) == 0
}

func syndrome(block, offset uint32) uint32 {
	info := (block >> 10) & 0xFFFF
	received := block & 0x3FF
	expected := checkword(info) ^ (offset & 0x3FF)
	return received ^ expected
}

// DecodeResult is the outcome of Decode.
type DecodeResult struct {
	Info uint32
	// Valid is true if the block validated with no correction needed.
	Valid bool
	// Corrected is true if exactly one single-bit flip produced a valid
	// block; BitIndex names which of the 26 bits (0 = LSB of the
	// checkword) was flipped.
	Corrected bool
	BitIndex  int
	// Failed is true if the block could not be validated even after
	// trying every single-bit correction, or if more than one candidate
	// correction validated (an ambiguous, and therefore rejected, burst
	// error).
	Failed bool
}

// Decode validates a 26-bit block against offset, attempting a single-bit
// correction if it doesn't validate outright. Per 4.H, burst errors beyond
// one bit are deliberately rejected (if more than one flip candidate
// validates, the result is Failed, not Corrected) to keep the false-accept
// rate low.
func Decode(block, offset uint32) DecodeResult {
	if Validate(block, offset) {
		return DecodeResult{Info: (block >> 10) & 0xFFFF, Valid: true}
	}

	var (
		candidates int
		bestIdx    int
		bestBlock  uint32
	)
	for bit := 0; bit < 26; bit++ {
		flipped := block ^ (1 << uint(bit))
		if Validate(flipped, offset) {
			candidates++
			bestIdx = bit
			bestBlock = flipped
		}
	}

	switch candidates {
	case 1:
		return DecodeResult{
			Info:      (bestBlock >> 10) & 0xFFFF,
			Corrected: true,
			BitIndex:  bestIdx,
		}
	default:
		return DecodeResult{Failed: true}
	}
}
