package rds

// GroupType identifies an RDS group's type code and version (A/B).
type GroupType struct {
	Code    int
	Version byte // 'A' or 'B'
}

// ProgramInfo accumulates the fields a receiver typically surfaces from
// group types 0A (basic tuning, PS name) and 2A (RadioText), the two group
// types the distilled spec's data flow names explicitly as the RDS group
// parser's job.
type ProgramInfo struct {
	PI  uint16
	PTY byte
	TA  bool
	MS  bool // true = music, false = speech

	PSName    [8]byte
	psFilled  [4]bool
	RadioText [64]byte
	rtFilled  [16]bool
	rtABFlag  bool
}

// ParseGroup extracts the group type/version from block B and, for 0A and
// 2A groups, updates info in place with whatever fields that group segment
// carries. It returns the group type found; callers that don't care about
// other group types can ignore it.
func ParseGroup(g Group, info *ProgramInfo) GroupType {
	info.PI = uint16(g.Blocks[0])

	b := g.Blocks[1]
	code := int((b >> 12) & 0xF)
	version := byte('A')
	if (b>>11)&1 == 1 {
		version = 'B'
	}
	gt := GroupType{Code: code, Version: version}

	info.PTY = byte((b >> 5) & 0x1F)

	switch {
	case code == 0 && version == 'A':
		parseGroup0A(g, b, info)
	case code == 2 && version == 'A':
		parseGroup2A(g, b, info)
	}

	return gt
}

func parseGroup0A(g Group, b uint32, info *ProgramInfo) {
	info.TA = (b>>4)&1 == 1
	info.MS = (b>>3)&1 == 1

	segment := int(b & 0x3)
	d := g.Blocks[3]
	info.PSName[segment*2] = byte(d >> 8)
	info.PSName[segment*2+1] = byte(d & 0xFF)
	info.psFilled[segment] = true
}

func parseGroup2A(g Group, b uint32, info *ProgramInfo) {
	abFlag := (b>>4)&1 == 1
	if abFlag != info.rtABFlag {
		for i := range info.RadioText {
			info.RadioText[i] = 0
		}
		for i := range info.rtFilled {
			info.rtFilled[i] = false
		}
		info.rtABFlag = abFlag
	}

	segment := int(b & 0xF)
	c := g.Blocks[2]
	d := g.Blocks[3]
	info.RadioText[segment*4] = byte(c >> 8)
	info.RadioText[segment*4+1] = byte(c & 0xFF)
	info.RadioText[segment*4+2] = byte(d >> 8)
	info.RadioText[segment*4+3] = byte(d & 0xFF)
	info.rtFilled[segment] = true
}

// PSNameComplete reports whether all four segments of the PS name have
// been received since the last reset.
func (p *ProgramInfo) PSNameComplete() bool {
	for _, f := range p.psFilled {
		if !f {
			return false
		}
	}
	return true
}
