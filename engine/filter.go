package engine

// Kind identifies the element type of a port, used for static type-checking
// at Connect time without forcing every Stage implementation to share one
// Go generic instantiation -- the "tagged variants on a common Stage
// capability interface" option the design notes call out explicitly.
type Kind uint8

const (
	// KindComplex64 ports carry complex baseband samples.
	KindComplex64 Kind = iota
	// KindFloat32 ports carry real-valued samples (demodulated audio, RDS
	// symbols, SNR readings, etc).
	KindFloat32
)

func (k Kind) String() string {
	switch k {
	case KindComplex64:
		return "complex64"
	case KindFloat32:
		return "float32"
	default:
		return "unknown"
	}
}

// PortSpec describes one input or output port of a Stage: its element Kind,
// and -- for input ports -- the History and LookAhead sample counts the
// scheduler must guarantee are readable before the stage is invoked, and --
// for output ports -- a SuggestedBatch hint the scheduler honors when it
// can.
type PortSpec struct {
	Kind Kind

	// History is the number of samples of backward context this port needs
	// before the first output sample of a batch. Zero for ports with no
	// history requirement.
	History int

	// LookAhead is the number of samples of forward context needed past the
	// last output sample. Zero for ports with no look-ahead requirement.
	LookAhead int

	// SuggestedBatch is a soft hint for how many samples this port would
	// like to process/produce per invocation. The scheduler honors it when
	// the buffers allow, but a Stage must tolerate being handed fewer.
	SuggestedBatch int
}

// InputView is the read-only (modulo Advance) view a Stage receives for one
// input port during a single Process call. It exposes a contiguous region
// of the underlying Channel; Advance commits how many of those samples the
// Stage has consumed, which is the channel's job, not the slice's -- the
// "mutable-through-const advance" design note is resolved by modeling
// Advance as an operation against the channel, here reached through the
// view rather than the raw slice.
type InputView interface {
	Kind() Kind
	Len() int
	Complex64() []complex64
	Float32() []float32
	Advance(n int)
}

// OutputView is the symmetric write view for one output port.
type OutputView interface {
	Kind() Kind
	Len() int
	Complex64() []complex64
	Float32() []float32
	Advance(n int)
}

// Stage is the capability interface every node in the graph implements.
// Process must do as much work as the supplied views allow; it may consume
// or produce fewer samples than suggested, in which case the scheduler
// re-invokes it. Process must be side-effect-free with respect to anything
// other than the views and the Stage's own fields -- no blocking I/O unless
// the Stage is a declared Source or Sink.
type Stage interface {
	// Inputs lists this stage's input ports, in the fixed order Process
	// expects them.
	Inputs() []PortSpec

	// Outputs lists this stage's output ports, in the fixed order Process
	// produces them.
	Outputs() []PortSpec

	// Process is invoked by the scheduler once every input view has at
	// least History+1 readable samples and every output view has room for
	// at least one sample (subject to the scheduler's min-batch choice).
	Process(ins []InputView, outs []OutputView) error

	// Reset clears internal state. It is called once before the first
	// Process call and again on any recovery restart; it must return the
	// Stage to a state bit-identical to a freshly constructed one.
	Reset()
}

// Closer is an optional extension a Stage may implement to release
// resources (file handles, hardware grips) when the Pipeline tears down.
// Close calls happen in reverse topological order so a downstream consumer
// is never closed while an upstream producer might still write to it.
type Closer interface {
	Close() error
}

// Source is a marker a Stage may implement to declare it has no input
// ports and is expected to block internally on an external driver read
// rather than waiting on any Channel.
type Source interface {
	Stage
	IsSource()
}

// Sink is the symmetric marker for a Stage with no output ports.
type Sink interface {
	Stage
	IsSink()
}
