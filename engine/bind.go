package engine

// anyChannel is the type-erased handle to a Channel[T] kept on the Graph
// purely so Pipeline.Stop can wake every channel's waiters regardless of
// element type.
type anyChannel interface {
	wakeAll()
}

func (c *Channel[T]) wakeAll() { c.wake() }

// boundInput is the type-erased view of a consumer's input port once
// Connect has paired it with a Channel[T]. The scheduler only ever deals in
// boundInput/boundOutput, never in the generic Channel type directly, which
// is what lets one Pipeline drive stages of differing element types.
type boundInput struct {
	spec PortSpec

	producerNode int
	consumerNode int

	// wait blocks until at least min samples are readable (or stop fires /
	// the channel is closed with an error), returning the number actually
	// available.
	wait func(min int, stop *stopSignal) (int, error)

	// view returns an InputView over the next n contiguous readable
	// samples. Must only be called after a successful wait.
	view func(n int) InputView

	// commit advances the channel's read cursor by n and wakes the
	// producer if it was waiting on room.
	commit func(n int)

	closeWithErr func(err error)
}

type boundOutput struct {
	spec PortSpec

	producerNode int
	consumerNode int

	wait func(min int, stop *stopSignal) (int, error)
	view func(n int) OutputView
	commit func(n int)

	closeWithErr func(err error)
}

// connectTyped builds a Channel[T] plus the type-erased bindings for both
// ends of it, given the already Kind-checked port specs.
func connectTyped[T Sample](capacity, alignment int, pSpec, cSpec PortSpec) (*boundOutput, *boundInput, anyChannel) {
	ch := NewChannel[T](capacity, alignment)

	out := &boundOutput{
		spec: pSpec,
		wait: func(min int, stop *stopSignal) (int, error) {
			return ch.waitWritable(min, stop)
		},
		view: func(n int) OutputView {
			return &outputView[T]{ch: ch, slice: ch.writeSlice(n), kind: kindOf[T]()}
		},
		commit: func(n int) {
			ch.advanceWrite(n)
		},
		closeWithErr: func(err error) {
			ch.closeWithError(err)
		},
	}

	in := &boundInput{
		spec: cSpec,
		wait: func(min int, stop *stopSignal) (int, error) {
			return ch.waitReadable(min, stop)
		},
		view: func(n int) InputView {
			return &inputView[T]{ch: ch, slice: ch.readSlice(n), kind: kindOf[T]()}
		},
		commit: func(n int) {
			ch.advanceRead(n)
		},
		closeWithErr: func(err error) {
			ch.closeWithError(err)
		},
	}

	return out, in, ch
}
