package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// stopSignal is a shared cancellation flag every worker polls at its two
// suspension points (waiting on a full downstream buffer, waiting on an
// empty upstream buffer) and after every Process call.
type stopSignal struct {
	flag atomic.Bool
}

func (s *stopSignal) stopped() bool { return s.flag.Load() }
func (s *stopSignal) set()          { s.flag.Store(true) }

// Pipeline is the built, runnable form of a Graph: one worker goroutine per
// stage, coordinated purely through each channel's buffer (no locks around
// Process itself). Build validates the graph and resets every stage;
// Run starts the workers and blocks until they all exit, surfacing the
// first error any stage produced.
type Pipeline struct {
	g     *Graph
	order []int

	stop stopSignal
	wg   sync.WaitGroup

	failOnce sync.Once
	failErr  atomic.Pointer[Error]
}

// Build validates the graph (every non-source port connected, no cycles,
// element types already checked at Connect time) and resets every stage to
// its initial state.
func Build(g *Graph) (*Pipeline, error) {
	order, err := g.validate()
	if err != nil {
		return nil, err
	}
	for _, n := range g.nodes {
		n.stage.Reset()
	}
	return &Pipeline{g: g, order: order}, nil
}

// Stop requests every worker to exit at its next wake-up. It is safe to
// call multiple times and from any goroutine.
func (p *Pipeline) Stop() {
	p.stop.set()
	for _, ch := range p.g.channels {
		ch.wakeAll()
	}
}

// Run starts one goroutine per stage and blocks until all have exited,
// either because Stop was called or because one stage's Process returned an
// error or panicked (a source commonly returns an error once its driver is
// exhausted), which stops every other stage. Exactly the first error to
// occur, in chronological order, is returned; later ones are dropped.
func (p *Pipeline) Run() error {
	p.wg.Add(len(p.g.nodes))
	for i := range p.g.nodes {
		go p.runWorker(i)
	}
	p.wg.Wait()

	if err := p.failErr.Load(); err != nil {
		return err
	}
	return nil
}

func (p *Pipeline) fail(err *Error) {
	p.failOnce.Do(func() {
		p.failErr.Store(err)
		p.Stop()
	})
}

// minBatch picks the scheduler's per-iteration target batch size for a
// stage: the smallest suggested batch across its connected ports, or 1 if
// none declared a preference. A stage is still free to consume/produce
// less; this only sizes how much the scheduler tries to make available
// before invoking Process.
func minBatch(n *node) int {
	best := 0
	consider := func(v int) {
		if v <= 0 {
			return
		}
		if best == 0 || v < best {
			best = v
		}
	}
	for _, in := range n.in {
		if in != nil {
			consider(in.spec.SuggestedBatch)
		}
	}
	for _, out := range n.out {
		if out != nil {
			consider(out.spec.SuggestedBatch)
		}
	}
	if best <= 0 {
		best = 1
	}
	return best
}

func (p *Pipeline) runWorker(idx int) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.fail(NewInternalError(fmt.Sprint(r)))
		}
	}()
	n := p.g.nodes[idx]
	batch := minBatch(n)

	ins := make([]InputView, len(n.in))
	outs := make([]OutputView, len(n.out))
	noPorts := len(n.in) == 0 && len(n.out) == 0

	for {
		if p.stop.stopped() {
			return
		}

		// Suspension point 1: wait on every input port having at least
		// History+batch readable samples. A Source has no input ports and
		// skips straight to invoking Process, which is expected to block
		// internally on its own driver read.
		for i, in := range n.in {
			need := in.spec.History + batch
			avail, err := in.wait(need, &p.stop)
			if err != nil {
				p.handleWaitError(err)
				return
			}
			ins[i] = in.view(avail)
		}
		if p.stop.stopped() {
			return
		}

		// Suspension point 2: wait on every output port having room for at
		// least one sample. A Sink has no output ports.
		for i, out := range n.out {
			avail, err := out.wait(1, &p.stop)
			if err != nil {
				p.handleWaitError(err)
				return
			}
			take := avail
			if out.spec.SuggestedBatch > 0 && take > out.spec.SuggestedBatch {
				take = out.spec.SuggestedBatch
			}
			outs[i] = out.view(take)
		}
		if p.stop.stopped() {
			return
		}

		if err := n.stage.Process(ins, outs); err != nil {
			p.fail(asEngineError(err))
			return
		}

		for i, in := range n.in {
			in.commit(viewTaken(ins[i]))
		}
		for i, out := range n.out {
			out.commit(viewTaken(outs[i]))
		}

		if noPorts {
			// A stage with no ports at all (degenerate, but not forbidden)
			// would spin forever; nothing more to do.
			return
		}
	}
}

// viewTaken extracts how many samples a view committed to via Advance,
// without exposing the taken field on the public InputView/OutputView
// interfaces.
func viewTaken(v any) int {
	switch t := v.(type) {
	case *inputView[complex64]:
		return t.taken
	case *inputView[float32]:
		return t.taken
	case *outputView[complex64]:
		return t.taken
	case *outputView[float32]:
		return t.taken
	default:
		return 0
	}
}

func (p *Pipeline) handleWaitError(err error) {
	if ae, ok := err.(*Error); ok {
		if ae.Kind == KindAborted {
			return // cooperative shutdown, not a failure to report
		}
		p.fail(ae)
		return
	}
	p.fail(NewInternalError(err.Error()))
}

func asEngineError(err error) *Error {
	if ee, ok := err.(*Error); ok {
		return ee
	}
	return NewInternalError(err.Error())
}

// Close calls Close on every Stage that implements Closer, in reverse
// topological order, so a downstream consumer is never closed while an
// upstream producer could still be writing to it.
func (p *Pipeline) Close() error {
	var first error
	for i := len(p.order) - 1; i >= 0; i-- {
		n := p.g.nodes[p.order[i]]
		if c, ok := n.stage.(Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
