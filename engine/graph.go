package engine

import "fmt"

// Handle identifies a Stage registered with a Graph.
type Handle int

type node struct {
	name  string
	stage Stage

	inIsBound  []bool
	outIsBound []bool

	in  []*boundInput
	out []*boundOutput
}

// Graph is the connection graph builder: it records stages and the channels
// that connect their ports, validating element-type agreement and the
// one-channel-per-port rule at Connect time (component D).
type Graph struct {
	nodes     []*node
	alignment int
	channels  []anyChannel
}

// NewGraph creates an empty connection graph. alignment is the SIMD byte
// alignment every channel's backing buffer uses; 0 selects the default
// (32 bytes).
func NewGraph(alignment int) *Graph {
	return &Graph{alignment: alignment}
}

// AddStage registers a Stage under a human-readable name (used in error
// messages and logs) and returns a Handle for use with Connect.
func (g *Graph) AddStage(name string, s Stage) Handle {
	n := &node{
		name:       name,
		stage:      s,
		inIsBound:  make([]bool, len(s.Inputs())),
		outIsBound: make([]bool, len(s.Outputs())),
		in:         make([]*boundInput, len(s.Inputs())),
		out:        make([]*boundOutput, len(s.Outputs())),
	}
	g.nodes = append(g.nodes, n)
	return Handle(len(g.nodes) - 1)
}

func (g *Graph) node(h Handle) (*node, error) {
	if int(h) < 0 || int(h) >= len(g.nodes) {
		return nil, NewConfigError(fmt.Sprintf("engine: unknown stage handle %d", h))
	}
	return g.nodes[h], nil
}

// Connect links producer's output port producerPort to consumer's input
// port consumerPort with a freshly allocated Channel. It rejects a type
// mismatch, an out-of-range port index, or re-connecting an already
// connected port.
func (g *Graph) Connect(producer Handle, producerPort int, consumer Handle, consumerPort int) error {
	pn, err := g.node(producer)
	if err != nil {
		return err
	}
	cn, err := g.node(consumer)
	if err != nil {
		return err
	}

	if producerPort < 0 || producerPort >= len(pn.stage.Outputs()) {
		return NewConfigError(fmt.Sprintf("engine: %s has no output port %d", pn.name, producerPort))
	}
	if consumerPort < 0 || consumerPort >= len(cn.stage.Inputs()) {
		return NewConfigError(fmt.Sprintf("engine: %s has no input port %d", cn.name, consumerPort))
	}

	if pn.outIsBound[producerPort] {
		return NewConfigError(fmt.Sprintf("engine: %s output %d is already connected", pn.name, producerPort))
	}
	if cn.inIsBound[consumerPort] {
		return NewConfigError(fmt.Sprintf("engine: %s input %d is already connected", cn.name, consumerPort))
	}

	pSpec := pn.stage.Outputs()[producerPort]
	cSpec := cn.stage.Inputs()[consumerPort]

	if pSpec.Kind != cSpec.Kind {
		return NewConfigError(fmt.Sprintf(
			"engine: type mismatch connecting %s.out[%d] (%s) to %s.in[%d] (%s)",
			pn.name, producerPort, pSpec.Kind, cn.name, consumerPort, cSpec.Kind,
		))
	}

	batch := maxInt(pSpec.SuggestedBatch, cSpec.SuggestedBatch)
	if batch <= 0 {
		batch = 1
	}
	capacity := int(roundUpToPowerOfTwo(uint64(cSpec.History+cSpec.LookAhead+batch))) * 2

	var (
		out *boundOutput
		in  *boundInput
		ch  anyChannel
	)

	switch pSpec.Kind {
	case KindComplex64:
		out, in, ch = connectTyped[complex64](capacity, g.alignment, pSpec, cSpec)
	case KindFloat32:
		out, in, ch = connectTyped[float32](capacity, g.alignment, pSpec, cSpec)
	default:
		return NewConfigError("engine: unsupported port kind")
	}

	out.producerNode, out.consumerNode = int(producer), int(consumer)
	in.producerNode, in.consumerNode = int(producer), int(consumer)

	pn.out[producerPort] = out
	pn.outIsBound[producerPort] = true
	cn.in[consumerPort] = in
	cn.inIsBound[consumerPort] = true
	g.channels = append(g.channels, ch)

	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// validate checks invariants (b) and (a) from the Pipeline section: every
// non-source port is connected, and returns a topological order, detecting
// cycles (invariant (b), no cycles) via Kahn's algorithm over the induced
// channel graph.
func (g *Graph) validate() ([]int, error) {
	for _, n := range g.nodes {
		for i, bound := range n.inIsBound {
			if !bound {
				return nil, NewConfigError(fmt.Sprintf("engine: %s input %d is not connected", n.name, i))
			}
		}
		for i, bound := range n.outIsBound {
			if !bound {
				return nil, NewConfigError(fmt.Sprintf("engine: %s output %d is not connected", n.name, i))
			}
		}
	}

	// Build an adjacency list producer-node -> consumer-node from the
	// channel bindings recorded on each node.
	adj := make([][]int, len(g.nodes))
	indeg := make([]int, len(g.nodes))
	for pi, pn := range g.nodes {
		for _, out := range pn.out {
			if out == nil {
				continue
			}
			ci := out.consumerNode
			adj[pi] = append(adj[pi], ci)
			indeg[ci]++
		}
	}

	var queue []int
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(g.nodes))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, j := range adj[i] {
			indeg[j]--
			if indeg[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, NewConfigError("engine: connection graph contains a cycle")
	}
	return order, nil
}
