// Package probe provides the "probe" node kind, a sink that records what
// reaches it. Hosts use probes to observe propagation.
package probe

import (
	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/pin"
	"github.com/vk/odegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry name of this node kind.
const Kind = "probe"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments for the probe kind.
type Args struct {
	// Accept set to false makes the probe refuse every link.
	Accept bool `cty:"accept"`
	// History bounds the number of kept observations. Zero keeps all.
	History int `cty:"history"`
}

// Observation is one recorded event. Value is null for a Pop.
type Observation struct {
	Value  cty.Value
	Popped bool
}

// Node records the values delivered to its single dynamically typed input.
type Node struct {
	node.Base
	in      *pin.Input
	accept  bool
	history int

	observed []Observation
}

// New creates a probe node.
func New(name string, accept bool, history int) *Node {
	in := pin.NewInput("in", cty.DynamicPseudoType)
	return &Node{
		Base:    node.NewBase(Kind, name, []*pin.Input{in}, nil),
		in:      in,
		accept:  accept,
		history: history,
	}
}

func (n *Node) In() *pin.Input { return n.in }

func (n *Node) ShouldLink(ident.InputPinID) bool { return n.accept }

// Observations returns a copy of the recorded events, oldest first.
func (n *Node) Observations() []Observation {
	return append([]Observation(nil), n.observed...)
}

// Latest returns the value currently held: the last pushed value, unless the
// input has been popped since.
func (n *Node) Latest() (cty.Value, bool) {
	if len(n.observed) == 0 {
		return cty.NilVal, false
	}
	last := n.observed[len(n.observed)-1]
	if last.Popped {
		return cty.NilVal, false
	}
	return last.Value, true
}

func (n *Node) Notify(ev node.Event) []message.Message {
	switch ev := ev.(type) {
	case node.Push:
		n.record(Observation{Value: ev.Payload})
	case node.Pop:
		n.record(Observation{Value: cty.NullVal(cty.DynamicPseudoType), Popped: true})
	}
	return nil
}

func (n *Node) record(o Observation) {
	n.observed = append(n.observed, o)
	if n.history > 0 && len(n.observed) > n.history {
		n.observed = n.observed[len(n.observed)-n.history:]
	}
}

func (n *Node) BroadcastData() []message.Message { return nil }

// ToEquation contributes nothing; probes are not part of the model.
func (n *Node) ToEquation(node.Context) node.Contribution { return node.Contribution{} }

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(Kind, &registry.RegisteredKind{
		Description: "Records delivered values.",
		NewArgs:     func() any { return &Args{Accept: true} },
		New: func(name string, args any) (node.Behavior, error) {
			a := args.(*Args)
			return New(name, a.Accept, a.History), nil
		},
	})
}
