// Package population provides the "population" node kind: an ODE state
// variable whose derivative is wired in through its rate input.
package population

import (
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/model"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/pin"
	"github.com/vk/odegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry name of this node kind.
const Kind = "population"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments for the population kind.
type Args struct {
	Initial float64 `cty:"initial"`
}

// Node publishes its initial value and remembers the last rate it was given.
type Node struct {
	node.Base
	initial float64
	rate    *pin.Input
	out     *pin.Output

	lastRate cty.Value
}

// New creates a population node.
func New(name string, initial float64) *Node {
	rate := pin.NewInput("rate", cty.Number)
	out := pin.NewOutput("value", cty.Number)
	return &Node{
		Base:     node.NewBase(Kind, name, []*pin.Input{rate}, []*pin.Output{out}),
		initial:  initial,
		rate:     rate,
		out:      out,
		lastRate: cty.NullVal(cty.Number),
	}
}

func (n *Node) Rate() *pin.Input { return n.rate }
func (n *Node) Out() *pin.Output { return n.out }

// LastRate is the most recent derivative value seen, or null.
func (n *Node) LastRate() cty.Value { return n.lastRate }

func (n *Node) Notify(ev node.Event) []message.Message {
	switch ev := ev.(type) {
	case node.Push:
		if ev.Pin == n.rate.ID() {
			n.lastRate = ev.Payload
		}
	case node.Pop:
		if ev.Pin == n.rate.ID() {
			n.lastRate = cty.NullVal(cty.Number)
		}
	}
	// The state value only changes under integration, which happens outside
	// the graph.
	return nil
}

func (n *Node) BroadcastData() []message.Message {
	return node.Broadcast(n.out, cty.NumberFloatVal(n.initial))
}

// ToEquation exports the initial value and, when a rate is linked,
// d(name)/dt = upstream.
func (n *Node) ToEquation(c node.Context) node.Contribution {
	contrib := node.Contribution{Arguments: []model.Argument{model.NewValue(n.Name(), n.initial)}}
	if up, ok := c.Upstream(n.rate.ID()); ok {
		contrib.Equations = []model.Equation{{Name: n.Name(), Argument: up.Name()}}
	}
	return contrib
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(Kind, &registry.RegisteredKind{
		Description: "An ODE state variable.",
		NewArgs:     func() any { return new(Args) },
		New: func(name string, args any) (node.Behavior, error) {
			return New(name, args.(*Args).Initial), nil
		},
	})
}
