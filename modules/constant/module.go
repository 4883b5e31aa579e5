// Package constant provides the "constant" node kind: a fixed number on one
// output.
package constant

import (
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/model"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/pin"
	"github.com/vk/odegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Kind is the registry name of this node kind.
const Kind = "constant"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments for the constant kind.
type Args struct {
	Value float64 `cty:"value"`
}

// Node holds a single number and sends it to every linked input.
type Node struct {
	node.Base
	value float64
	out   *pin.Output
}

// New creates a constant node.
func New(name string, value float64) *Node {
	out := pin.NewOutput("value", cty.Number)
	return &Node{
		Base:  node.NewBase(Kind, name, nil, []*pin.Output{out}),
		value: value,
		out:   out,
	}
}

// Value returns the held number.
func (n *Node) Value() float64 { return n.value }

// Out returns the "value" output pin.
func (n *Node) Out() *pin.Output { return n.out }

// Notify never fires: the node has no inputs.
func (n *Node) Notify(node.Event) []message.Message { return nil }

func (n *Node) BroadcastData() []message.Message {
	return node.Broadcast(n.out, cty.NumberFloatVal(n.value))
}

func (n *Node) ToEquation(node.Context) node.Contribution {
	return node.Contribution{Arguments: []model.Argument{model.NewValue(n.Name(), n.value)}}
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(Kind, &registry.RegisteredKind{
		Description: "A fixed number.",
		NewArgs:     func() any { return new(Args) },
		New: func(name string, args any) (node.Behavior, error) {
			return New(name, args.(*Args).Value), nil
		},
	})
}
