// Package operator provides the "operator" node kind: a binary arithmetic
// operation over two number inputs.
package operator

import (
	"fmt"

	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/model"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/pin"
	"github.com/vk/odegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Kind is the registry name of this node kind.
const Kind = "operator"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args defines the arguments for the operator kind.
type Args struct {
	Op string `cty:"op"`
}

type operation struct {
	apply    func(a, b cty.Value) (cty.Value, error)
	identity float64
	// contribution of the left and right operand in an exported composite.
	left, right string
}

var operations = map[string]operation{
	"+": {apply: stdlib.Add, identity: 0, left: "+", right: "+"},
	"-": {apply: stdlib.Subtract, identity: 0, left: "+", right: "-"},
	"*": {apply: stdlib.Multiply, identity: 1, left: "*", right: "*"},
	"/": {apply: stdlib.Divide, identity: 1, left: "*", right: "/"},
}

// Node combines its lhs and rhs inputs and publishes the result. An input
// without a value uses the operation's identity element.
type Node struct {
	node.Base
	op       string
	impl     operation
	lhs, rhs *pin.Input
	out      *pin.Output

	lhsVal, rhsVal cty.Value
	result         cty.Value
}

// New creates an operator node for op, one of + - * /.
func New(name, op string) (*Node, error) {
	impl, ok := operations[op]
	if !ok {
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
	lhs := pin.NewInput("lhs", cty.Number)
	rhs := pin.NewInput("rhs", cty.Number)
	out := pin.NewOutput("result", cty.Number)
	n := &Node{
		Base:   node.NewBase(Kind, name, []*pin.Input{lhs, rhs}, []*pin.Output{out}),
		op:     op,
		impl:   impl,
		lhs:    lhs,
		rhs:    rhs,
		out:    out,
		lhsVal: cty.NumberFloatVal(impl.identity),
		rhsVal: cty.NumberFloatVal(impl.identity),
	}
	n.result, _ = impl.apply(n.lhsVal, n.rhsVal)
	return n, nil
}

func (n *Node) LHS() *pin.Input  { return n.lhs }
func (n *Node) RHS() *pin.Input  { return n.rhs }
func (n *Node) Out() *pin.Output { return n.out }

// Result returns the last computed value.
func (n *Node) Result() cty.Value { return n.result }

func (n *Node) Notify(ev node.Event) []message.Message {
	switch ev := ev.(type) {
	case node.Push:
		if !n.set(ev.Pin, ev.Payload) {
			return nil
		}
	case node.Pop:
		if !n.set(ev.Pin, cty.NumberFloatVal(n.impl.identity)) {
			return nil
		}
	}

	v, err := n.impl.apply(n.lhsVal, n.rhsVal)
	if err != nil {
		// 0/0 and friends: keep publishing the last good result.
		return nil
	}
	n.result = v
	return node.Broadcast(n.out, n.result)
}

func (n *Node) set(in ident.InputPinID, v cty.Value) bool {
	if !v.IsKnown() || v.IsNull() {
		return false
	}
	switch in {
	case n.lhs.ID():
		n.lhsVal = v
	case n.rhs.ID():
		n.rhsVal = v
	default:
		return false
	}
	return true
}

func (n *Node) BroadcastData() []message.Message {
	return node.Broadcast(n.out, n.result)
}

// ToEquation exports a composite over the upstream nodes. Unlinked operands
// are left out.
func (n *Node) ToEquation(c node.Context) node.Contribution {
	var comps []model.Component
	if up, ok := c.Upstream(n.lhs.ID()); ok {
		comps = append(comps, model.Component{Name: up.Name(), Contribution: n.impl.left})
	}
	if up, ok := c.Upstream(n.rhs.ID()); ok {
		comps = append(comps, model.Component{Name: up.Name(), Contribution: n.impl.right})
	}
	return node.Contribution{Arguments: []model.Argument{model.NewComposite(n.Name(), n.op, comps...)}}
}

// Register registers the kind with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterKind(Kind, &registry.RegisteredKind{
		Description: "Binary arithmetic: + - * /.",
		NewArgs:     func() any { return &Args{Op: "+"} },
		New: func(name string, args any) (node.Behavior, error) {
			return New(name, args.(*Args).Op)
		},
	})
}
