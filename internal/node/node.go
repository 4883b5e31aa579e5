package node

import (
	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/model"
	"github.com/vk/odegraph/internal/pin"
	"github.com/zclconf/go-cty/cty"
)

// Behavior is the polymorphic unit of computation stored in the graph.
type Behavior interface {
	// ID returns the node's identifier. It must not change.
	ID() ident.NodeID
	// Kind names the catalogue entry the node was built from.
	Kind() string
	// Name is the user-facing label, also used as the export name.
	Name() string

	// Inputs and Outputs list the declared pins. Either may be empty. The set of
	// pins must stay fixed while the node is registered.
	Inputs() []*pin.Input
	Outputs() []*pin.Output

	// ShouldLink is the node's acceptance policy for a candidate incoming link.
	ShouldLink(in ident.InputPinID) bool

	// Input and Output give mutable access to one pin's link state.
	Input(id ident.InputPinID) (*pin.Input, bool)
	Output(id ident.OutputPinID) (*pin.Output, bool)

	// Notify reacts to a Push or a Pop and returns the node's own propagation.
	Notify(ev Event) []message.Message

	// BroadcastData re-sends the current output values to every linked input.
	BroadcastData() []message.Message

	// ToEquation describes the node's contribution to an exported model.
	ToEquation(c Context) Contribution
}

// Event is either Push or Pop.
type Event interface {
	isEvent()
}

// Push reports that Payload arrived on input Pin.
type Push struct {
	Pin     ident.InputPinID
	Payload cty.Value
}

// Pop reports that input Pin lost its upstream link.
type Pop struct {
	Pin ident.InputPinID
}

func (Push) isEvent() {}
func (Pop) isEvent()  {}

// Context is the read-only view of the graph offered during export.
type Context interface {
	// Upstream returns the node whose output is linked to in.
	Upstream(in ident.InputPinID) (Behavior, bool)
}

// Contribution is what a node adds to an exported model.
type Contribution struct {
	Arguments []model.Argument
	Equations []model.Equation
}

// Broadcast builds one Deliver per input linked to out. A null or nil value
// produces nothing.
func Broadcast(out *pin.Output, v cty.Value) []message.Message {
	if v.IsNull() {
		return nil
	}
	var msgs []message.Message
	for _, in := range out.Peers() {
		msgs = append(msgs, message.Deliver{Data: v, From: out.ID(), To: in})
	}
	return msgs
}
