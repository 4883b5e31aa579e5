package testutil

import (
	"fmt"

	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/pin"
	"github.com/zclconf/go-cty/cty"
)

// Recorder is a node.Behavior that logs every event it sees. Its reactions are
// driven by plain fields so tests can reconfigure it between steps.
type Recorder struct {
	node.Base

	// Events holds every Push and Pop in arrival order.
	Events []node.Event
	// Value is broadcast on every output by BroadcastData. Null disables it.
	Value cty.Value
	// Fallback is broadcast on every output after a Pop. Null disables it.
	Fallback cty.Value
	// Forward makes a Push rebroadcast its payload on every output.
	Forward bool
	// Decline rejects every candidate link.
	Decline bool
	// Contribution is returned verbatim by ToEquation.
	Contribution node.Contribution
}

// NewRecorder builds a recorder with the given number of dynamically typed
// pins, named in0.., out0...
func NewRecorder(name string, inputs, outputs int) *Recorder {
	ins := make([]*pin.Input, 0, inputs)
	for i := range inputs {
		ins = append(ins, pin.NewInput(fmt.Sprintf("in%d", i), cty.DynamicPseudoType))
	}
	outs := make([]*pin.Output, 0, outputs)
	for i := range outputs {
		outs = append(outs, pin.NewOutput(fmt.Sprintf("out%d", i), cty.DynamicPseudoType))
	}
	return NewRecorderWithPins(name, ins, outs)
}

// NewRecorderWithPins builds a recorder around caller-made pins.
func NewRecorderWithPins(name string, ins []*pin.Input, outs []*pin.Output) *Recorder {
	return &Recorder{
		Base:  node.NewBase("recorder", name, ins, outs),
		Value:    cty.NullVal(cty.DynamicPseudoType),
		Fallback: cty.NullVal(cty.DynamicPseudoType),
	}
}

// In returns the i-th input pin id.
func (r *Recorder) In(i int) ident.InputPinID { return r.Inputs()[i].ID() }

// Out returns the i-th output pin id.
func (r *Recorder) Out(i int) ident.OutputPinID { return r.Outputs()[i].ID() }

func (r *Recorder) ShouldLink(ident.InputPinID) bool { return !r.Decline }

func (r *Recorder) Notify(ev node.Event) []message.Message {
	r.Events = append(r.Events, ev)
	var v cty.Value
	switch ev := ev.(type) {
	case node.Push:
		if !r.Forward {
			return nil
		}
		v = ev.Payload
	case node.Pop:
		v = r.Fallback
	}
	var msgs []message.Message
	for _, out := range r.Outputs() {
		msgs = append(msgs, node.Broadcast(out, v)...)
	}
	return msgs
}

func (r *Recorder) BroadcastData() []message.Message {
	var msgs []message.Message
	for _, out := range r.Outputs() {
		msgs = append(msgs, node.Broadcast(out, r.Value)...)
	}
	return msgs
}

func (r *Recorder) ToEquation(node.Context) node.Contribution { return r.Contribution }

// Pushes returns only the Push events.
func (r *Recorder) Pushes() []node.Push {
	var out []node.Push
	for _, ev := range r.Events {
		if p, ok := ev.(node.Push); ok {
			out = append(out, p)
		}
	}
	return out
}

// Pops returns only the Pop events.
func (r *Recorder) Pops() []node.Pop {
	var out []node.Pop
	for _, ev := range r.Events {
		if p, ok := ev.(node.Pop); ok {
			out = append(out, p)
		}
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() { r.Events = nil }
