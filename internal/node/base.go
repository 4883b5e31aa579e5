package node

import (
	"fmt"
	"slices"

	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/pin"
)

// Base implements the bookkeeping half of Behavior.
type Base struct {
	id      ident.NodeID
	kind    string
	name    string
	inputs  []*pin.Input
	outputs []*pin.Output
}

// NewBase creates the shared state for a node with a fresh id. An empty name
// defaults to `<kind>_<n>`.
func NewBase(kind, name string, inputs []*pin.Input, outputs []*pin.Output) Base {
	id := ident.NewNodeID()
	if name == "" {
		name = fmt.Sprintf("%s_%d", kind, uint64(id))
	}
	return Base{id: id, kind: kind, name: name, inputs: inputs, outputs: outputs}
}

func (b *Base) ID() ident.NodeID { return b.id }
func (b *Base) Kind() string     { return b.kind }
func (b *Base) Name() string     { return b.name }

func (b *Base) Inputs() []*pin.Input   { return slices.Clone(b.inputs) }
func (b *Base) Outputs() []*pin.Output { return slices.Clone(b.outputs) }

// ShouldLink accepts every candidate link. Kinds override it to restrict.
func (b *Base) ShouldLink(ident.InputPinID) bool { return true }

func (b *Base) Input(id ident.InputPinID) (*pin.Input, bool) {
	for _, p := range b.inputs {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

func (b *Base) Output(id ident.OutputPinID) (*pin.Output, bool) {
	for _, p := range b.outputs {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// InputNamed looks a pin up by its declared name.
func (b *Base) InputNamed(name string) (*pin.Input, bool) {
	for _, p := range b.inputs {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// OutputNamed looks a pin up by its declared name.
func (b *Base) OutputNamed(name string) (*pin.Output, bool) {
	for _, p := range b.outputs {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
