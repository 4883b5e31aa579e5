// Package pin holds the link state of node endpoints.
//
// An Input carries at most one peer (fan-in 1). An Output carries any number of
// peers (fan-out unbounded), kept in the order the links were established so
// broadcasts are deterministic. Pins only record state; the graph decides when
// a link may be established or torn down.
package pin

import (
	"slices"

	"github.com/vk/odegraph/internal/ident"
	"github.com/zclconf/go-cty/cty"
)

// Input is an input endpoint owned by a single node.
type Input struct {
	id   ident.InputPinID
	name string
	typ  cty.Type

	peer ident.OutputPinID
}

// NewInput creates an unlinked input pin with a fresh id. A cty.NilType
// declared type is treated as cty.DynamicPseudoType.
func NewInput(name string, typ cty.Type) *Input {
	if typ == cty.NilType {
		typ = cty.DynamicPseudoType
	}
	return &Input{id: ident.NewInputPinID(), name: name, typ: typ}
}

func (p *Input) ID() ident.InputPinID { return p.id }
func (p *Input) Name() string         { return p.name }

// Type returns the declared value type of the pin.
func (p *Input) Type() cty.Type { return p.typ }

// Peer returns the output pin this input is linked to.
func (p *Input) Peer() (ident.OutputPinID, bool) {
	return p.peer, !p.peer.IsZero()
}

// IsLinked reports whether the input currently has an upstream link.
func (p *Input) IsLinked() bool { return !p.peer.IsZero() }

// LinkTo records out as the upstream peer, replacing any previous peer. The
// graph guarantees the pin is free before calling it.
func (p *Input) LinkTo(out ident.OutputPinID) {
	p.peer = out
}

// Unlink clears the peer only if it is out. It reports whether anything changed.
func (p *Input) Unlink(out ident.OutputPinID) bool {
	if p.peer.IsZero() || p.peer != out {
		return false
	}
	p.peer = 0
	return true
}

// Output is an output endpoint owned by a single node.
type Output struct {
	id   ident.OutputPinID
	name string
	typ  cty.Type

	peers []ident.InputPinID
}

// NewOutput creates an unlinked output pin with a fresh id.
func NewOutput(name string, typ cty.Type) *Output {
	if typ == cty.NilType {
		typ = cty.DynamicPseudoType
	}
	return &Output{id: ident.NewOutputPinID(), name: name, typ: typ}
}

func (p *Output) ID() ident.OutputPinID { return p.id }
func (p *Output) Name() string          { return p.name }

// Type returns the declared value type of the pin.
func (p *Output) Type() cty.Type { return p.typ }

// Peers returns a copy of the linked inputs in link order.
func (p *Output) Peers() []ident.InputPinID {
	return slices.Clone(p.peers)
}

// IsLinked reports whether at least one input is linked to this output.
func (p *Output) IsLinked() bool { return len(p.peers) > 0 }

// LinkTo appends in to the peer list. Linking the same input twice is a no-op.
func (p *Output) LinkTo(in ident.InputPinID) {
	if slices.Contains(p.peers, in) {
		return
	}
	p.peers = append(p.peers, in)
}

// Unlink removes in from the peer list, preserving the order of the others.
func (p *Output) Unlink(in ident.InputPinID) bool {
	i := slices.Index(p.peers, in)
	if i < 0 {
		return false
	}
	p.peers = slices.Delete(p.peers, i, i+1)
	return true
}
