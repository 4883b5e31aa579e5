package message

import (
	"fmt"

	"github.com/vk/odegraph/internal/ident"
	"github.com/zclconf/go-cty/cty"
)

// Tag identifies a propagation wave. Tags are issued in increasing order and
// never reused.
type Tag uint64

// Kind names a message kind for logs and metrics.
type Kind string

const (
	KindDeliver    Kind = "deliver"
	KindAddLink    Kind = "add_link"
	KindRemoveLink Kind = "remove_link"
)

// Message is one of Deliver, AddLink or RemoveLink.
type Message interface {
	Kind() Kind
	isMessage()
}

// Link references exactly one input pin and one output pin.
type Link struct {
	ID     ident.LinkID
	Input  ident.InputPinID
	Output ident.OutputPinID
}

// NewLink builds a candidate link from out to in with a fresh id.
func NewLink(in ident.InputPinID, out ident.OutputPinID) Link {
	return Link{ID: ident.NewLinkID(), Input: in, Output: out}
}

func (l Link) String() string {
	return fmt.Sprintf("%s(%s -> %s)", l.ID, l.Output, l.Input)
}

// Deliver hands Data to the node owning To. From records the producing output;
// it is not used for routing.
type Deliver struct {
	Data cty.Value
	From ident.OutputPinID
	To   ident.InputPinID
}

// AddLink requests that Link be established.
type AddLink struct {
	Link Link
}

// RemoveLink requests that Link be torn down.
type RemoveLink struct {
	Link Link
}

func (Deliver) Kind() Kind    { return KindDeliver }
func (AddLink) Kind() Kind    { return KindAddLink }
func (RemoveLink) Kind() Kind { return KindRemoveLink }

func (Deliver) isMessage()    {}
func (AddLink) isMessage()    {}
func (RemoveLink) isMessage() {}

// Tagged pairs a message with the wave it belongs to.
type Tagged struct {
	Tag     Tag
	Message Message
}
