// internal/ident/types.go
package ident

import (
	"strconv"
	"sync/atomic"
)

// NodeID identifies a node for its whole lifetime.
type NodeID uint64

// InputPinID identifies an input pin. An input pin belongs to exactly one node.
type InputPinID uint64

// OutputPinID identifies an output pin. An output pin belongs to exactly one node.
type OutputPinID uint64

// LinkID identifies an established or candidate link.
type LinkID uint64

var (
	nodeSeq   atomic.Uint64
	inputSeq  atomic.Uint64
	outputSeq atomic.Uint64
	linkSeq   atomic.Uint64
)

// NewNodeID returns a fresh, never-before-issued node id.
func NewNodeID() NodeID { return NodeID(nodeSeq.Add(1)) }

// NewInputPinID returns a fresh input pin id.
func NewInputPinID() InputPinID { return InputPinID(inputSeq.Add(1)) }

// NewOutputPinID returns a fresh output pin id.
func NewOutputPinID() OutputPinID { return OutputPinID(outputSeq.Add(1)) }

// NewLinkID returns a fresh link id.
func NewLinkID() LinkID { return LinkID(linkSeq.Add(1)) }

const (
	nodePrefix   = "node"
	inputPrefix  = "in"
	outputPrefix = "out"
	linkPrefix   = "link"
)

func format(prefix string, v uint64) string {
	return prefix + ":" + strconv.FormatUint(v, 10)
}

func (id NodeID) String() string      { return format(nodePrefix, uint64(id)) }
func (id InputPinID) String() string  { return format(inputPrefix, uint64(id)) }
func (id OutputPinID) String() string { return format(outputPrefix, uint64(id)) }
func (id LinkID) String() string      { return format(linkPrefix, uint64(id)) }

// IsZero reports whether the id is unset.
func (id NodeID) IsZero() bool { return id == 0 }

// IsZero reports whether the id is unset.
func (id OutputPinID) IsZero() bool { return id == 0 }
