package graph

import (
	"context"

	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/node"
)

// Editor is the edit surface consumed by interaction layers such as the remote
// editor bridge. *Graph implements it.
//
// AddNode and RemoveNode take effect immediately. AddLink and RemoveLink only
// enqueue a message; the link changes when the next Update applies it, and the
// request may still be dropped at that point.
type Editor interface {
	AddNode(ctx context.Context, b node.Behavior) error
	RemoveNode(ctx context.Context, id ident.NodeID) (node.Behavior, bool)
	AddLink(ctx context.Context, out ident.OutputPinID, in ident.InputPinID) message.Tag
	RemoveLink(ctx context.Context, id ident.LinkID) bool

	Node(id ident.NodeID) (node.Behavior, bool)
	Nodes() []node.Behavior
	Links() []message.Link
}

var _ Editor = (*Graph)(nil)
var _ node.Context = (*Graph)(nil)
