package graph

import (
	"context"
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set"
	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/scheduler"
	"github.com/vk/odegraph/internal/telemetry"
)

// Graph is the registry of nodes, pins and links plus the scheduler that
// drives messages through them. Construct it with New.
type Graph struct {
	nodes map[ident.NodeID]node.Behavior
	order []ident.NodeID

	inputOwner  map[ident.InputPinID]ident.NodeID
	outputOwner map[ident.OutputPinID]ident.NodeID

	links    []message.Link
	received map[ident.NodeID]mapset.Set

	sched         *scheduler.Scheduler
	pruneReceived bool
}

// Option configures a Graph.
type Option func(*Graph)

// WithReceivedPruning drops tags from every received-set once no message of
// that wave is pending anymore. Without it received-sets only grow.
func WithReceivedPruning() Option {
	return func(g *Graph) { g.pruneReceived = true }
}

// New returns an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:       make(map[ident.NodeID]node.Behavior),
		inputOwner:  make(map[ident.InputPinID]ident.NodeID),
		outputOwner: make(map[ident.OutputPinID]ident.NodeID),
		received:    make(map[ident.NodeID]mapset.Set),
		sched:       scheduler.New(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode registers b and indexes its pins. A duplicate node id or a pin that
// another registered node already owns is rejected and leaves the graph as it
// was.
func (g *Graph) AddNode(ctx context.Context, b node.Behavior) error {
	id := b.ID()
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("add %s: %w", id, ErrDuplicateNode)
	}

	ins := b.Inputs()
	outs := b.Outputs()
	seenIn := make(map[ident.InputPinID]struct{}, len(ins))
	for _, p := range ins {
		if _, taken := g.inputOwner[p.ID()]; taken {
			return fmt.Errorf("add %s: %s: %w", id, p.ID(), ErrDuplicatePin)
		}
		if _, dup := seenIn[p.ID()]; dup {
			return fmt.Errorf("add %s: %s declared twice: %w", id, p.ID(), ErrDuplicatePin)
		}
		seenIn[p.ID()] = struct{}{}
	}
	seenOut := make(map[ident.OutputPinID]struct{}, len(outs))
	for _, p := range outs {
		if _, taken := g.outputOwner[p.ID()]; taken {
			return fmt.Errorf("add %s: %s: %w", id, p.ID(), ErrDuplicatePin)
		}
		if _, dup := seenOut[p.ID()]; dup {
			return fmt.Errorf("add %s: %s declared twice: %w", id, p.ID(), ErrDuplicatePin)
		}
		seenOut[p.ID()] = struct{}{}
	}

	g.nodes[id] = b
	g.order = append(g.order, id)
	for _, p := range ins {
		g.inputOwner[p.ID()] = id
	}
	for _, p := range outs {
		g.outputOwner[p.ID()] = id
	}
	g.received[id] = mapset.NewThreadUnsafeSet()
	g.observeSize()

	ctxlog.FromContext(ctx).Debug("Node added.", "node", id, "kind", b.Kind(), "name", b.Name(),
		"inputs", len(ins), "outputs", len(outs))
	return nil
}

// RemoveNode unregisters a node and cascades to every link touching it.
//
// The cascade is immediate: each touching link leaves the registry and both
// pins at once, so no link ever points at a missing node. Surviving inputs that
// lost their upstream are notified with Pop right away; whatever they return is
// enqueued under one fresh tag and propagates on the next Update.
func (g *Graph) RemoveNode(ctx context.Context, id ident.NodeID) (node.Behavior, bool) {
	b, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	logger := ctxlog.FromContext(ctx)

	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(n ident.NodeID) bool { return n == id })
	for _, p := range b.Inputs() {
		delete(g.inputOwner, p.ID())
	}
	for _, p := range b.Outputs() {
		delete(g.outputOwner, p.ID())
	}
	delete(g.received, id)

	var pruned []message.Link
	var follow []message.Message
	g.links = slices.DeleteFunc(g.links, func(l message.Link) bool {
		ownsIn := false
		if _, ok := b.Input(l.Input); ok {
			ownsIn = true
		}
		ownsOut := false
		if _, ok := b.Output(l.Output); ok {
			ownsOut = true
		}
		if !ownsIn && !ownsOut {
			return false
		}
		pruned = append(pruned, l)
		return true
	})

	for _, l := range pruned {
		if p, ok := b.Input(l.Input); ok {
			p.Unlink(l.Output)
		}
		if p, ok := b.Output(l.Output); ok {
			p.Unlink(l.Input)
		}
		// Survivor upstream: forget the downstream peer.
		if owner, ok := g.outputOwner[l.Output]; ok {
			if p, ok := g.nodes[owner].Output(l.Output); ok {
				p.Unlink(l.Input)
			}
		}
		// Survivor downstream: lose the value and react.
		if owner, ok := g.inputOwner[l.Input]; ok {
			survivor := g.nodes[owner]
			if p, ok := survivor.Input(l.Input); ok && p.Unlink(l.Output) {
				follow = append(follow, survivor.Notify(node.Pop{Pin: l.Input})...)
			}
		}
		logger.Debug("Link pruned with node.", "link", l, "node", id)
	}

	if len(follow) > 0 {
		g.sched.EnqueueAll(follow)
	}
	g.observeSize()

	logger.Debug("Node removed.", "node", id, "links_pruned", len(pruned))
	return b, true
}

// AddLink requests a link from out to in under a fresh tag and returns that
// tag. The link is checked and established when the message is applied.
func (g *Graph) AddLink(ctx context.Context, out ident.OutputPinID, in ident.InputPinID) message.Tag {
	l := message.NewLink(in, out)
	tag := g.sched.Enqueue(message.AddLink{Link: l})
	ctxlog.FromContext(ctx).Debug("Link requested.", "link", l, "tag", tag)
	return tag
}

// RemoveLink looks id up in the registry and, if present, requests its
// removal under a fresh tag.
func (g *Graph) RemoveLink(ctx context.Context, id ident.LinkID) bool {
	i := slices.IndexFunc(g.links, func(l message.Link) bool { return l.ID == id })
	if i < 0 {
		ctxlog.FromContext(ctx).Debug("Link removal ignored, link not registered.", "link", id)
		return false
	}
	l := g.links[i]
	tag := g.sched.Enqueue(message.RemoveLink{Link: l})
	ctxlog.FromContext(ctx).Debug("Link removal requested.", "link", l, "tag", tag)
	return true
}

// Enqueue queues an arbitrary message under a fresh tag.
func (g *Graph) Enqueue(m message.Message) message.Tag {
	return g.sched.Enqueue(m)
}

// Pending returns the number of messages waiting for the next Update.
func (g *Graph) Pending() int {
	return g.sched.Pending()
}

// Node returns the registered node with the given id.
func (g *Graph) Node(id ident.NodeID) (node.Behavior, bool) {
	b, ok := g.nodes[id]
	return b, ok
}

// Nodes returns the registered nodes in insertion order.
func (g *Graph) Nodes() []node.Behavior {
	out := make([]node.Behavior, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Links returns a copy of the link registry in the order links were made.
func (g *Graph) Links() []message.Link {
	return slices.Clone(g.links)
}

// GetLink returns the registered link ending at in.
func (g *Graph) GetLink(in ident.InputPinID) (message.Link, bool) {
	i := slices.IndexFunc(g.links, func(l message.Link) bool { return l.Input == in })
	if i < 0 {
		return message.Link{}, false
	}
	return g.links[i], true
}

// InputOwner returns the node owning input pin in.
func (g *Graph) InputOwner(in ident.InputPinID) (ident.NodeID, bool) {
	id, ok := g.inputOwner[in]
	return id, ok
}

// OutputOwner returns the node owning output pin out.
func (g *Graph) OutputOwner(out ident.OutputPinID) (ident.NodeID, bool) {
	id, ok := g.outputOwner[out]
	return id, ok
}

// HasReceived reports whether node id has already been pushed for tag.
func (g *Graph) HasReceived(id ident.NodeID, tag message.Tag) bool {
	set, ok := g.received[id]
	return ok && set.Contains(tag)
}

// Received returns the tags node id has been pushed, in ascending order.
func (g *Graph) Received(id ident.NodeID) []message.Tag {
	set, ok := g.received[id]
	if !ok {
		return nil
	}
	tags := make([]message.Tag, 0, set.Cardinality())
	set.Each(func(v interface{}) bool {
		tags = append(tags, v.(message.Tag))
		return false
	})
	slices.Sort(tags)
	return tags
}

// Upstream returns the node whose output feeds input in.
func (g *Graph) Upstream(in ident.InputPinID) (node.Behavior, bool) {
	l, ok := g.GetLink(in)
	if !ok {
		return nil, false
	}
	owner, ok := g.outputOwner[l.Output]
	if !ok {
		return nil, false
	}
	return g.Node(owner)
}

// nodePair resolves two distinct nodes. Equal ids are rejected so callers can
// never hold the same node under two names.
func (g *Graph) nodePair(a, b ident.NodeID) (node.Behavior, node.Behavior, error) {
	if a == b {
		return nil, nil, fmt.Errorf("%s: %w", a, ErrSameNode)
	}
	na, ok := g.nodes[a]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", a, ErrNodeNotFound)
	}
	nb, ok := g.nodes[b]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", b, ErrNodeNotFound)
	}
	return na, nb, nil
}

func (g *Graph) observeSize() {
	telemetry.GraphSize.WithLabelValues("nodes").Set(float64(len(g.nodes)))
	telemetry.GraphSize.WithLabelValues("links").Set(float64(len(g.links)))
}
