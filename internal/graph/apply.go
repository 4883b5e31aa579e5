package graph

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/message"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/telemetry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// DropReason says why a message was dropped.
type DropReason string

const (
	DropDanglingPin   DropReason = "dangling_pin"
	DropDanglingNode  DropReason = "dangling_node"
	DropUnlinked      DropReason = "unlinked"
	DropDuplicateTag  DropReason = "duplicate_tag"
	DropOccupied      DropReason = "occupied"
	DropSelfLink      DropReason = "self_link"
	DropIncompatible  DropReason = "incompatible"
	DropDeclined      DropReason = "declined"
	DropStale         DropReason = "stale"
	DropIndexMismatch DropReason = "index_mismatch"
)

// Apply applies one tagged message and returns the follow-up messages for the
// next generation. It implements scheduler.Applier.
func (g *Graph) Apply(ctx context.Context, m message.Tagged) []message.Message {
	switch msg := m.Message.(type) {
	case message.Deliver:
		return g.applyDeliver(ctx, m.Tag, msg)
	case message.AddLink:
		return g.applyAddLink(ctx, m.Tag, msg.Link)
	case message.RemoveLink:
		return g.applyRemoveLink(ctx, m.Tag, msg.Link)
	}
	return nil
}

func (g *Graph) applyDeliver(ctx context.Context, tag message.Tag, d message.Deliver) []message.Message {
	ownerID, ok := g.inputOwner[d.To]
	if !ok {
		return g.drop(ctx, tag, d, DropDanglingPin, "pin", d.To)
	}
	owner, ok := g.nodes[ownerID]
	if !ok {
		return g.drop(ctx, tag, d, DropDanglingNode, "node", ownerID)
	}
	in, ok := owner.Input(d.To)
	if !ok {
		return g.drop(ctx, tag, d, DropIndexMismatch, "node", ownerID, "pin", d.To)
	}
	if peer, linked := in.Peer(); !linked || peer != d.From {
		return g.drop(ctx, tag, d, DropUnlinked, "pin", d.To, "from", d.From)
	}

	received := g.received[ownerID]
	if received.Contains(tag) {
		return g.drop(ctx, tag, d, DropDuplicateTag, "node", ownerID)
	}

	payload := d.Data
	if !in.Type().Equals(cty.DynamicPseudoType) {
		v, err := convert.Convert(payload, in.Type())
		if err != nil {
			return g.drop(ctx, tag, d, DropIncompatible, "pin", d.To, "error", err)
		}
		payload = v
	}

	received.Add(tag)
	g.applied(d)
	return owner.Notify(node.Push{Pin: d.To, Payload: payload})
}

func (g *Graph) applyAddLink(ctx context.Context, tag message.Tag, l message.Link) []message.Message {
	msg := message.AddLink{Link: l}
	if existing, occupied := g.GetLink(l.Input); occupied {
		return g.drop(ctx, tag, msg, DropOccupied, "link", l, "existing", existing)
	}

	inOwner, ok := g.inputOwner[l.Input]
	if !ok {
		return g.drop(ctx, tag, msg, DropDanglingPin, "pin", l.Input)
	}
	outOwner, ok := g.outputOwner[l.Output]
	if !ok {
		return g.drop(ctx, tag, msg, DropDanglingPin, "pin", l.Output)
	}
	inNode, outNode, err := g.nodePair(inOwner, outOwner)
	if err != nil {
		if errors.Is(err, ErrSameNode) {
			return g.drop(ctx, tag, msg, DropSelfLink, "node", inOwner)
		}
		return g.drop(ctx, tag, msg, DropDanglingNode, "error", err)
	}

	in, ok := inNode.Input(l.Input)
	if !ok {
		return g.drop(ctx, tag, msg, DropIndexMismatch, "node", inOwner, "pin", l.Input)
	}
	out, ok := outNode.Output(l.Output)
	if !ok {
		return g.drop(ctx, tag, msg, DropIndexMismatch, "node", outOwner, "pin", l.Output)
	}
	if in.IsLinked() {
		return g.drop(ctx, tag, msg, DropOccupied, "link", l)
	}
	if !Linkable(out.Type(), in.Type()) {
		return g.drop(ctx, tag, msg, DropIncompatible, "link", l,
			"from_type", out.Type().FriendlyName(), "to_type", in.Type().FriendlyName())
	}
	if !inNode.ShouldLink(l.Input) {
		return g.drop(ctx, tag, msg, DropDeclined, "link", l, "node", inOwner)
	}

	in.LinkTo(out.ID())
	out.LinkTo(in.ID())
	g.links = append(g.links, l)
	g.observeSize()
	g.applied(msg)
	ctxlog.FromContext(ctx).Debug("Link established.", "link", l, "tag", tag)

	return outNode.BroadcastData()
}

func (g *Graph) applyRemoveLink(ctx context.Context, tag message.Tag, l message.Link) []message.Message {
	msg := message.RemoveLink{Link: l}
	inOwner, inKnown := g.inputOwner[l.Input]
	outOwner, outKnown := g.outputOwner[l.Output]
	if inKnown && outKnown && inOwner == outOwner {
		return g.drop(ctx, tag, msg, DropSelfLink, "node", inOwner)
	}

	registered := false
	if i := slices.IndexFunc(g.links, func(x message.Link) bool { return x.ID == l.ID }); i >= 0 {
		g.links = slices.Delete(g.links, i, i+1)
		registered = true
	}

	if outKnown {
		if outNode, ok := g.nodes[outOwner]; ok {
			if out, ok := outNode.Output(l.Output); ok {
				out.Unlink(l.Input)
			}
		}
	}

	var follow []message.Message
	unlinked := false
	if inKnown {
		if inNode, ok := g.nodes[inOwner]; ok {
			if in, ok := inNode.Input(l.Input); ok && in.Unlink(l.Output) {
				unlinked = true
				follow = inNode.Notify(node.Pop{Pin: l.Input})
			}
		}
	}

	if !registered && !unlinked {
		return g.drop(ctx, tag, msg, DropStale, "link", l)
	}
	g.observeSize()
	g.applied(msg)
	ctxlog.FromContext(ctx).Debug("Link removed.", "link", l, "tag", tag, "popped", unlinked)
	return follow
}

// Linkable reports whether values of type from may flow into a pin declared
// as to. Dynamic types on either side always pass; the value is checked again
// on delivery.
func Linkable(from, to cty.Type) bool {
	if from.Equals(to) {
		return true
	}
	return convert.GetConversionUnsafe(from, to) != nil
}

func (g *Graph) applied(m message.Message) {
	telemetry.MessagesApplied.WithLabelValues(string(m.Kind())).Inc()
}

func (g *Graph) drop(ctx context.Context, tag message.Tag, m message.Message, reason DropReason, args ...any) []message.Message {
	telemetry.MessagesDropped.WithLabelValues(string(m.Kind()), string(reason)).Inc()

	level := slog.LevelDebug
	if reason == DropIndexMismatch {
		level = slog.LevelWarn
	}
	attrs := append([]any{"kind", m.Kind(), "reason", reason, "tag", tag}, args...)
	ctxlog.FromContext(ctx).Log(ctx, level, "Message dropped.", attrs...)
	return nil
}
