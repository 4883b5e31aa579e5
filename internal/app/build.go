package app

import (
	"context"
	"fmt"

	"github.com/vk/odegraph/internal/config"
	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/graph"
	"github.com/vk/odegraph/internal/node"
	"github.com/vk/odegraph/internal/pin"
	"github.com/vk/odegraph/internal/registry"
)

// buildGraph adds the configured nodes to g and requests the configured
// links. Links are established by the first Update.
func buildGraph(ctx context.Context, g *graph.Graph, reg *registry.Registry, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	byName := make(map[string]node.Behavior, len(m.Nodes))
	for _, n := range m.Nodes {
		b, err := reg.Build(ctx, n.Kind, n.Name, n.Args)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		if err := g.AddNode(ctx, b); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		byName[n.Name] = b
	}

	for _, l := range m.Links {
		out, err := resolveOutput(byName, l.From)
		if err != nil {
			return err
		}
		in, err := resolveInput(byName, l.To)
		if err != nil {
			return err
		}
		g.AddLink(ctx, out.ID(), in.ID())
	}

	logger.Info("Graph built.", "nodes", len(m.Nodes), "links_requested", len(m.Links))
	return nil
}

func resolveOutput(byName map[string]node.Behavior, ref string) (*pin.Output, error) {
	nodeName, pinName, err := config.Endpoint(ref)
	if err != nil {
		return nil, err
	}
	b, ok := byName[nodeName]
	if !ok {
		return nil, fmt.Errorf("link from %q: unknown node %q", ref, nodeName)
	}
	for _, p := range b.Outputs() {
		if p.Name() == pinName {
			return p, nil
		}
	}
	return nil, fmt.Errorf("link from %q: %s node %q has no output %q", ref, b.Kind(), nodeName, pinName)
}

func resolveInput(byName map[string]node.Behavior, ref string) (*pin.Input, error) {
	nodeName, pinName, err := config.Endpoint(ref)
	if err != nil {
		return nil, err
	}
	b, ok := byName[nodeName]
	if !ok {
		return nil, fmt.Errorf("link to %q: unknown node %q", ref, nodeName)
	}
	for _, p := range b.Inputs() {
		if p.Name() == pinName {
			return p, nil
		}
	}
	return nil, fmt.Errorf("link to %q: %s node %q has no input %q", ref, b.Kind(), nodeName, pinName)
}
