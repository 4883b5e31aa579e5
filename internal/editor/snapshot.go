package editor

import (
	"github.com/vk/odegraph/internal/graph"
	"github.com/vk/odegraph/internal/node"
)

// Snapshot is the graph state published to the editor after each tick.
type Snapshot struct {
	Links []LinkView `json:"links"`
	Nodes []NodeView `json:"nodes"`
}

// NodeView describes one node and its pins.
type NodeView struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Name    string    `json:"name"`
	Inputs  []PinView `json:"inputs"`
	Outputs []PinView `json:"outputs"`
}

// PinView describes one pin. Peers lists the linked pins on the other side.
type PinView struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Peers []string `json:"peers"`
}

// LinkView describes one registered link.
type LinkView struct {
	ID     string `json:"id"`
	Output string `json:"output"`
	Input  string `json:"input"`
}

// Capture reads the current nodes and links from ed.
func Capture(ed graph.Editor) Snapshot {
	s := Snapshot{Links: []LinkView{}, Nodes: []NodeView{}}
	for _, l := range ed.Links() {
		s.Links = append(s.Links, LinkView{
			ID:     l.ID.String(),
			Output: l.Output.String(),
			Input:  l.Input.String(),
		})
	}
	for _, b := range ed.Nodes() {
		s.Nodes = append(s.Nodes, viewNode(b))
	}
	return s
}

func viewNode(b node.Behavior) NodeView {
	v := NodeView{
		ID:      b.ID().String(),
		Kind:    b.Kind(),
		Name:    b.Name(),
		Inputs:  []PinView{},
		Outputs: []PinView{},
	}
	for _, in := range b.Inputs() {
		pv := PinView{ID: in.ID().String(), Name: in.Name(), Type: in.Type().FriendlyName(), Peers: []string{}}
		if peer, ok := in.Peer(); ok {
			pv.Peers = append(pv.Peers, peer.String())
		}
		v.Inputs = append(v.Inputs, pv)
	}
	for _, out := range b.Outputs() {
		pv := PinView{ID: out.ID().String(), Name: out.Name(), Type: out.Type().FriendlyName(), Peers: []string{}}
		for _, peer := range out.Peers() {
			pv.Peers = append(pv.Peers, peer.String())
		}
		v.Outputs = append(v.Outputs, pv)
	}
	return v
}
