package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/graph"
	"github.com/vk/odegraph/internal/ident"
	"github.com/vk/odegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Event names understood by Decode.
const (
	EventAddNode    = "add_node"
	EventAddLink    = "add_link"
	EventRemoveLink = "remove_link"
	EventRemoveNode = "remove_node"
)

// ErrUnknownEvent is returned by Decode for an event it has no command for.
var ErrUnknownEvent = errors.New("unknown editor event")

// ErrNotFound is returned by Apply when a command names a node or link that
// is not registered.
var ErrNotFound = errors.New("not found")

// Command is one edit requested by the remote editor.
type Command interface {
	Event() string
	Apply(ctx context.Context, ed graph.Editor, reg *registry.Registry) error
}

// AddNode builds a node of Kind through the registry and registers it.
type AddNode struct {
	Kind string
	Name string
	Args cty.Value
}

// AddLink requests a link from Output to Input.
type AddLink struct {
	Output ident.OutputPinID
	Input  ident.InputPinID
}

// RemoveLink requests removal of a registered link.
type RemoveLink struct {
	Link ident.LinkID
}

// RemoveNode removes a node and every link touching it.
type RemoveNode struct {
	Node ident.NodeID
}

func (AddNode) Event() string    { return EventAddNode }
func (AddLink) Event() string    { return EventAddLink }
func (RemoveLink) Event() string { return EventRemoveLink }
func (RemoveNode) Event() string { return EventRemoveNode }

func (c AddNode) Apply(ctx context.Context, ed graph.Editor, reg *registry.Registry) error {
	b, err := reg.Build(ctx, c.Kind, c.Name, c.Args)
	if err != nil {
		return err
	}
	return ed.AddNode(ctx, b)
}

func (c AddLink) Apply(ctx context.Context, ed graph.Editor, _ *registry.Registry) error {
	ed.AddLink(ctx, c.Output, c.Input)
	return nil
}

func (c RemoveLink) Apply(ctx context.Context, ed graph.Editor, _ *registry.Registry) error {
	if !ed.RemoveLink(ctx, c.Link) {
		return fmt.Errorf("link %s: %w", c.Link, ErrNotFound)
	}
	return nil
}

func (c RemoveNode) Apply(ctx context.Context, ed graph.Editor, _ *registry.Registry) error {
	if _, ok := ed.RemoveNode(ctx, c.Node); !ok {
		return fmt.Errorf("node %s: %w", c.Node, ErrNotFound)
	}
	return nil
}

type addNodePayload struct {
	Kind string          `json:"kind"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type addLinkPayload struct {
	Output string `json:"output"`
	Input  string `json:"input"`
}

type removeLinkPayload struct {
	Link string `json:"link"`
}

type removeNodePayload struct {
	Node string `json:"node"`
}

// Decode turns a socket.io event and its first argument into a Command.
// payload is whatever the client library handed over: usually a
// map[string]any, but raw JSON text or bytes are accepted too.
func Decode(event string, payload any) (Command, error) {
	raw, err := rawJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", event, err)
	}

	switch event {
	case EventAddNode:
		var p addNodePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event, err)
		}
		if p.Kind == "" {
			return nil, fmt.Errorf("decode %s: kind is required", event)
		}
		args, err := decodeArgs(p.Args)
		if err != nil {
			return nil, fmt.Errorf("decode %s: args: %w", event, err)
		}
		return AddNode{Kind: p.Kind, Name: p.Name, Args: args}, nil

	case EventAddLink:
		var p addLinkPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event, err)
		}
		out, err := ident.ParseOutputPinID(p.Output)
		if err != nil {
			return nil, fmt.Errorf("decode %s: output: %w", event, err)
		}
		in, err := ident.ParseInputPinID(p.Input)
		if err != nil {
			return nil, fmt.Errorf("decode %s: input: %w", event, err)
		}
		return AddLink{Output: out, Input: in}, nil

	case EventRemoveLink:
		var p removeLinkPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event, err)
		}
		id, err := ident.ParseLinkID(p.Link)
		if err != nil {
			return nil, fmt.Errorf("decode %s: link: %w", event, err)
		}
		return RemoveLink{Link: id}, nil

	case EventRemoveNode:
		var p removeNodePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", event, err)
		}
		id, err := ident.ParseNodeID(p.Node)
		if err != nil {
			return nil, fmt.Errorf("decode %s: node: %w", event, err)
		}
		return RemoveNode{Node: id}, nil
	}
	return nil, fmt.Errorf("decode %q: %w", event, ErrUnknownEvent)
}

func rawJSON(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return nil, errors.New("missing payload")
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	case json.RawMessage:
		return p, nil
	}
	return json.Marshal(payload)
}

// decodeArgs converts an arbitrary JSON value into a cty value, inferring the
// type from the JSON itself. Absent or null args decode to cty.NullVal so the
// registry applies the kind's defaults.
func decodeArgs(raw json.RawMessage) (cty.Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(raw, ty)
}

// ApplyAll drains q and applies every command to ed. Rejected commands are
// logged and handed to reject when it is non-nil; they never stop the drain.
func ApplyAll(ctx context.Context, q *Queue, ed graph.Editor, reg *registry.Registry, reject func(Command, error)) int {
	logger := ctxlog.FromContext(ctx)
	applied := 0
	for {
		cmd, ok := q.TryDequeue()
		if !ok {
			return applied
		}
		if err := cmd.Apply(ctx, ed, reg); err != nil {
			logger.Debug("Editor command failed.", "event", cmd.Event(), "error", err)
			if reject != nil {
				reject(cmd, err)
			}
			continue
		}
		applied++
		logger.Debug("Editor command applied.", "event", cmd.Event())
	}
}
