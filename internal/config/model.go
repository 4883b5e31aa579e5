package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Engine Engine
	Export Export
	// Editor is nil when no remote editor is configured.
	Editor *Editor
	Nodes  []*Node
	Links  []*Link
}

// Engine controls how the host loop drives the graph.
type Engine struct {
	TickInterval time.Duration
	// MaxStepsPerTick bounds the supersteps run per tick. 1 means one
	// generation per tick.
	MaxStepsPerTick int
	PruneReceived   bool
}

// Export describes the model file written on shutdown.
type Export struct {
	Name string
	// Format is "json" or "hcl".
	Format string
	// Path is the output file. Empty skips the export and "-" writes to the
	// application output.
	Path      string
	StartTime float64
	DeltaTime float64
	EndTime   float64
}

// Editor is the remote editor connection.
type Editor struct {
	URL       string
	Namespace string
	Timeout   time.Duration
}

// Node is one node of the initial graph.
type Node struct {
	Kind string
	Name string
	// Args is a cty object, or null for all defaults.
	Args     cty.Value
	Position *Position
}

// Position is an editor coordinate carried into the exported model.
type Position struct {
	X, Y float64
}

// Link connects an output to an input, both written as "<node>.<pin>".
type Link struct {
	From string
	To   string
}

// Endpoint splits a "<node>.<pin>" reference.
func Endpoint(ref string) (nodeName, pinName string, err error) {
	nodeName, pinName, ok := strings.Cut(ref, ".")
	if !ok || nodeName == "" || pinName == "" {
		return "", "", fmt.Errorf("invalid endpoint %q, want <node>.<pin>", ref)
	}
	return nodeName, pinName, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Model {
	return &Model{
		Engine: Engine{
			TickInterval:    16 * time.Millisecond,
			MaxStepsPerTick: 1,
		},
		Export: Export{
			Name:   "model",
			Format: "json",
		},
	}
}

// DefaultEditor returns editor settings for url with defaults filled in.
func DefaultEditor(url string) *Editor {
	return &Editor{URL: url, Namespace: "/", Timeout: 10 * time.Second}
}

// Validate checks cross-field constraints.
func (m *Model) Validate() error {
	var errs []string
	if m.Engine.TickInterval <= 0 {
		errs = append(errs, "engine.tick_interval must be positive")
	}
	if m.Engine.MaxStepsPerTick < 1 {
		errs = append(errs, "engine.max_steps_per_tick must be at least 1")
	}
	switch m.Export.Format {
	case "json", "hcl":
	default:
		errs = append(errs, fmt.Sprintf("export.format %q must be one of: json, hcl", m.Export.Format))
	}
	if m.Export.DeltaTime < 0 {
		errs = append(errs, "export.delta_time must not be negative")
	}
	if m.Export.EndTime < m.Export.StartTime {
		errs = append(errs, "export.end_time must not be before start_time")
	}
	if m.Editor != nil && m.Editor.URL == "" {
		errs = append(errs, "editor.url must not be empty")
	}

	names := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		if n.Name == "" {
			errs = append(errs, fmt.Sprintf("node of kind %q has no name", n.Kind))
			continue
		}
		if _, dup := names[n.Name]; dup {
			errs = append(errs, fmt.Sprintf("node %q declared twice", n.Name))
		}
		names[n.Name] = struct{}{}
	}
	for _, l := range m.Links {
		for _, ref := range []string{l.From, l.To} {
			nodeName, _, err := Endpoint(ref)
			if err != nil {
				errs = append(errs, err.Error())
				continue
			}
			if _, ok := names[nodeName]; !ok {
				errs = append(errs, fmt.Sprintf("link endpoint %q references unknown node %q", ref, nodeName))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
