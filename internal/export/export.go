package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/model"
	"github.com/vk/odegraph/internal/node"
)

// Format selects the encoding used by Write.
type Format string

const (
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatHCL:
		return f, nil
	}
	return "", fmt.Errorf("invalid export format %q, must be one of: json, hcl", s)
}

// Source is the read-only view of a graph the exporter needs.
type Source interface {
	node.Context
	Nodes() []node.Behavior
}

// Exporter builds models stamped with fixed metadata.
type Exporter struct {
	metadata model.Metadata
}

// New returns an exporter using meta for every model it builds.
func New(meta model.Metadata) *Exporter {
	return &Exporter{metadata: meta}
}

// Build collects the contributions of every node in src.
func (e *Exporter) Build(ctx context.Context, src Source) model.Model {
	logger := ctxlog.FromContext(ctx)
	m := model.Model{
		Metadata:  e.metadata,
		Arguments: []model.Argument{},
		Equations: map[string]model.Equation{},
	}
	for _, n := range src.Nodes() {
		c := n.ToEquation(src)
		m.Arguments = append(m.Arguments, c.Arguments...)
		for _, eq := range c.Equations {
			if prev, dup := m.Equations[eq.Name]; dup {
				logger.Warn("Duplicate equation name, keeping the later one.",
					"equation", eq.Name, "previous", prev.Argument, "argument", eq.Argument)
			}
			m.Equations[eq.Name] = eq
		}
	}
	logger.Debug("Model built.", "arguments", len(m.Arguments), "equations", len(m.Equations))
	return m
}

// Write encodes m to w in format f.
func Write(w io.Writer, m model.Model, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(m, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatHCL:
		data, err = encodeHCL(m)
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode model as %s: %w", f, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// WriteFile writes m to path, creating or truncating it.
func WriteFile(path string, m model.Model, f Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Write(file, m, f)
}
