package export

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/odegraph/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// encodeHCL renders m as:
//
//	metadata { name, start_time, delta_time, end_time }
//	position "<name>" { x, y }
//	argument "<name>" { kind, value | operation + component blocks }
//	equation "<name>" { argument }
//
// Positions and equations are sorted by name.
func encodeHCL(m model.Model) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	meta := root.AppendNewBlock("metadata", nil).Body()
	meta.SetAttributeValue("name", cty.StringVal(m.Metadata.Name))
	for _, kv := range []struct {
		name string
		v    float64
	}{
		{"start_time", m.Metadata.ODE.StartTime},
		{"delta_time", m.Metadata.ODE.DeltaTime},
		{"end_time", m.Metadata.ODE.EndTime},
	} {
		if err := setNumber(meta, kv.name, kv.v); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(m.Metadata.Positions)) {
		p := m.Metadata.Positions[name]
		root.AppendNewline()
		body := root.AppendNewBlock("position", []string{name}).Body()
		if err := setNumber(body, "x", p.X); err != nil {
			return nil, fmt.Errorf("position %q: %w", name, err)
		}
		if err := setNumber(body, "y", p.Y); err != nil {
			return nil, fmt.Errorf("position %q: %w", name, err)
		}
	}

	for _, arg := range m.Arguments {
		root.AppendNewline()
		body := root.AppendNewBlock("argument", []string{arg.Name}).Body()
		body.SetAttributeValue("kind", cty.StringVal(string(arg.Kind)))
		switch arg.Kind {
		case model.ValueArgument:
			if arg.Value == nil {
				return nil, fmt.Errorf("argument %q: value argument without a value", arg.Name)
			}
			if err := setNumber(body, "value", *arg.Value); err != nil {
				return nil, fmt.Errorf("argument %q: %w", arg.Name, err)
			}
		case model.CompositeArgument:
			body.SetAttributeValue("operation", cty.StringVal(arg.Operation))
			for _, c := range arg.Composition {
				cb := body.AppendNewBlock("component", []string{c.Name}).Body()
				cb.SetAttributeValue("contribution", cty.StringVal(c.Contribution))
			}
		default:
			return nil, fmt.Errorf("argument %q: unknown kind %q", arg.Name, arg.Kind)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(m.Equations)) {
		root.AppendNewline()
		body := root.AppendNewBlock("equation", []string{name}).Body()
		body.SetAttributeValue("argument", cty.StringVal(m.Equations[name].Argument))
	}

	return f.Bytes(), nil
}

// setNumber rejects NaN and infinities, which HCL cannot express.
func setNumber(b *hclwrite.Body, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %v is not a finite number", name, v)
	}
	b.SetAttributeValue(name, cty.NumberFloatVal(v))
	return nil
}
