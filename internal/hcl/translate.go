package hcl

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/odegraph/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// argsEvalContext is the evaluation context for node args.
var argsEvalContext = &hcl.EvalContext{
	Functions: map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"floor":  stdlib.FloorFunc,
		"max":    stdlib.MaxFunc,
		"min":    stdlib.MinFunc,
		"pow":    stdlib.PowFunc,
		"signum": stdlib.SignumFunc,
		"lower":  stdlib.LowerFunc,
		"upper":  stdlib.UpperFunc,
	},
}

// translateEngine overlays an engine block on the defaults in dst.
func translateEngine(b *engineBlock, dst *config.Engine) error {
	if b.TickInterval != nil {
		d, err := time.ParseDuration(*b.TickInterval)
		if err != nil {
			return fmt.Errorf("%s: engine.tick_interval: %w", b.DeclRange, err)
		}
		dst.TickInterval = d
	}
	if b.MaxStepsPerTick != nil {
		dst.MaxStepsPerTick = *b.MaxStepsPerTick
	}
	if b.PruneReceived != nil {
		dst.PruneReceived = *b.PruneReceived
	}
	return nil
}

// translateExport overlays an export block on the defaults in dst.
func translateExport(b *exportBlock, dst *config.Export) {
	if b.Name != nil {
		dst.Name = *b.Name
	}
	if b.Format != nil {
		dst.Format = *b.Format
	}
	if b.Path != nil {
		dst.Path = *b.Path
	}
	if b.StartTime != nil {
		dst.StartTime = *b.StartTime
	}
	if b.DeltaTime != nil {
		dst.DeltaTime = *b.DeltaTime
	}
	if b.EndTime != nil {
		dst.EndTime = *b.EndTime
	}
}

func translateEditor(b *editorBlock) (*config.Editor, error) {
	ed := config.DefaultEditor(b.URL)
	if b.Namespace != nil {
		ed.Namespace = *b.Namespace
	}
	if b.Timeout != nil {
		d, err := time.ParseDuration(*b.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%s: editor.timeout: %w", b.DeclRange, err)
		}
		ed.Timeout = d
	}
	return ed, nil
}

func translateNode(b *nodeBlock) (*config.Node, error) {
	args, diags := b.Args.Value(argsEvalContext)
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %q: args: %w", b.Name, diags)
	}
	if !args.IsNull() && !args.Type().IsObjectType() && !args.Type().IsMapType() {
		return nil, fmt.Errorf("node %q: args must be an object, got %s", b.Name, args.Type().FriendlyName())
	}
	if args.IsNull() {
		args = cty.NullVal(cty.DynamicPseudoType)
	}

	n := &config.Node{Kind: b.Kind, Name: b.Name, Args: args}
	switch len(b.Position) {
	case 0:
	case 2:
		n.Position = &config.Position{X: b.Position[0], Y: b.Position[1]}
	default:
		return nil, fmt.Errorf("node %q: position must be [x, y], got %d numbers", b.Name, len(b.Position))
	}
	return n, nil
}
