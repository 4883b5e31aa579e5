package app

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/vk/odegraph/internal/config"
)

//go:embed demo.hcl
var demoSource []byte

// sourceParser is implemented by loaders that can read configuration from
// memory as well as from disk.
type sourceParser interface {
	Parse(ctx context.Context, filename string, src []byte) (*config.Model, error)
}

func parseDemo(ctx context.Context, loader config.Loader) (*config.Model, error) {
	p, ok := loader.(sourceParser)
	if !ok {
		return nil, fmt.Errorf("loader %T cannot parse the built-in demo", loader)
	}
	return p.Parse(ctx, "demo.hcl", demoSource)
}
