package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/vk/odegraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownKind is returned by Build for a kind nobody registered.
var ErrUnknownKind = errors.New("unknown node kind")

// Module is the interface that all catalogue modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredKind holds the Go parts of one node kind.
type RegisteredKind struct {
	// Description is shown to editors listing the catalogue.
	Description string
	// NewArgs returns a pointer to a fresh argument struct holding the
	// defaults. Nil means the kind takes no arguments.
	NewArgs func() any
	// New builds a node from decoded arguments. args is the value returned
	// by NewArgs after decoding, or nil.
	New func(name string, args any) (node.Behavior, error)
}

// Registry holds the kinds available to one application instance.
type Registry struct {
	kinds map[string]*RegisteredKind
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{kinds: make(map[string]*RegisteredKind)}
}

// RegisterKind registers the builder for kind. Registering the same kind twice
// is a wiring bug and panics.
func (r *Registry) RegisterKind(kind string, k *RegisteredKind) {
	if _, exists := r.kinds[kind]; exists {
		panic(fmt.Sprintf("node kind '%s' already registered", kind))
	}
	if k == nil || k.New == nil {
		panic(fmt.Sprintf("node kind '%s' registered without a constructor", kind))
	}
	r.kinds[kind] = k
}

// Kind returns the registration for kind.
func (r *Registry) Kind(kind string) (*RegisteredKind, bool) {
	k, ok := r.kinds[kind]
	return k, ok
}

// Kinds returns the registered kind names in lexical order.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.kinds))
}

// Build decodes args for kind and constructs a node named name. A null args
// value means "all defaults".
func (r *Registry) Build(ctx context.Context, kind, name string, args cty.Value) (node.Behavior, error) {
	k, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("build %q: %w", kind, ErrUnknownKind)
	}

	var decoded any
	if k.NewArgs != nil {
		decoded = k.NewArgs()
		if err := DecodeArgs(args, decoded); err != nil {
			return nil, fmt.Errorf("build %q: %w", kind, err)
		}
	} else if !isEmpty(args) {
		return nil, fmt.Errorf("build %q: kind takes no arguments", kind)
	}

	b, err := k.New(name, decoded)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", kind, err)
	}
	ctxlog.FromContext(ctx).Debug("Node built.", "kind", kind, "node", b.ID(), "name", b.Name())
	return b, nil
}

func isEmpty(v cty.Value) bool {
	if v.IsNull() {
		return true
	}
	return v.CanIterateElements() && v.LengthInt() == 0
}
