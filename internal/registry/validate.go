package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/odegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Validate checks every registered kind: its argument struct must map onto a
// cty object and a node must build from the defaults alone.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, kind := range r.Kinds() {
		k := r.kinds[kind]
		var args any
		if k.NewArgs != nil {
			args = k.NewArgs()
			rv := reflect.ValueOf(args)
			if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
				errs = append(errs, fmt.Sprintf("kind '%s': NewArgs must return a pointer to a struct, got %T", kind, args))
				continue
			}
			ty, err := gocty.ImpliedType(rv.Elem().Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("kind '%s': argument struct %T has no cty type: %v", kind, args, err))
				continue
			}
			for name, at := range ty.AttributeTypes() {
				if at.Equals(cty.DynamicPseudoType) {
					logger.Warn("Node kind has an untyped argument, which disables argument type checking.", "kind", kind, "argument", name)
				}
			}
		}

		b, err := k.New("", args)
		if err != nil {
			errs = append(errs, fmt.Sprintf("kind '%s': defaults do not build: %v", kind, err))
			continue
		}
		if b.Kind() != kind {
			errs = append(errs, fmt.Sprintf("kind '%s': built node reports kind '%s'", kind, b.Kind()))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "kinds", len(r.kinds))
	return nil
}
