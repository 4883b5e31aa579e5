package registry

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeArgs overlays args onto the struct target points to. Fields are matched
// by their `cty:"..."` tags; fields absent from args keep their current value,
// so callers pre-fill defaults. Unknown attribute names are rejected.
//
// args may be null, an object or a map.
func DecodeArgs(args cty.Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a pointer to a struct, got %T", target)
	}

	ty, err := gocty.ImpliedType(rv.Elem().Interface())
	if err != nil {
		return fmt.Errorf("argument struct %T: %w", target, err)
	}
	current, err := gocty.ToCtyValue(rv.Elem().Interface(), ty)
	if err != nil {
		return fmt.Errorf("argument defaults %T: %w", target, err)
	}

	if args.IsNull() {
		return nil
	}
	if !args.IsKnown() {
		return fmt.Errorf("arguments are not known")
	}
	if !args.Type().IsObjectType() && !args.Type().IsMapType() {
		return fmt.Errorf("arguments must be an object, got %s", args.Type().FriendlyName())
	}

	attrs := current.AsValueMap()
	if attrs == nil {
		attrs = make(map[string]cty.Value)
	}
	for it := args.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()
		want, ok := ty.AttributeTypes()[name]
		if !ok {
			return fmt.Errorf("unsupported argument %q", name)
		}
		cv, err := convert.Convert(v, want)
		if err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
		if cv.IsNull() {
			return fmt.Errorf("argument %q must not be null", name)
		}
		attrs[name] = cv
	}

	if len(attrs) == 0 {
		return nil
	}
	if err := gocty.FromCtyValue(cty.ObjectVal(attrs), target); err != nil {
		return fmt.Errorf("arguments: %w", err)
	}
	return nil
}
