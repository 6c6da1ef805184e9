package hcl_adapter

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
	"github.com/specialistvlad/slotgraph/internal/state"
)

// DecodeArguments iterates through the fields of a Go struct, finds the
// corresponding arguments, evaluates them against snap and uses the recursive
// `decode` helper to populate them. A field tagged `cty:"name,optional"` may
// be omitted; any other tagged field is required. Arguments without a field
// are rejected.
func (c *Converter) DecodeArguments(
	ctx context.Context,
	args map[string]hcl.Expression,
	snap state.Snapshot,
	target any,
) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting argument decoding.", "arguments", len(args))

	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a non-nil pointer to a struct")
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	evalCtx, err := c.evalContext(snap)
	if err != nil {
		return err
	}

	used := make(map[string]struct{}, len(args))
	for i := 0; i < structType.NumField(); i++ {
		fieldDef := structType.Field(i)
		fieldVal := structVal.Field(i)

		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tag := strings.Split(fieldDef.Tag.Get("cty"), ",")
		name := tag[0]
		if name == "" || name == "-" {
			continue
		}
		optional := len(tag) > 1 && tag[1] == "optional"

		expr, provided := args[name]
		if !provided {
			if optional {
				continue
			}
			return fmt.Errorf("missing required argument %q", name)
		}
		used[name] = struct{}{}

		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return fmt.Errorf("argument %q: %w", name, diags)
		}
		if err := c.decode(ctx, val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", name, err)
		}
	}

	var unknown []string
	for name := range args {
		if _, ok := used[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unsupported argument(s): %s", strings.Join(unknown, ", "))
	}

	logger.Debug("Finished argument decoding successfully.")
	return nil
}
