package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeHCL parses an HCL scenario document and lowers it to the same
// untyped mapping shape the YAML path produces. Attributes become keys;
// every repeated block label-less block becomes a list entry under the block
// type, so `step { ... } step { ... }` decodes as steps the normalizer
// already understands.
func decodeHCL(data []byte, path string) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parsing scenario %s: unexpected body type", path)
	}
	return bodyToNative(body, path)
}

func bodyToNative(body *hclsyntax.Body, path string) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %s in %s: %w", name, path, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %s in %s: %w", name, path, err)
		}
		out[name] = native
	}

	for _, block := range body.Blocks {
		decoded, err := bodyToNative(block.Body, path)
		if err != nil {
			return nil, err
		}

		switch {
		case len(block.Labels) == 1:
			// A labeled block becomes an entry in a mapping keyed by label:
			// profile "qa" { ... }  →  profiles.qa
			group, _ := out[plural(block.Type)].(map[string]any)
			if group == nil {
				group = make(map[string]any)
				out[plural(block.Type)] = group
			}
			group[block.Labels[0]] = decoded

		case repeatedBlock(block.Type):
			key := plural(block.Type)
			list, _ := out[key].([]any)
			out[key] = append(list, any(decoded))

		default:
			out[block.Type] = decoded
		}
	}

	return out, nil
}

// repeatedBlock reports whether a block type aggregates into a list.
func repeatedBlock(blockType string) bool {
	switch blockType {
	case "step", "variable", "branch", "fallback", "annotation":
		return true
	default:
		return false
	}
}

func plural(blockType string) string {
	return blockType + "s"
}

// ctyToNative recursively converts a cty.Value into its most natural Go
// counterpart, the representation the rest of the compiler works with.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("converting number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("converting bool: %w", err)
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, item := it.Element()
			native, err := ctyToNative(item)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, item := it.Element()
			native, err := ctyToNative(item)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
