package datamod

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/module"
)

var hclFunctions = map[string]function.Function{
	"upper":      stdlib.UpperFunc,
	"lower":      stdlib.LowerFunc,
	"join":       stdlib.JoinFunc,
	"concat":     stdlib.ConcatFunc,
	"length":     stdlib.LengthFunc,
	"min":        stdlib.MinFunc,
	"max":        stdlib.MaxFunc,
	"format":     stdlib.FormatFunc,
	"jsonencode": stdlib.JSONEncodeFunc,
}

func decodeHCL(m *module.Module, path string, data []byte) error {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return hclError(path, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("%s: unexpected HCL body %T", path, file.Body)
	}

	ctx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value),
		Functions: hclFunctions,
	}

	// Top-level attributes are evaluated in source order and become
	// variables for everything after them.
	for _, attr := range orderedAttributes(body) {
		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return hclError(path, diags)
		}
		ctx.Variables[attr.Name] = val

		v, err := ctyValue(val)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", path, attr.Name, err)
		}
		m.Set(attr.Name, v)
	}

	for _, b := range body.Blocks {
		v, err := blockValue(ctx, path, b.Body)
		if err != nil {
			return err
		}
		existing, _ := m.Get(b.Type)
		placed, err := placeBlock(existing, b.Labels, v)
		if err != nil {
			return fmt.Errorf("%s:%d: block %s: %w", path, b.TypeRange.Start.Line, b.Type, err)
		}
		m.Set(b.Type, placed)
	}
	return nil
}

func blockValue(ctx *hcl.EvalContext, path string, body *hclsyntax.Body) (*starlark.Dict, error) {
	d := starlark.NewDict(len(body.Attributes))
	for _, attr := range orderedAttributes(body) {
		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return nil, hclError(path, diags)
		}
		v, err := ctyValue(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", path, attr.Name, err)
		}
		if err := d.SetKey(starlark.String(attr.Name), v); err != nil {
			return nil, err
		}
	}

	for _, b := range body.Blocks {
		v, err := blockValue(ctx, path, b.Body)
		if err != nil {
			return nil, err
		}
		existing, found, err := d.Get(starlark.String(b.Type))
		if err != nil {
			return nil, err
		}
		if !found {
			existing = nil
		}
		placed, err := placeBlock(existing, b.Labels, v)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: block %s: %w", path, b.TypeRange.Start.Line, b.Type, err)
		}
		if err := d.SetKey(starlark.String(b.Type), placed); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// placeBlock nests v under labels inside existing, which is nil when the
// block type has not been seen yet.
func placeBlock(existing starlark.Value, labels []string, v *starlark.Dict) (starlark.Value, error) {
	if len(labels) == 0 {
		if existing != nil {
			return nil, fmt.Errorf("duplicate block")
		}
		return v, nil
	}

	var d *starlark.Dict
	switch e := existing.(type) {
	case nil:
		d = starlark.NewDict(1)
	case *starlark.Dict:
		d = e
	default:
		return nil, fmt.Errorf("conflicts with attribute of the same name")
	}

	key := starlark.String(labels[0])
	child, found, err := d.Get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		child = nil
	}
	placed, err := placeBlock(child, labels[1:], v)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", labels[0], err)
	}
	if err := d.SetKey(key, placed); err != nil {
		return nil, err
	}
	return d, nil
}

func orderedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}

// ctyValue converts an evaluated HCL value.
func ctyValue(v cty.Value) (starlark.Value, error) {
	if v.IsNull() {
		return starlark.None, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return starlark.String(v.AsString()), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			bi, _ := bf.Int(nil)
			return starlark.MakeBigInt(bi), nil
		}
		f, _ := bf.Float64()
		return starlark.Float(f), nil

	case ty == cty.Bool:
		return starlark.Bool(v.True()), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var elems []starlark.Value
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			sv, err := ctyValue(ev)
			if err != nil {
				return nil, err
			}
			elems = append(elems, sv)
		}
		return starlark.NewList(elems), nil

	case ty.IsMapType() || ty.IsObjectType():
		d := starlark.NewDict(v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			k, ev := it.Element()
			sv, err := ctyValue(ev)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.AsString(), err)
			}
			if err := d.SetKey(starlark.String(k.AsString()), sv); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

func hclError(path string, diags hcl.Diagnostics) error {
	pe := &ParseError{Path: path, Message: diags.Error(), Err: diags}
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		pe.Message = d.Summary
		if d.Detail != "" {
			pe.Message += ": " + d.Detail
		}
		if d.Subject != nil {
			pe.Line, pe.Column = d.Subject.Start.Line, d.Subject.Start.Column
		}
		break
	}
	return pe
}
