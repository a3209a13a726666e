package datamod

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.starlark.net/starlark"

	"github.com/dshills/imphook/internal/module"
)

func decodeJSON(m *module.Module, path string, data []byte) error {
	if !gjson.ValidBytes(data) {
		return &ParseError{Path: path, Message: "invalid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return fmt.Errorf("%s: %w", path, ErrNotMapping)
	}

	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		var v starlark.Value
		v, err = jsonValue(value)
		if err != nil {
			err = fmt.Errorf("%s: key %q: %w", path, key.Str, err)
			return false
		}
		m.Set(key.Str, v)
		return true
	})
	return err
}

func jsonValue(r gjson.Result) (starlark.Value, error) {
	switch r.Type {
	case gjson.Null:
		return starlark.None, nil
	case gjson.False:
		return starlark.False, nil
	case gjson.True:
		return starlark.True, nil
	case gjson.String:
		return starlark.String(r.Str), nil
	case gjson.Number:
		return jsonNumber(r), nil
	}

	if r.IsArray() {
		items := r.Array()
		elems := make([]starlark.Value, len(items))
		for i, item := range items {
			v, err := jsonValue(item)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return starlark.NewList(elems), nil
	}

	d := starlark.NewDict(0)
	var err error
	r.ForEach(func(key, value gjson.Result) bool {
		var v starlark.Value
		if v, err = jsonValue(value); err != nil {
			return false
		}
		err = d.SetKey(starlark.String(key.Str), v)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// jsonNumber keeps integers written without a fraction or exponent exact.
func jsonNumber(r gjson.Result) starlark.Value {
	raw := strings.TrimSpace(r.Raw)
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return starlark.MakeInt64(i)
		}
		if bi, ok := new(big.Int).SetString(raw, 10); ok {
			return starlark.MakeBigInt(bi)
		}
	}
	return starlark.Float(r.Num)
}
