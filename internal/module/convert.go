package module

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"go.starlark.net/starlark"
)

// FromGo converts a decoded Go value (as produced by TOML, YAML, JSON or Lua
// decoders) into a Starlark value. Maps become dicts with sorted keys.
func FromGo(v any) (starlark.Value, error) {
	switch x := v.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return x, nil
	case bool:
		return starlark.Bool(x), nil
	case string:
		return starlark.String(x), nil
	case []byte:
		return starlark.Bytes(x), nil
	case int:
		return starlark.MakeInt(x), nil
	case int8:
		return starlark.MakeInt64(int64(x)), nil
	case int16:
		return starlark.MakeInt64(int64(x)), nil
	case int32:
		return starlark.MakeInt64(int64(x)), nil
	case int64:
		return starlark.MakeInt64(x), nil
	case uint:
		return starlark.MakeUint(x), nil
	case uint8:
		return starlark.MakeUint64(uint64(x)), nil
	case uint16:
		return starlark.MakeUint64(uint64(x)), nil
	case uint32:
		return starlark.MakeUint64(uint64(x)), nil
	case uint64:
		return starlark.MakeUint64(x), nil
	case float32:
		return starlark.Float(x), nil
	case float64:
		return starlark.Float(x), nil
	case time.Time:
		return starlark.String(x.Format(time.RFC3339Nano)), nil
	case []any:
		return listFromGo(len(x), func(i int) any { return x[i] })
	case []string:
		return listFromGo(len(x), func(i int) any { return x[i] })
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := starlark.NewDict(len(x))
		for _, k := range keys {
			sv, err := FromGo(x[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			if err := d.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return d, nil
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = val
		}
		return FromGo(m)
	case fmt.Stringer:
		return starlark.String(x.String()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return listFromGo(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[iter.Key().String()] = iter.Value().Interface()
			}
			return FromGo(m)
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return starlark.None, nil
		}
		return FromGo(rv.Elem().Interface())
	}
	return nil, fmt.Errorf("cannot convert %T to a starlark value", v)
}

func listFromGo(n int, at func(int) any) (starlark.Value, error) {
	elems := make([]starlark.Value, n)
	for i := 0; i < n; i++ {
		sv, err := FromGo(at(i))
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		elems[i] = sv
	}
	return starlark.NewList(elems), nil
}

// ToGo converts a Starlark value into plain Go data. Values with no data
// representation (functions, modules) are rendered with String.
func ToGo(v starlark.Value) any {
	switch x := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(x)
	case starlark.String:
		return string(x)
	case starlark.Bytes:
		return string(x)
	case starlark.Int:
		if i, ok := x.Int64(); ok {
			return i
		}
		return x.String()
	case starlark.Float:
		f := float64(x)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return x.String()
		}
		return f
	case *starlark.List:
		return iterToGo(x)
	case starlark.Tuple:
		return iterToGo(x)
	case *starlark.Dict:
		m := make(map[string]any, x.Len())
		for _, item := range x.Items() {
			k, ok := starlark.AsString(item[0])
			if !ok {
				k = item[0].String()
			}
			m[k] = ToGo(item[1])
		}
		return m
	case *Module:
		m := make(map[string]any, x.ns.Len())
		for _, k := range x.ns.keys {
			m[k] = ToGo(x.ns.vals[k])
		}
		return m
	}
	return v.String()
}

func iterToGo(x starlark.Iterable) []any {
	out := []any{}
	it := x.Iterate()
	defer it.Done()
	var elem starlark.Value
	for it.Next(&elem) {
		out = append(out, ToGo(elem))
	}
	return out
}
