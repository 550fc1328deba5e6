package builtins

import (
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

func mapArg(args []value.Value, i int, fname string, pos token.Position) (*value.Map, error) {
	if i >= len(args) {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "%s(): missing argument %d.", fname, i+1)
	}
	m, ok := args[i].(*value.Map)
	if !ok {
		return nil, cssErrors.New(cssErrors.TypeError, pos, "%s(): %s is not a map.", fname, args[i].Inspect())
	}
	return m, nil
}

func MapGet(args []value.Value, pos token.Position) (value.Value, error) {
	m, err := mapArg(args, 0, "map-get", pos)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "map-get(): missing key.")
	}
	if v, ok := m.Get(args[1]); ok {
		return v, nil
	}
	return value.TheNull, nil
}

func MapHasKey(args []value.Value, pos token.Position) (value.Value, error) {
	m, err := mapArg(args, 0, "map-has-key", pos)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "map-has-key(): missing key.")
	}
	_, ok := m.Get(args[1])
	return value.NewBool(ok), nil
}

func MapKeys(args []value.Value, pos token.Position) (value.Value, error) {
	m, err := mapArg(args, 0, "map-keys", pos)
	if err != nil {
		return nil, err
	}
	return value.NewList(append([]value.Value(nil), m.Keys...), value.SepComma, value.BracketsNone), nil
}

func MapValues(args []value.Value, pos token.Position) (value.Value, error) {
	m, err := mapArg(args, 0, "map-values", pos)
	if err != nil {
		return nil, err
	}
	return value.NewList(append([]value.Value(nil), m.Values...), value.SepComma, value.BracketsNone), nil
}

func MapMerge(args []value.Value, pos token.Position) (value.Value, error) {
	a, err := mapArg(args, 0, "map-merge", pos)
	if err != nil {
		return nil, err
	}
	b, err := mapArg(args, 1, "map-merge", pos)
	if err != nil {
		return nil, err
	}
	out := value.NewMap()
	for i, k := range a.Keys {
		out.Set(k, a.Values[i])
	}
	for i, k := range b.Keys {
		out.Set(k, b.Values[i])
	}
	return out, nil
}

func MapRemove(args []value.Value, pos token.Position) (value.Value, error) {
	m, err := mapArg(args, 0, "map-remove", pos)
	if err != nil {
		return nil, err
	}
	out := value.NewMap()
	for i, k := range m.Keys {
		out.Set(k, m.Values[i])
	}
	for _, key := range args[1:] {
		out.Remove(key)
	}
	return out, nil
}
