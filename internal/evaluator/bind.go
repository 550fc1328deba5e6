package evaluator

import (
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/scope"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

// BindParams binds actual CallArgs to a formal parameter list in a fresh
// child scope of closure (spec §4.2's call-frame rule): positional
// arguments fill parameters left-to-right, named arguments override (or
// fill) by name, and an unfilled parameter falls back to its default
// expression, evaluated in the new child scope so a later default may
// reference an earlier parameter (`@mixin foo($a, $b: $a)`). A trailing
// variadic parameter collects any leftover positional arguments as a
// comma-separated list and any leftover named arguments as a map,
// bundled together into a value.ArgList (spec §4.2, §8's "arglist"
// type-of label) — both are "consumed" so a named argument that doesn't
// match a fixed parameter is passed through rather than rejected.
func BindParams(params []scope.Param, args CallArgs, closure *scope.Scope, builtins BuiltinLookup, invoker FunctionInvoker, pos token.Position) (*scope.Scope, error) {
	child := closure.Child()
	ev := &Evaluator{Scope: child, Builtins: builtins, Invoker: invoker}

	consumed := make(map[string]bool, len(args.Named))
	pi := 0
	for _, p := range params {
		if p.Variadic {
			rest := make([]value.Value, 0, len(args.Positional)-pi)
			for ; pi < len(args.Positional); pi++ {
				rest = append(rest, args.Positional[pi])
			}
			var restNamed map[string]value.Value
			for name, v := range args.Named {
				if consumed[name] {
					continue
				}
				if restNamed == nil {
					restNamed = make(map[string]value.Value, len(args.Named))
				}
				restNamed[name] = v
				consumed[name] = true
			}
			child.DefineVar(p.Name, value.NewArgList(rest, restNamed))
			continue
		}
		if pi < len(args.Positional) {
			child.DefineVar(p.Name, args.Positional[pi])
			pi++
			continue
		}
		if v, ok := args.Named[p.Name]; ok {
			child.DefineVar(p.Name, v)
			consumed[p.Name] = true
			continue
		}
		if p.Default != nil {
			toks, ok := p.Default.([]token.Token)
			if !ok {
				return nil, cssErrors.New(cssErrors.SyntaxError, pos, "Parameter $%s has a malformed default expression.", p.Name)
			}
			v, err := ev.Eval(toks)
			if err != nil {
				return nil, err
			}
			child.DefineVar(p.Name, v)
			continue
		}
		return nil, cssErrors.New(cssErrors.ArityError, pos, "Missing argument $%s.", p.Name)
	}
	if pi < len(args.Positional) {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "Too many positional arguments (expected %d, got %d).", len(params), len(args.Positional))
	}
	for name := range args.Named {
		if !consumed[name] {
			return nil, cssErrors.New(cssErrors.ArityError, pos, "No parameter named $%s.", name)
		}
	}
	return child, nil
}
