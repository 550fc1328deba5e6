package builtins

import (
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

func TypeOf(args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) < 1 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "type-of(): missing argument.")
	}
	return value.NewString(value.TypeOf(args[0]), value.QuoteNone), nil
}

func Unit(args []value.Value, pos token.Position) (value.Value, error) {
	d, err := dimArg(args, 0, "unit", pos)
	if err != nil {
		return nil, err
	}
	return value.NewString(d.Unit, value.QuoteDouble), nil
}

func Unitless(args []value.Value, pos token.Position) (value.Value, error) {
	d, err := dimArg(args, 0, "unitless", pos)
	if err != nil {
		return nil, err
	}
	return value.NewBool(d.Unit == ""), nil
}

func Not(args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) < 1 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "not(): missing argument.")
	}
	return value.NewBool(!value.Truthy(args[0])), nil
}

// If implements Sass's if($condition, $if-true, $if-false). Both
// branches are ordinary expressions the caller has already evaluated by
// the time this runs, matching Sass's own eager (non-short-circuiting)
// if() semantics.
func If(args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) < 3 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "if(): expects 3 arguments, got %d.", len(args))
	}
	if value.Truthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}
