package builtins

import (
	"math"
	"math/big"
	"math/rand"

	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

func dimArg(args []value.Value, i int, fname string, pos token.Position) (*value.Dimension, error) {
	if i >= len(args) {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "%s(): missing argument %d.", fname, i+1)
	}
	d, ok := args[i].(*value.Dimension)
	if !ok {
		return nil, cssErrors.New(cssErrors.TypeError, pos, "%s(): %s is not a number.", fname, args[i].Inspect())
	}
	return d, nil
}

func floatArg(args []value.Value, i int, fname string, pos token.Position) (float64, string, error) {
	d, err := dimArg(args, i, fname, pos)
	if err != nil {
		return 0, "", err
	}
	f, _ := d.Num.Float64()
	return f, d.Unit, nil
}

func Abs(args []value.Value, pos token.Position) (value.Value, error) {
	d, err := dimArg(args, 0, "abs", pos)
	if err != nil {
		return nil, err
	}
	return value.NewDimension(new(big.Rat).Abs(d.Num), d.Unit), nil
}

func Ceil(args []value.Value, pos token.Position) (value.Value, error) {
	return roundWith(args, pos, "ceil", math.Ceil)
}

func Floor(args []value.Value, pos token.Position) (value.Value, error) {
	return roundWith(args, pos, "floor", math.Floor)
}

func Round(args []value.Value, pos token.Position) (value.Value, error) {
	return roundWith(args, pos, "round", math.Round)
}

func roundWith(args []value.Value, pos token.Position, fname string, fn func(float64) float64) (value.Value, error) {
	f, unit, err := floatArg(args, 0, fname, pos)
	if err != nil {
		return nil, err
	}
	return value.NewDimension(new(big.Rat).SetFloat64(fn(f)), unit), nil
}

func Min(args []value.Value, pos token.Position) (value.Value, error) {
	return extremum(args, pos, "min", false)
}

func Max(args []value.Value, pos token.Position) (value.Value, error) {
	return extremum(args, pos, "max", true)
}

func extremum(args []value.Value, pos token.Position, fname string, wantMax bool) (value.Value, error) {
	if len(args) == 0 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "%s(): expects at least 1 argument.", fname)
	}
	best, err := dimArg(args, 0, fname, pos)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		d, err := dimArg(args, i, fname, pos)
		if err != nil {
			return nil, err
		}
		unit, compat := value.CompatibleUnit(best.Unit, d.Unit)
		if !compat {
			return nil, cssErrors.New(cssErrors.UnitError, pos, "%s(): incompatible units %s and %s.", fname, best.Unit, d.Unit)
		}
		c := d.Num.Cmp(best.Num)
		if (wantMax && c > 0) || (!wantMax && c < 0) {
			best = value.NewDimension(d.Num, unit)
		}
	}
	return best, nil
}

func Percentage(args []value.Value, pos token.Position) (value.Value, error) {
	d, err := dimArg(args, 0, "percentage", pos)
	if err != nil {
		return nil, err
	}
	if d.Unit != "" {
		return nil, cssErrors.New(cssErrors.TypeError, pos, "percentage(): %s is not unitless.", d.Inspect())
	}
	return value.NewDimension(new(big.Rat).Mul(d.Num, big.NewRat(100, 1)), "%"), nil
}

// Random implements Sass's random([$limit]): with no argument, a float
// in [0, 1); with $limit, an integer in [1, limit].
func Random(args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) == 0 {
		return value.NewDimension(new(big.Rat).SetFloat64(rand.Float64()), ""), nil
	}
	d, err := dimArg(args, 0, "random", pos)
	if err != nil {
		return nil, err
	}
	if !d.IsInt() || d.Num.Sign() <= 0 {
		return nil, cssErrors.New(cssErrors.TypeError, pos, "random(): limit must be a positive integer.")
	}
	limit := d.Num.Num().Int64()
	n := rand.Int63n(limit) + 1
	return value.NewInt(n, ""), nil
}

func Comparable(args []value.Value, pos token.Position) (value.Value, error) {
	a, err := dimArg(args, 0, "comparable", pos)
	if err != nil {
		return nil, err
	}
	b, err := dimArg(args, 1, "comparable", pos)
	if err != nil {
		return nil, err
	}
	_, ok := value.CompatibleUnit(a.Unit, b.Unit)
	return value.NewBool(ok), nil
}
