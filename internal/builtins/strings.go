package builtins

import (
	"math/big"
	"strings"

	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

func stringArg(args []value.Value, i int, fname string, pos token.Position) (*value.String, error) {
	if i >= len(args) {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "%s(): missing argument %d.", fname, i+1)
	}
	s, ok := args[i].(*value.String)
	if !ok {
		return nil, cssErrors.New(cssErrors.TypeError, pos, "%s(): %s is not a string.", fname, args[i].Inspect())
	}
	return s, nil
}

func Quote(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "quote", pos)
	if err != nil {
		return nil, err
	}
	return value.NewString(s.Text, value.QuoteDouble), nil
}

func Unquote(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "unquote", pos)
	if err != nil {
		return nil, err
	}
	return value.NewString(s.Text, value.QuoteNone), nil
}

func ToUpperCase(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "to-upper-case", pos)
	if err != nil {
		return nil, err
	}
	return value.NewString(strings.ToUpper(s.Text), s.Quote), nil
}

func ToLowerCase(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "to-lower-case", pos)
	if err != nil {
		return nil, err
	}
	return value.NewString(strings.ToLower(s.Text), s.Quote), nil
}

func StrLength(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "str-length", pos)
	if err != nil {
		return nil, err
	}
	return value.NewInt(int64(len([]rune(s.Text))), ""), nil
}

// sassIndex converts a 1-indexed (possibly negative) Sass string index
// into a 0-indexed rune offset, clamped to [0, length].
func sassIndex(n int64, length int) int {
	if n < 0 {
		n = int64(length) + n + 1
	}
	i := int(n) - 1
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}

func StrSlice(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "str-slice", pos)
	if err != nil {
		return nil, err
	}
	runes := []rune(s.Text)
	start := 1
	end := int64(len(runes))
	if len(args) > 1 {
		d, err := dimArg(args, 1, "str-slice", pos)
		if err != nil {
			return nil, err
		}
		start = int(d.Num.Num().Int64())
	}
	if len(args) > 2 {
		d, err := dimArg(args, 2, "str-slice", pos)
		if err != nil {
			return nil, err
		}
		end = d.Num.Num().Int64()
	}
	from := sassIndex(int64(start), len(runes))
	to := sassIndex(end, len(runes))
	if to < len(runes) {
		to++
	}
	if to < from {
		return value.NewString("", s.Quote), nil
	}
	return value.NewString(string(runes[from:to]), s.Quote), nil
}

func StrInsert(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "str-insert", pos)
	if err != nil {
		return nil, err
	}
	ins, err := stringArg(args, 1, "str-insert", pos)
	if err != nil {
		return nil, err
	}
	idx, err := dimArg(args, 2, "str-insert", pos)
	if err != nil {
		return nil, err
	}
	runes := []rune(s.Text)
	at := sassIndex(idx.Num.Num().Int64(), len(runes))
	out := string(runes[:at]) + ins.Text + string(runes[at:])
	return value.NewString(out, s.Quote), nil
}

func StrIndex(args []value.Value, pos token.Position) (value.Value, error) {
	s, err := stringArg(args, 0, "str-index", pos)
	if err != nil {
		return nil, err
	}
	sub, err := stringArg(args, 1, "str-index", pos)
	if err != nil {
		return nil, err
	}
	idx := strings.Index(s.Text, sub.Text)
	if idx < 0 {
		return value.TheNull, nil
	}
	runeIdx := len([]rune(s.Text[:idx])) + 1
	return value.NewDimension(big.NewRat(int64(runeIdx), 1), ""), nil
}
