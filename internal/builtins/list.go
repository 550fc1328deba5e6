package builtins

import (
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

func listArg(args []value.Value, i int, fname string, pos token.Position) (*value.List, error) {
	if i >= len(args) {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "%s(): missing argument %d.", fname, i+1)
	}
	return value.AsList(args[i]), nil
}

// listIndex converts a 1-indexed (possibly negative) Sass list index to
// a 0-indexed slice position, returning ok=false when out of range.
func listIndex(n int64, length int) (int, bool) {
	if n < 0 {
		n = int64(length) + n + 1
	}
	if n < 1 || n > int64(length) {
		return 0, false
	}
	return int(n) - 1, true
}

func Length(args []value.Value, pos token.Position) (value.Value, error) {
	l, err := listArg(args, 0, "length", pos)
	if err != nil {
		return nil, err
	}
	return value.NewInt(int64(len(l.Items)), ""), nil
}

func Nth(args []value.Value, pos token.Position) (value.Value, error) {
	l, err := listArg(args, 0, "nth", pos)
	if err != nil {
		return nil, err
	}
	n, err := dimArg(args, 1, "nth", pos)
	if err != nil {
		return nil, err
	}
	i, ok := listIndex(n.Num.Num().Int64(), len(l.Items))
	if !ok {
		return nil, cssErrors.New(cssErrors.IndexError, pos, "nth(): index %s out of bounds for a list of length %d.", n.String(), len(l.Items))
	}
	return l.Items[i], nil
}

func SetNth(args []value.Value, pos token.Position) (value.Value, error) {
	l, err := listArg(args, 0, "set-nth", pos)
	if err != nil {
		return nil, err
	}
	n, err := dimArg(args, 1, "set-nth", pos)
	if err != nil {
		return nil, err
	}
	if len(args) < 3 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "set-nth(): missing replacement value.")
	}
	i, ok := listIndex(n.Num.Num().Int64(), len(l.Items))
	if !ok {
		return nil, cssErrors.New(cssErrors.IndexError, pos, "set-nth(): index %s out of bounds for a list of length %d.", n.String(), len(l.Items))
	}
	items := append([]value.Value(nil), l.Items...)
	items[i] = args[2]
	return value.NewList(items, l.Sep, l.Brackets), nil
}

func Append(args []value.Value, pos token.Position) (value.Value, error) {
	l, err := listArg(args, 0, "append", pos)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "append(): missing value to append.")
	}
	sep := l.Sep
	if len(args) > 2 {
		s, ok := args[2].(*value.String)
		if ok {
			switch s.Text {
			case "comma":
				sep = value.SepComma
			case "space":
				sep = value.SepSpace
			}
		}
	}
	items := append(append([]value.Value(nil), l.Items...), args[1])
	return value.NewList(items, sep, l.Brackets), nil
}

func Join(args []value.Value, pos token.Position) (value.Value, error) {
	a, err := listArg(args, 0, "join", pos)
	if err != nil {
		return nil, err
	}
	b, err := listArg(args, 1, "join", pos)
	if err != nil {
		return nil, err
	}
	sep := a.Sep
	if len(a.Items) == 0 {
		sep = b.Sep
	}
	if len(args) > 2 {
		if s, ok := args[2].(*value.String); ok {
			switch s.Text {
			case "comma":
				sep = value.SepComma
			case "space":
				sep = value.SepSpace
			}
		}
	}
	items := append(append([]value.Value(nil), a.Items...), b.Items...)
	return value.NewList(items, sep, a.Brackets), nil
}

func Index(args []value.Value, pos token.Position) (value.Value, error) {
	l, err := listArg(args, 0, "index", pos)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, cssErrors.New(cssErrors.ArityError, pos, "index(): missing value to find.")
	}
	for i, it := range l.Items {
		if value.Equal(it, args[1]) {
			return value.NewInt(int64(i+1), ""), nil
		}
	}
	return value.TheNull, nil
}

func IsBracketed(args []value.Value, pos token.Position) (value.Value, error) {
	l, err := listArg(args, 0, "is-bracketed", pos)
	if err != nil {
		return nil, err
	}
	return value.NewBool(l.Brackets == value.BracketsSquare), nil
}

func ListSeparator(args []value.Value, pos token.Position) (value.Value, error) {
	l, err := listArg(args, 0, "list-separator", pos)
	if err != nil {
		return nil, err
	}
	if len(l.Items) <= 1 {
		return value.NewString("space", value.QuoteNone), nil
	}
	if l.Sep == value.SepComma {
		return value.NewString("comma", value.QuoteNone), nil
	}
	return value.NewString("space", value.QuoteNone), nil
}

// Zip combines N lists into a list of tuples, truncated to the shortest
// input list's length.
func Zip(args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) == 0 {
		return value.NewList(nil, value.SepComma, value.BracketsNone), nil
	}
	lists := make([]*value.List, len(args))
	shortest := -1
	for i, a := range args {
		lists[i] = value.AsList(a)
		if shortest < 0 || len(lists[i].Items) < shortest {
			shortest = len(lists[i].Items)
		}
	}
	items := make([]value.Value, 0, shortest)
	for i := 0; i < shortest; i++ {
		tuple := make([]value.Value, len(lists))
		for j, l := range lists {
			tuple[j] = l.Items[i]
		}
		items = append(items, value.NewList(tuple, value.SepSpace, value.BracketsNone))
	}
	return value.NewList(items, value.SepComma, value.BracketsNone), nil
}
