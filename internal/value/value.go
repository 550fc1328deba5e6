// Package value implements the evaluator's value algebra: the tagged
// union described in spec §3, with the arithmetic, comparison, and
// coercion rules that operate on it.
package value

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/cssc/internal/token"
)

// Value is the interface every evaluated expression result implements.
// All variants are interchangeable anywhere a value is required (spec
// §3's "Value" invariant).
type Value interface {
	// Type returns the fixed type-of label: number, string, color, list,
	// map, bool, null, or arglist (spec §8's type-of law).
	Type() string
	// String renders the value as it would appear in emitted CSS.
	String() string
	// Inspect renders the value the way @debug does: quotes preserved on
	// strings, brackets preserved on lists (spec's "inspect formatting").
	Inspect() string
}

// Quote identifies how a String value was (or should be) quoted.
type Quote int

const (
	QuoteNone Quote = iota
	QuoteSingle
	QuoteDouble
)

// Separator identifies how a List's items print when joined.
type Separator int

const (
	SepSpace Separator = iota
	SepComma
)

// Brackets identifies whether a List prints inside `[ ]`.
type Brackets int

const (
	BracketsNone Brackets = iota
	BracketsSquare
)

// ---------------------------------------------------------------------
// Dimension

// Dimension is an arbitrary-precision rational number with a unit tag.
// "none" (empty string) and "%" are both valid units; see CompatibleUnit.
type Dimension struct {
	Num  *big.Rat
	Unit string
	Pos  token.Position
}

func NewDimension(n *big.Rat, unit string) *Dimension {
	return &Dimension{Num: n, Unit: unit}
}

func NewInt(n int64, unit string) *Dimension {
	return &Dimension{Num: big.NewRat(n, 1), Unit: unit}
}

func (d *Dimension) Type() string { return "number" }

// String prints to ten significant digits, trimming trailing zeros, per
// spec §3's division-rounding invariant. This same routine is used for
// every Dimension, not only ones produced by division, so printed
// output is always stable regardless of how the value was produced.
func (d *Dimension) String() string {
	s := formatRat(d.Num)
	return s + d.Unit
}

func (d *Dimension) Inspect() string { return d.String() }

func (d *Dimension) IsInt() bool {
	return d.Num.IsInt()
}

// formatRat renders a big.Rat to at most ten significant digits,
// trimming trailing zeros and a trailing decimal point.
func formatRat(r *big.Rat) string {
	f, _ := r.Float64()
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		// Round to 10 significant digits.
		s = roundSignificant(s, 10)
	}
	return s
}

func roundSignificant(s string, sig int) string {
	neg := strings.HasPrefix(s, "-")
	t := strings.TrimPrefix(s, "-")
	dot := strings.IndexByte(t, '.')
	digits := strings.Replace(t, ".", "", 1)
	leadingZeros := 0
	for leadingZeros < len(digits) && digits[leadingZeros] == '0' {
		leadingZeros++
	}
	significantDigits := len(digits) - leadingZeros
	if significantDigits <= sig || dot == -1 {
		return s
	}
	f, _ := strconv.ParseFloat(s, 64)
	intLen := dot
	if intLen == 0 {
		intLen = 1
	}
	decimals := sig - intLen + leadingZeros
	if decimals < 0 {
		decimals = 0
	}
	out := strconv.FormatFloat(f, 'f', decimals, 64)
	out = strings.TrimRight(out, "0")
	out = strings.TrimRight(out, ".")
	if neg && !strings.HasPrefix(out, "-") && out != "0" {
		out = "-" + out
	}
	return out
}

// CompatibleUnit reports whether two units may be combined in + or -.
// "none" is compatible with anything and yields the other side's unit;
// "%" is compatible only with "%".
func CompatibleUnit(a, b string) (result string, ok bool) {
	if a == b {
		return a, true
	}
	if a == "" {
		return b, true
	}
	if b == "" {
		return a, true
	}
	if a == "%" || b == "%" {
		return "", false
	}
	return "", false
}

// ---------------------------------------------------------------------
// Color

// Color is an RGBA color; channels are 0-255, alpha is 0.0-1.0.
type Color struct {
	R, G, B uint8
	A       float64
	// Name, when non-empty, is the original author-written form (a named
	// color or hex literal) preserved for output unless the value is
	// touched by a color function.
	Name string
}

func (c *Color) Type() string { return "color" }

func (c *Color) String() string {
	if c.Name != "" {
		return c.Name
	}
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	a := formatRat(new(big.Rat).SetFloat64(c.A))
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, a)
}

func (c *Color) Inspect() string { return c.String() }

// ---------------------------------------------------------------------
// String

type String struct {
	Text  string
	Quote Quote
}

func NewString(text string, q Quote) *String { return &String{Text: text, Quote: q} }

func (s *String) Type() string { return "string" }

func (s *String) String() string {
	switch s.Quote {
	case QuoteSingle:
		return "'" + s.Text + "'"
	case QuoteDouble:
		return `"` + s.Text + `"`
	default:
		return s.Text
	}
}

func (s *String) Inspect() string {
	if s.Quote == QuoteNone {
		return `"` + s.Text + `"`
	}
	return s.String()
}

// ---------------------------------------------------------------------
// List

type List struct {
	Items    []Value
	Sep      Separator
	Brackets Brackets
}

func NewList(items []Value, sep Separator, br Brackets) *List {
	return &List{Items: items, Sep: sep, Brackets: br}
}

func (l *List) Type() string { return "list" }

func (l *List) separatorGlyph() string {
	if l.Sep == SepComma {
		return ", "
	}
	return " "
}

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.String()
	}
	inner := strings.Join(parts, l.separatorGlyph())
	if l.Brackets == BracketsSquare {
		return "[" + inner + "]"
	}
	return inner
}

func (l *List) Inspect() string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = it.Inspect()
	}
	sep := ", "
	if l.Sep == SepSpace {
		sep = " "
	}
	inner := strings.Join(parts, sep)
	if l.Brackets == BracketsSquare {
		return "[" + inner + "]"
	}
	return inner
}

// AsList coerces any Value to a List per spec §3: a non-list argument
// becomes a one-element space-separated unbracketed list; a Map becomes
// a list of two-element space-separated sublists (key value), in
// insertion order.
func AsList(v Value) *List {
	switch t := v.(type) {
	case *List:
		return t
	case *ArgList:
		return NewList(t.Items, t.Sep, BracketsNone)
	case *Map:
		items := make([]Value, 0, len(t.Keys))
		for i, k := range t.Keys {
			items = append(items, NewList([]Value{k, t.Values[i]}, SepSpace, BracketsNone))
		}
		return NewList(items, SepComma, BracketsNone)
	default:
		return NewList([]Value{v}, SepSpace, BracketsNone)
	}
}

// ---------------------------------------------------------------------
// ArgList

// ArgList is bound to a variadic trailing parameter (spec §4.2): it
// carries whatever positional arguments were left over after the fixed
// parameters were filled, plus any named arguments that didn't match a
// fixed parameter name. It prints and behaves like its positional items
// as a comma-separated list (value.AsList unwraps it to a list of those
// items), but type-of reports the distinct "arglist" label (spec §8).
type ArgList struct {
	Items []Value
	Sep   Separator
	Named map[string]Value
}

func NewArgList(items []Value, named map[string]Value) *ArgList {
	return &ArgList{Items: items, Sep: SepComma, Named: named}
}

func (a *ArgList) Type() string { return "arglist" }

func (a *ArgList) String() string {
	return NewList(a.Items, a.Sep, BracketsNone).String()
}

func (a *ArgList) Inspect() string {
	return NewList(a.Items, a.Sep, BracketsNone).Inspect()
}

// Keyword looks up a named argument stashed on the arglist by name
// (without the leading $), for a future `meta.keywords()`-style builtin.
func (a *ArgList) Keyword(name string) (Value, bool) {
	v, ok := a.Named[name]
	return v, ok
}

// ---------------------------------------------------------------------
// Map

// Map preserves insertion order; key equality is by value equality
// (spec §3).
type Map struct {
	Keys   []Value
	Values []Value
}

func NewMap() *Map { return &Map{} }

func (m *Map) Type() string { return "map" }

func (m *Map) Get(key Value) (Value, bool) {
	for i, k := range m.Keys {
		if Equal(k, key) {
			return m.Values[i], true
		}
	}
	return nil, false
}

func (m *Map) Set(key, val Value) {
	for i, k := range m.Keys {
		if Equal(k, key) {
			m.Values[i] = val
			return
		}
	}
	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, val)
}

func (m *Map) Remove(key Value) {
	for i, k := range m.Keys {
		if Equal(k, key) {
			m.Keys = append(m.Keys[:i], m.Keys[i+1:]...)
			m.Values = append(m.Values[:i], m.Values[i+1:]...)
			return
		}
	}
}

func (m *Map) String() string {
	parts := make([]string, len(m.Keys))
	for i, k := range m.Keys {
		parts[i] = fmt.Sprintf("%s: %s", k.String(), m.Values[i].String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (m *Map) Inspect() string {
	parts := make([]string, len(m.Keys))
	for i, k := range m.Keys {
		parts[i] = fmt.Sprintf("%s: %s", k.Inspect(), m.Values[i].Inspect())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// SortedKeys returns Keys in a stable display order; used only by
// diagnostics that want determinism independent of insertion order.
func (m *Map) SortedKeys() []Value {
	out := append([]Value(nil), m.Keys...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// ---------------------------------------------------------------------
// Bool, Null, Important

type Bool struct{ Value bool }

func NewBool(b bool) *Bool { return &Bool{Value: b} }

func (b *Bool) Type() string   { return "bool" }
func (b *Bool) String() string { return strconv.FormatBool(b.Value) }
func (b *Bool) Inspect() string { return b.String() }

type Null struct{}

var TheNull = &Null{}

func (n *Null) Type() string   { return "null" }
func (n *Null) String() string { return "" }
func (n *Null) Inspect() string { return "null" }

// Important is the literal !important value.
type Important struct{}

var TheImportant = &Important{}

func (i *Important) Type() string   { return "string" }
func (i *Important) String() string { return "!important" }
func (i *Important) Inspect() string { return "!important" }

// ---------------------------------------------------------------------
// BinaryOp, Paren — intermediate nodes (spec §3, §9 "lazy binary-op nodes")

// Op identifies an arithmetic/comparison/logical operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNeq
	OpAnd
	OpOr
)

// BinaryOp is an unevaluated algebraic node, produced only as an
// intermediate when at least one operand isn't a ground literal (spec
// §4.3's folding rule; §9's "lazy binary-op nodes" for @while bodies).
type BinaryOp struct {
	LHS, RHS Value
	Operator Op
	Pos      token.Position
}

func (b *BinaryOp) Type() string   { return "binaryop" }
func (b *BinaryOp) String() string { return "<binaryop>" }
func (b *BinaryOp) Inspect() string { return b.String() }

// Paren wraps a single grouped expression; it is never retained in a
// fully-evaluated result (spec §4.3: "Parentheses either group (single
// child)...").
type Paren struct {
	Inner Value
}

func (p *Paren) Type() string   { return p.Inner.Type() }
func (p *Paren) String() string { return "(" + p.Inner.String() + ")" }
func (p *Paren) Inspect() string { return "(" + p.Inner.Inspect() + ")" }

// ---------------------------------------------------------------------
// Calc — passthrough calc()/min()/max()/clamp() (SPEC_FULL supplement)

// Calc carries an unevaluated function call whose arguments may reference
// CSS custom properties the compiler cannot reduce; args are re-serialized
// losslessly rather than evaluated to Values.
type Calc struct {
	Name string
	Args string // verbatim source text between the parens
}

func (c *Calc) Type() string   { return "string" }
func (c *Calc) String() string { return c.Name + "(" + c.Args + ")" }
func (c *Calc) Inspect() string { return c.String() }

// ---------------------------------------------------------------------
// Truthiness, equality

// Truthy implements spec §3: Null and false are falsey; everything else
// (including "", 0, an empty list) is truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case *Null:
		return false
	case *Bool:
		return t.Value
	default:
		return true
	}
}

// Equal implements structural value equality for ==.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Dimension:
		bv, ok := b.(*Dimension)
		if !ok {
			return false
		}
		unit, compat := CompatibleUnit(av.Unit, bv.Unit)
		if !compat {
			return false
		}
		_ = unit
		return av.Num.Cmp(bv.Num) == 0
	case *String:
		bv, ok := b.(*String)
		return ok && av.Text == bv.Text
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Color:
		bv, ok := b.(*Color)
		return ok && av.R == bv.R && av.G == bv.G && av.B == bv.B && av.A == bv.A
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for i, k := range av.Keys {
			bval, found := bv.Get(k)
			if !found || !Equal(av.Values[i], bval) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// TypeOf implements the type-of builtin's fixed label set (spec §8).
func TypeOf(v Value) string {
	switch v.(type) {
	case *Dimension:
		return "number"
	case *String:
		return "string"
	case *Color:
		return "color"
	case *List:
		return "list"
	case *ArgList:
		return "arglist"
	case *Map:
		return "map"
	case *Bool:
		return "bool"
	case *Null:
		return "null"
	default:
		return "string"
	}
}
