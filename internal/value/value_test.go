package value

import (
	"math/big"
	"testing"
)

func TestDimensionString(t *testing.T) {
	cases := []struct {
		num  *big.Rat
		unit string
		want string
	}{
		{big.NewRat(10, 1), "px", "10px"},
		{big.NewRat(1, 3), "", "0.3333333333"},
		{big.NewRat(0, 1), "%", "0%"},
	}
	for _, c := range cases {
		d := NewDimension(c.num, c.unit)
		if got := d.String(); got != c.want {
			t.Errorf("Dimension{%v, %q}.String() = %q, want %q", c.num, c.unit, got, c.want)
		}
	}
}

func TestCompatibleUnit(t *testing.T) {
	cases := []struct {
		a, b     string
		wantUnit string
		wantOK   bool
	}{
		{"px", "px", "px", true},
		{"", "px", "px", true},
		{"px", "", "px", true},
		{"%", "%", "%", true},
		{"%", "px", "", false},
		{"px", "em", "", false},
	}
	for _, c := range cases {
		unit, ok := CompatibleUnit(c.a, c.b)
		if unit != c.wantUnit || ok != c.wantOK {
			t.Errorf("CompatibleUnit(%q, %q) = (%q, %v), want (%q, %v)", c.a, c.b, unit, ok, c.wantUnit, c.wantOK)
		}
	}
}

func TestTruthy(t *testing.T) {
	if Truthy(TheNull) {
		t.Error("null should be falsey")
	}
	if Truthy(NewBool(false)) {
		t.Error("false should be falsey")
	}
	truthyVals := []Value{
		NewBool(true),
		NewString("", QuoteNone),
		NewInt(0, ""),
		NewList(nil, SepSpace, BracketsNone),
	}
	for _, v := range truthyVals {
		if !Truthy(v) {
			t.Errorf("%#v should be truthy", v)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewInt(10, "px")
	b := NewDimension(big.NewRat(10, 1), "px")
	if !Equal(a, b) {
		t.Error("equal dimensions with same unit should be Equal")
	}
	c := NewInt(10, "em")
	if Equal(a, c) {
		t.Error("dimensions with incompatible units should not be Equal")
	}
	s1 := NewString("x", QuoteSingle)
	s2 := NewString("x", QuoteDouble)
	if !Equal(s1, s2) {
		t.Error("strings should be equal regardless of quote kind")
	}
	l1 := NewList([]Value{NewInt(1, ""), NewInt(2, "")}, SepSpace, BracketsNone)
	l2 := NewList([]Value{NewInt(1, ""), NewInt(2, "")}, SepComma, BracketsNone)
	if !Equal(l1, l2) {
		t.Error("lists should be equal by elements regardless of separator")
	}
}

func TestAsListCoercion(t *testing.T) {
	single := NewInt(5, "px")
	l := AsList(single)
	if len(l.Items) != 1 || l.Items[0] != Value(single) {
		t.Errorf("AsList of a scalar should wrap it in a one-element list, got %#v", l)
	}

	m := NewMap()
	m.Set(NewString("a", QuoteNone), NewInt(1, ""))
	m.Set(NewString("b", QuoteNone), NewInt(2, ""))
	ml := AsList(m)
	if len(ml.Items) != 2 {
		t.Fatalf("AsList(map) should have one pair per entry, got %d", len(ml.Items))
	}
	pair, ok := ml.Items[0].(*List)
	if !ok || len(pair.Items) != 2 {
		t.Fatalf("AsList(map) entries should be two-element sublists, got %#v", ml.Items[0])
	}
}

func TestMapGetSetRemove(t *testing.T) {
	m := NewMap()
	k := NewString("key", QuoteNone)
	m.Set(k, NewInt(1, ""))
	if v, ok := m.Get(k); !ok || v.(*Dimension).Num.Cmp(big.NewRat(1, 1)) != 0 {
		t.Fatalf("Get after Set failed: %#v, %v", v, ok)
	}
	m.Set(k, NewInt(2, ""))
	if len(m.Keys) != 1 {
		t.Fatalf("Set with existing key should overwrite, not append; got %d keys", len(m.Keys))
	}
	m.Remove(k)
	if _, ok := m.Get(k); ok {
		t.Fatal("Get after Remove should not find the key")
	}
}

func TestStringInspectPreservesQuotes(t *testing.T) {
	unquoted := NewString("foo", QuoteNone)
	if got := unquoted.Inspect(); got != `"foo"` {
		t.Errorf("Inspect of unquoted string should add quotes, got %q", got)
	}
	if got := unquoted.String(); got != "foo" {
		t.Errorf("String of unquoted string should stay bare, got %q", got)
	}
}

func TestListInspectBrackets(t *testing.T) {
	bracketed := NewList([]Value{NewInt(1, ""), NewInt(2, "")}, SepComma, BracketsSquare)
	if got := bracketed.Inspect(); got != "[1, 2]" {
		t.Errorf("Inspect of a bracketed list should show brackets, got %q", got)
	}

	unbracketed := NewList([]Value{NewInt(1, ""), NewInt(2, "")}, SepComma, BracketsNone)
	if got := unbracketed.Inspect(); got != "1, 2" {
		t.Errorf("Inspect of an unbracketed list should not show brackets, got %q", got)
	}
	if got := unbracketed.String(); got != "1, 2" {
		t.Errorf("String of an unbracketed list should not show brackets, got %q", got)
	}
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NewInt(1, "px"), "number"},
		{NewString("x", QuoteNone), "string"},
		{&Color{R: 1, G: 2, B: 3, A: 1}, "color"},
		{NewList(nil, SepSpace, BracketsNone), "list"},
		{NewArgList(nil, nil), "arglist"},
		{NewMap(), "map"},
		{NewBool(true), "bool"},
		{TheNull, "null"},
	}
	for _, c := range cases {
		if got := TypeOf(c.v); got != c.want {
			t.Errorf("TypeOf(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}
