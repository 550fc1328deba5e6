package builtins

import (
	"testing"

	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

var noPos = token.Position{Line: 1, Column: 1}

func dim(n int64, unit string) *value.Dimension { return value.NewInt(n, unit) }
func str(s string) *value.String                { return value.NewString(s, value.QuoteNone) }

func mustOK(t *testing.T) func(value.Value, error) value.Value {
	t.Helper()
	return func(v value.Value, err error) value.Value {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

func TestLengthAndNth(t *testing.T) {
	l := value.NewList([]value.Value{dim(1, ""), dim(2, ""), dim(3, "")}, value.SepComma, value.BracketsNone)
	got := mustOK(t)(Length([]value.Value{l}, noPos))
	if got.String() != "3" {
		t.Errorf("length() = %s, want 3", got.String())
	}
	n := mustOK(t)(Nth([]value.Value{l, dim(2, "")}, noPos))
	if n.String() != "2" {
		t.Errorf("nth(l, 2) = %s, want 2", n.String())
	}
	// Negative index counts from the end.
	n2 := mustOK(t)(Nth([]value.Value{l, dim(-1, "")}, noPos))
	if n2.String() != "3" {
		t.Errorf("nth(l, -1) = %s, want 3", n2.String())
	}
}

func TestNthOutOfRange(t *testing.T) {
	l := value.NewList([]value.Value{dim(1, "")}, value.SepComma, value.BracketsNone)
	if _, err := Nth([]value.Value{l, dim(5, "")}, noPos); err == nil {
		t.Fatal("expected IndexError for out-of-range nth()")
	}
}

func TestAppendAndJoin(t *testing.T) {
	l := value.NewList([]value.Value{dim(1, "")}, value.SepComma, value.BracketsNone)
	appended := mustOK(t)(Append([]value.Value{l, dim(2, "")}, noPos)).(*value.List)
	if len(appended.Items) != 2 {
		t.Fatalf("append() should grow the list, got %d items", len(appended.Items))
	}

	a := value.NewList([]value.Value{dim(1, "")}, value.SepComma, value.BracketsNone)
	b := value.NewList([]value.Value{dim(2, "")}, value.SepComma, value.BracketsNone)
	joined := mustOK(t)(Join([]value.Value{a, b}, noPos)).(*value.List)
	if len(joined.Items) != 2 {
		t.Fatalf("join() should concatenate both lists, got %d items", len(joined.Items))
	}
}

func TestIndexReturnsNullWhenAbsent(t *testing.T) {
	l := value.NewList([]value.Value{dim(1, "")}, value.SepComma, value.BracketsNone)
	got := mustOK(t)(Index([]value.Value{l, dim(9, "")}, noPos))
	if _, ok := got.(*value.Null); !ok {
		t.Errorf("index() of a missing value should be null, got %#v", got)
	}
}

func TestMapGetHasKeys(t *testing.T) {
	m := value.NewMap()
	m.Set(str("a"), dim(1, ""))
	m.Set(str("b"), dim(2, ""))

	got := mustOK(t)(MapGet([]value.Value{m, str("a")}, noPos))
	if got.String() != "1" {
		t.Errorf("map-get(m, a) = %s, want 1", got.String())
	}
	hasA := mustOK(t)(MapHasKey([]value.Value{m, str("a")}, noPos)).(*value.Bool)
	if !hasA.Value {
		t.Error("map-has-key(m, a) should be true")
	}
	hasC := mustOK(t)(MapHasKey([]value.Value{m, str("c")}, noPos)).(*value.Bool)
	if hasC.Value {
		t.Error("map-has-key(m, c) should be false")
	}
	keys := mustOK(t)(MapKeys([]value.Value{m}, noPos)).(*value.List)
	if len(keys.Items) != 2 {
		t.Errorf("map-keys() should return 2 keys, got %d", len(keys.Items))
	}
}

func TestMapMergeAndRemove(t *testing.T) {
	a := value.NewMap()
	a.Set(str("a"), dim(1, ""))
	b := value.NewMap()
	b.Set(str("b"), dim(2, ""))
	merged := mustOK(t)(MapMerge([]value.Value{a, b}, noPos)).(*value.Map)
	if len(merged.Keys) != 2 {
		t.Fatalf("map-merge should union keys, got %d", len(merged.Keys))
	}

	removed := mustOK(t)(MapRemove([]value.Value{merged, str("a")}, noPos)).(*value.Map)
	if len(removed.Keys) != 1 {
		t.Fatalf("map-remove should drop one key, got %d", len(removed.Keys))
	}
	if _, ok := removed.Get(str("a")); ok {
		t.Error("map-remove(m, a) should no longer contain a")
	}
}

func TestMathBuiltins(t *testing.T) {
	if got := mustOK(t)(Abs([]value.Value{dim(-5, "px")}, noPos)); got.String() != "5px" {
		t.Errorf("abs(-5px) = %s, want 5px", got.String())
	}
	if got := mustOK(t)(Ceil([]value.Value{dim(1, "")}, noPos)); got.String() != "1" {
		t.Errorf("ceil(1) = %s, want 1", got.String())
	}
	if got := mustOK(t)(Min([]value.Value{dim(3, "px"), dim(1, "px"), dim(2, "px")}, noPos)); got.String() != "1px" {
		t.Errorf("min(3px,1px,2px) = %s, want 1px", got.String())
	}
	if got := mustOK(t)(Max([]value.Value{dim(3, "px"), dim(1, "px"), dim(2, "px")}, noPos)); got.String() != "3px" {
		t.Errorf("max(3px,1px,2px) = %s, want 3px", got.String())
	}
	pct := mustOK(t)(Percentage([]value.Value{dim(1, "")}, noPos))
	if pct.String() != "100%" {
		t.Errorf("percentage(1) = %s, want 100%%", pct.String())
	}
}

func TestPercentageRejectsUnits(t *testing.T) {
	if _, err := Percentage([]value.Value{dim(1, "px")}, noPos); err == nil {
		t.Fatal("percentage() of a value with a unit should error")
	}
}

func TestStringBuiltins(t *testing.T) {
	q := mustOK(t)(Quote([]value.Value{str("x")}, noPos))
	if q.String() != `"x"` {
		t.Errorf("quote(x) = %s, want \"x\"", q.String())
	}
	upper := mustOK(t)(ToUpperCase([]value.Value{str("abc")}, noPos))
	if upper.String() != "ABC" {
		t.Errorf("to-upper-case(abc) = %s, want ABC", upper.String())
	}
	length := mustOK(t)(StrLength([]value.Value{str("hello")}, noPos))
	if length.String() != "5" {
		t.Errorf("str-length(hello) = %s, want 5", length.String())
	}
	sliced := mustOK(t)(StrSlice([]value.Value{str("hello"), dim(2, ""), dim(4, "")}, noPos))
	if sliced.String() != "ell" {
		t.Errorf("str-slice(hello, 2, 4) = %s, want ell", sliced.String())
	}
	idx := mustOK(t)(StrIndex([]value.Value{str("hello"), str("ll")}, noPos))
	if idx.String() != "3" {
		t.Errorf("str-index(hello, ll) = %s, want 3", idx.String())
	}
}

func TestTypeOfBuiltin(t *testing.T) {
	got := mustOK(t)(TypeOf([]value.Value{dim(1, "px")}, noPos))
	if got.String() != "number" {
		t.Errorf("type-of(1px) = %s, want number", got.String())
	}
}

func TestDefaultRegistryHasCoreFunctions(t *testing.T) {
	names := []string{"length", "nth", "map-get", "rgb", "mix", "abs", "quote", "type-of"}
	for _, n := range names {
		if !DefaultRegistry.Has(n) {
			t.Errorf("DefaultRegistry is missing built-in %q", n)
		}
	}
}

func TestRegistryRegisterReplacesWithoutDuplicatingCategory(t *testing.T) {
	r := NewRegistry()
	calls := 0
	fn1 := func(args []value.Value, pos token.Position) (value.Value, error) { calls++; return value.TheNull, nil }
	fn2 := func(args []value.Value, pos token.Position) (value.Value, error) { calls += 10; return value.TheNull, nil }
	r.Register("foo", fn1, CategoryMath, "")
	r.Register("foo", fn2, CategoryMath, "")
	if len(r.GetByCategory(CategoryMath)) != 1 {
		t.Fatalf("re-registering a name should not duplicate its category entry, got %d", len(r.GetByCategory(CategoryMath)))
	}
	f, ok := r.Lookup("foo")
	if !ok {
		t.Fatal("expected foo to be registered")
	}
	if _, err := f(nil, noPos); err != nil {
		t.Fatal(err)
	}
	if calls != 10 {
		t.Errorf("Lookup should return the latest registration, got calls=%d", calls)
	}
}
