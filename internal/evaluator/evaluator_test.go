package evaluator

import (
	"testing"

	"github.com/cwbudde/cssc/internal/lexer"
	"github.com/cwbudde/cssc/internal/scope"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

func lexExpr(src string) []token.Token {
	l := lexer.New(src)
	var toks []token.Token
	for {
		t := l.Next()
		if t.Type == token.EOF {
			return toks
		}
		toks = append(toks, t)
	}
}

func newEval(sc *scope.Scope) *Evaluator {
	return New(sc, nil, nil)
}

func evalStr(t *testing.T, src string) string {
	t.Helper()
	e := newEval(scope.New())
	v, err := e.Eval(lexExpr(src))
	if err != nil {
		t.Fatalf("eval(%q) error: %v", src, err)
	}
	return v.String()
}

func TestEvalArithmetic(t *testing.T) {
	cases := map[string]string{
		"1 + 2":      "3",
		"10px * 2":   "20px",
		"10px - 4px": "6px",
		"2 + 3 * 4":  "14",
		"(2 + 3) * 4": "20",
	}
	for src, want := range cases {
		if got := evalStr(t, src); got != want {
			t.Errorf("eval(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestEvalDivisionShorthandVsComputed(t *testing.T) {
	// A bare `/` between two literals with no other operator context is the
	// CSS-shorthand case: it stays an unquoted string, not arithmetic.
	if got := evalStr(t, "16px/1.4"); got != "16px/1.4" {
		t.Errorf("16px/1.4 = %q, want the literal shorthand string", got)
	}
	// Division inside a parenthesized group is a computed context.
	if got := evalStr(t, "(16px)/2"); got != "8px" {
		t.Errorf("(16px)/2 = %q, want 8px", got)
	}
	// Division where an operand is itself the result of arithmetic.
	if got := evalStr(t, "(10px + 6px) / 2"); got != "8px" {
		t.Errorf("(10px + 6px) / 2 = %q, want 8px", got)
	}
}

func TestEvalUnitMismatchErrors(t *testing.T) {
	e := newEval(scope.New())
	if _, err := e.Eval(lexExpr("1px + 1em")); err == nil {
		t.Fatal("adding incompatible units should error")
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	e := newEval(scope.New())
	if _, err := e.Eval(lexExpr("(4 + 0) / (1 - 1)")); err == nil {
		t.Fatal("dividing by zero in a computed context should error")
	}
}

func TestEvalStringConcatInheritsLeftQuote(t *testing.T) {
	if got := evalStr(t, `'a' + "b"`); got != "'ab'" {
		t.Errorf(`'a' + "b" = %q, want 'ab' (left operand's quote)`, got)
	}
}

func TestEvalComparisonAndLogic(t *testing.T) {
	cases := map[string]string{
		"1 < 2":          "true",
		"2 <= 2":         "true",
		"1 == 1":         "true",
		"1 != 2":         "true",
		"true and false":  "false",
		"true or false":   "true",
		"not true":        "false",
	}
	for src, want := range cases {
		if got := evalStr(t, src); got != want {
			t.Errorf("eval(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestEvalVariableLookup(t *testing.T) {
	sc := scope.New()
	sc.DefineVar("x", value.NewInt(5, "px"))
	e := newEval(sc)
	v, err := e.Eval(lexExpr("$x * 2"))
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "10px" {
		t.Errorf("$x * 2 = %s, want 10px", v.String())
	}
}

func TestEvalUndefinedVariableIsNameError(t *testing.T) {
	e := newEval(scope.New())
	if _, err := e.Eval(lexExpr("$nope")); err == nil {
		t.Fatal("referencing an undefined variable should be a NameError")
	}
}

func TestEvalSpaceAndCommaLists(t *testing.T) {
	e := newEval(scope.New())
	v, err := e.Eval(lexExpr("1px 2px, 3px"))
	if err != nil {
		t.Fatal(err)
	}
	l, ok := v.(*value.List)
	if !ok || l.Sep != value.SepComma || len(l.Items) != 2 {
		t.Fatalf("expected a 2-item comma list, got %#v", v)
	}
	inner, ok := l.Items[0].(*value.List)
	if !ok || inner.Sep != value.SepSpace || len(inner.Items) != 2 {
		t.Fatalf("expected the first comma item to be a 2-item space list, got %#v", l.Items[0])
	}
}

func TestEvalHexColor(t *testing.T) {
	v, err := newEval(scope.New()).Eval(lexExpr("#ff0000"))
	if err != nil {
		t.Fatal(err)
	}
	c, ok := v.(*value.Color)
	if !ok || c.R != 255 || c.G != 0 || c.B != 0 {
		t.Fatalf("expected red, got %#v", v)
	}
}

func TestEvalUnknownFunctionPassesThrough(t *testing.T) {
	v, err := newEval(scope.New()).Eval(lexExpr(`translate(10px, 20px)`))
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "translate(10px, 20px)" {
		t.Errorf("unknown function call should round-trip verbatim, got %q", v.String())
	}
}

func TestEvalContextualKeywordsAreOrdinaryIdents(t *testing.T) {
	// "to"/"from"/"through"/"using" only mean something inside @for/@include
	// grammar; in a value position they are plain unquoted identifiers.
	if got := evalStr(t, "linear-gradient(to right, red, blue)"); got != "linear-gradient(to right, red, blue)" {
		t.Errorf("got %q, want the gradient to round-trip verbatim", got)
	}
	if got := evalStr(t, "from"); got != "from" {
		t.Errorf("got %q, want from", got)
	}
}

func TestEvalInterpolationInsideIdent(t *testing.T) {
	sc := scope.New()
	sc.DefineVar("name", value.NewString("icon", value.QuoteNone))
	v, err := newEval(sc).Eval(lexExpr("foo-#{$name}-bar"))
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "foo-icon-bar" {
		t.Errorf("got %q, want foo-icon-bar", v.String())
	}
}
