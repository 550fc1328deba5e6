package plaincss

import (
	"strings"
	"testing"

	"github.com/cwbudde/cssc/internal/parser"
)

func check(t *testing.T, src string, isSassBuiltin FunctionAllowed) string {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse(%q) error: %v", src, err)
	}
	ce := Check(prog, src, isSassBuiltin)
	if ce == nil {
		return ""
	}
	return ce.Message
}

func alwaysSass(string) bool { return true }
func neverSass(string) bool  { return false }

func TestOperatorsRejected(t *testing.T) {
	got := check(t, "a { color: 1 + 2; }", neverSass)
	if got != "Operators aren't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestNegativeNumberIsNotAnOperator(t *testing.T) {
	if got := check(t, "a { margin: -5px; }", neverSass); got != "" {
		t.Errorf("a leading unary minus should be allowed, got %q", got)
	}
}

func TestSassVariableRejected(t *testing.T) {
	got := check(t, "a { color: $x; }", neverSass)
	if got != "Sass variables aren't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestVarAssignRejected(t *testing.T) {
	got := check(t, "$x: 1; a { color: red; }", neverSass)
	if got != "Sass variables aren't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestControlAtRuleRejected(t *testing.T) {
	got := check(t, "@if true { a { color: red; } }", neverSass)
	if got != "This at-rule isn't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestParentSelectorRejected(t *testing.T) {
	got := check(t, "a { &:hover { color: red; } }", neverSass)
	if got != "The parent selector isn't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestGroupingParensRejected(t *testing.T) {
	got := check(t, "a { width: (1 + 2); }", neverSass)
	if got != "Operators aren't allowed in plain CSS." && got != "Parentheses aren't allowed in plain CSS." {
		t.Errorf("expected a parens or operator diagnostic, got %q", got)
	}
}

func TestBareGroupingParensRejected(t *testing.T) {
	got := check(t, "a { width: (1); }", neverSass)
	if got != "Parentheses aren't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestSassFunctionRejected(t *testing.T) {
	got := check(t, "a { color: lighten(red, 10%); }", alwaysSass)
	if got != "This function isn't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestOrdinaryCSSFunctionAllowed(t *testing.T) {
	got := check(t, "a { width: calc(1px + 2px); }", neverSass)
	if got != "" {
		t.Errorf("calc() and its internal + are ordinary CSS, not Sass arithmetic, and should be allowed: got %q", got)
	}
}

func TestNestedParensInsideCalcAllowed(t *testing.T) {
	got := check(t, "a { width: calc((1px + 2px) * 2); }", neverSass)
	if got != "" {
		t.Errorf("nested grouping parens inside an allowed function call should be allowed, got %q", got)
	}
}

func TestMediaPreludeParensAllowed(t *testing.T) {
	got := check(t, "@media (min-width: 100px) and (max-width: 200px) { a { color: red; } }", neverSass)
	if got != "" {
		t.Errorf("@media condition parens/and are not Sass grouping/operators, got %q", got)
	}
}

func TestSassVariableInMediaPreludeRejected(t *testing.T) {
	got := check(t, "@media (min-width: $bp) { a { color: red; } }", neverSass)
	if got != "Sass variables aren't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestVarFunctionAlwaysAllowed(t *testing.T) {
	got := check(t, "a { color: var(--main-color); }", alwaysSass)
	if got != "" {
		t.Errorf("var() must always be allowed even if a registry happens to know the name, got %q", got)
	}
}

func TestSilentCommentRejected(t *testing.T) {
	got := check(t, "// not allowed\na { color: red; }", neverSass)
	if got != "Silent comments aren't allowed in plain CSS." {
		t.Errorf("got %q", got)
	}
}

func TestBlockCommentAllowed(t *testing.T) {
	got := check(t, "/* fine */ a { color: red; }", neverSass)
	if got != "" {
		t.Errorf("block comments are ordinary CSS comments and should be allowed, got %q", got)
	}
}

func TestCleanPlainCSSPasses(t *testing.T) {
	src := "a, b.c#d { color: red; margin: 1px 2px; }\n@media (min-width: 100px) { a { color: blue; } }\n"
	if got := check(t, src, neverSass); got != "" {
		t.Errorf("ordinary CSS should not trigger any diagnostic, got %q", got)
	}
}

func TestFirstLineCommentPositionIsReported(t *testing.T) {
	prog, err := parser.Parse("a { color: red; } // trailing\n")
	if err != nil {
		t.Fatal(err)
	}
	ce := Check(prog, "a { color: red; } // trailing\n", neverSass)
	if ce == nil {
		t.Fatal("expected a diagnostic")
	}
	if !strings.Contains(ce.Message, "Silent comments") {
		t.Errorf("got %q", ce.Message)
	}
}
