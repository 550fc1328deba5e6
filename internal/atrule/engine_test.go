package atrule

import (
	"testing"

	"github.com/cwbudde/cssc/internal/builtins"
	"github.com/cwbudde/cssc/internal/parser"
	"github.com/cwbudde/cssc/internal/printer"
	"github.com/cwbudde/cssc/internal/scope"
)

func compileCSS(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	eng := New(Options{Source: src, File: "<test>"}, builtins.DefaultRegistry)
	nodes, err := eng.Run(prog, scope.New())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	p := printer.New(printer.Options{Style: printer.StyleExpanded})
	return p.Print(nodes)
}

func TestNestedParentSelector(t *testing.T) {
	src := `.btn {
  color: red;
  &:hover { color: blue; }
}`
	want := ".btn {\n  color: red;\n}\n.btn:hover {\n  color: blue;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestVariablesAndArithmetic(t *testing.T) {
	src := `$base: 10px;
.box { width: $base * 2; }`
	want := ".box {\n  width: 20px;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestIfElse(t *testing.T) {
	src := `$big: true;
.box {
  @if $big {
    width: 100px;
  } @else {
    width: 10px;
  }
}`
	want := ".box {\n  width: 100px;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEachOverList(t *testing.T) {
	src := `@each $name in a, b, c {
  .icon-#{$name} { content: "#{$name}"; }
}`
	want := ".icon-a {\n  content: \"a\";\n}\n" +
		".icon-b {\n  content: \"b\";\n}\n" +
		".icon-c {\n  content: \"c\";\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestForLoopInclusive(t *testing.T) {
	src := `@for $i from 1 through 3 {
  .col-#{$i} { width: $i; }
}`
	want := ".col-1 {\n  width: 1;\n}\n" +
		".col-2 {\n  width: 2;\n}\n" +
		".col-3 {\n  width: 3;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMixinWithContent(t *testing.T) {
	src := `@mixin hov { &:hover { @content; } }
a { @include hov { color: red; } }`
	want := "a:hover {\n  color: red;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestContentBlockUsingParams(t *testing.T) {
	src := `@mixin grid { @content(4, 8px); }
.row { @include grid using ($cols, $gap) { width: $cols * $gap; } }`
	want := ".row {\n  width: 32px;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestContentUsingParamDefault(t *testing.T) {
	src := `@mixin grid { @content(4); }
.row { @include grid using ($cols, $gap: 2px) { width: $cols * $gap; } }`
	want := ".row {\n  width: 8px;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFunctionCall(t *testing.T) {
	src := `@function double($n) { @return $n * 2; }
.box { width: double(5px); }`
	want := ".box {\n  width: 10px;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAtRootLiftsOutOfNesting(t *testing.T) {
	src := `.parent {
  color: red;
  @at-root .lifted { color: blue; }
}`
	got := compileCSS(t, src)
	want := ".parent {\n  color: red;\n}\n.lifted {\n  color: blue;\n}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAtRootStaysInsideMedia(t *testing.T) {
	src := `@media screen { .a { color: red; @at-root .b { color: blue; } } }`
	want := "@media screen {\n  .a {\n    color: red;\n  }\n  .b {\n    color: blue;\n  }\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestImportantFlag(t *testing.T) {
	src := `.box { color: red !important; }`
	want := ".box {\n  color: red !important;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestMediaQueryWrapsNestedRules(t *testing.T) {
	src := `@media (min-width: 100px) {
  .box { color: red; }
}`
	want := "@media (min-width: 100px) {\n  .box {\n    color: red;\n  }\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestVariadicFunctionAcceptsNamedArgsPassthrough(t *testing.T) {
	src := `@function count-args($args...) { @return length($args); }
.box { width: count-args(1, 2, $extra: 3); }`
	want := ".box {\n  width: 2;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestVariadicArgsTypeIsArglist(t *testing.T) {
	src := `@function argtype($args...) { @return type-of($args); }
.box { width: argtype(1, 2); }`
	want := ".box {\n  width: arglist;\n}"
	if got := compileCSS(t, src); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestUndefinedMixinIsNameError(t *testing.T) {
	src := `a { @include nope; }`
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	eng := New(Options{Source: src, File: "<test>"}, builtins.DefaultRegistry)
	if _, err := eng.Run(prog, scope.New()); err == nil {
		t.Fatal("expected an error for an undefined mixin")
	}
}
