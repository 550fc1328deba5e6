package flatten_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/cssc/internal/atrule"
	"github.com/cwbudde/cssc/internal/builtins"
	"github.com/cwbudde/cssc/internal/parser"
	"github.com/cwbudde/cssc/internal/printer"
	"github.com/cwbudde/cssc/internal/scope"
)

// compile runs the full parser -> at-rule engine -> printer pipeline,
// the same shape internal/atrule's own tests use, so these golden tests
// exercise the flattener's output the way the printer actually consumes
// it rather than constructing flatten.Node values by hand.
func compile(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	eng := atrule.New(atrule.Options{Source: src, File: "<golden>"}, builtins.DefaultRegistry)
	nodes, err := eng.Run(prog, scope.New())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	p := printer.New(printer.Options{Style: printer.StyleExpanded})
	return p.Print(nodes)
}

// The first five numbered end-to-end scenarios, plus an @media prelude
// case, are long, stable CSS text blobs (the plain-CSS diagnostic scenario
// lives in internal/plaincss/guard_test.go) —
// exactly what go-snaps exists for, matching the teacher's own use of it
// for fixture-style regression coverage.

func TestGoldenNestedSelectorsAndParent(t *testing.T) {
	got := compile(t, `a { b { color: red; & c { color: blue; } } }`)
	snaps.MatchSnapshot(t, got)
}

func TestGoldenEachPairUnpacking(t *testing.T) {
	got := compile(t, `@each $k, $v in (a 1, b 2) { .#{$k} { x: $v; } }`)
	snaps.MatchSnapshot(t, got)
}

func TestGoldenFunctionVariableCapture(t *testing.T) {
	got := compile(t, `$x: 10; @function dbl($n) { @return $n * 2; } a { w: dbl($x); }`)
	snaps.MatchSnapshot(t, got)
}

func TestGoldenAtRootLiftsOutOfNesting(t *testing.T) {
	got := compile(t, `a { @at-root b { c: 1; } d: 2; }`)
	snaps.MatchSnapshot(t, got)
}

func TestGoldenMixinWithContent(t *testing.T) {
	got := compile(t, `@mixin hov { &:hover { @content; } } a { @include hov { color: red; } }`)
	snaps.MatchSnapshot(t, got)
}

func TestGoldenMediaQueryWrapping(t *testing.T) {
	got := compile(t, `@media (min-width: #{700px}) { a { color: red; } }`)
	snaps.MatchSnapshot(t, got)
}
