package inspect_test

import (
	"testing"

	"github.com/cwbudde/cssc/internal/flatten"
	"github.com/cwbudde/cssc/internal/inspect"
	"github.com/cwbudde/cssc/internal/value"
)

func TestValueScalar(t *testing.T) {
	doc, err := inspect.Value(value.NewInt(12, "px"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inspect.Query(doc, "type").String(); got != "number" {
		t.Errorf("type = %q, want number", got)
	}
	if got := inspect.Query(doc, "value").String(); got != "12px" {
		t.Errorf("value = %q, want 12px", got)
	}
}

func TestValueList(t *testing.T) {
	items := []value.Value{
		value.NewString("a", value.QuoteNone),
		value.NewString("b", value.QuoteNone),
	}
	doc, err := inspect.Value(value.NewList(items, value.SepComma, value.BracketsNone))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inspect.Query(doc, "type").String(); got != "list" {
		t.Errorf("type = %q, want list", got)
	}
	if got := inspect.Query(doc, "items.1.value").String(); got != "b" {
		t.Errorf("items.1.value = %q, want b", got)
	}
}

func TestFlattened(t *testing.T) {
	nodes := []flatten.Node{
		&flatten.Rule{Selector: ".box", Decls: []flatten.Decl{{Property: "color", Value: "red", Important: true}}},
	}
	doc, err := inspect.Flattened(nodes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := inspect.Query(doc, "0.kind").String(); got != "rule" {
		t.Errorf("0.kind = %q, want rule", got)
	}
	if got := inspect.Query(doc, "0.selector").String(); got != ".box" {
		t.Errorf("0.selector = %q, want .box", got)
	}
	if got := inspect.Query(doc, "0.decls.0.important").Bool(); !got {
		t.Error("0.decls.0.important = false, want true")
	}
}
