package printer_test

import (
	"testing"

	"github.com/cwbudde/cssc/internal/flatten"
	"github.com/cwbudde/cssc/internal/printer"
)

func TestPrintExpandedSuppressesEmptyRules(t *testing.T) {
	nodes := []flatten.Node{
		&flatten.Rule{Selector: ".empty"},
		&flatten.Rule{Selector: ".full", Decls: []flatten.Decl{{Property: "color", Value: "red"}}},
	}
	p := printer.New(printer.Options{Style: printer.StyleExpanded})
	got := p.Print(nodes)
	want := ".full {\n  color: red;\n}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintCompressed(t *testing.T) {
	nodes := []flatten.Node{
		&flatten.Rule{Selector: ".box", Decls: []flatten.Decl{
			{Property: "color", Value: "red"},
			{Property: "width", Value: "10px", Important: true},
		}},
		&flatten.Rule{Selector: "a > b, .c .d", Decls: []flatten.Decl{
			{Property: "margin", Value: "0"},
		}},
	}
	p := printer.New(printer.Options{Style: printer.StyleCompressed})
	got := p.Print(nodes)
	want := ".box{color:red;width:10px!important}a>b,.c .d{margin:0}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintCompressedAtBlock(t *testing.T) {
	nodes := []flatten.Node{
		&flatten.AtBlock{Keyword: "media", Prelude: "screen", Children: []flatten.Node{
			&flatten.Rule{Selector: "a", Decls: []flatten.Decl{{Property: "color", Value: "red"}}},
		}},
	}
	p := printer.New(printer.Options{Style: printer.StyleCompressed})
	got := p.Print(nodes)
	want := "@media screen{a{color:red}}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintCharsetFirst(t *testing.T) {
	nodes := []flatten.Node{
		&flatten.Charset{Value: "UTF-8"},
		&flatten.Rule{Selector: "a", Decls: []flatten.Decl{{Property: "color", Value: "red"}}},
	}
	p := printer.New(printer.Options{Style: printer.StyleExpanded})
	got := p.Print(nodes)
	want := "@charset \"UTF-8\";\na {\n  color: red;\n}"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCollectStats(t *testing.T) {
	nodes := []flatten.Node{
		&flatten.Rule{Selector: "a", Decls: []flatten.Decl{{Property: "color", Value: "red"}}},
		&flatten.AtBlock{Keyword: "media", Prelude: "screen", Children: []flatten.Node{
			&flatten.Rule{Selector: "b", Decls: []flatten.Decl{{Property: "x", Value: "1"}, {Property: "y", Value: "2"}}},
		}},
	}
	p := printer.New(printer.Options{})
	stats := p.CollectStats(nodes)
	if stats.Rules != 2 || stats.Declares != 3 || stats.AtBlocks != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
