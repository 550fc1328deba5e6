// Package printer renders a flattened node list (internal/flatten) to CSS
// text, the last stage of spec §2's pipeline. Its Options/New/Print shape
// is grounded on the teacher's pkg/printer (printer.New(printer.Options{...})
// returning a value whose Print method renders one node to a string),
// generalized here to CSS's two-space nested-block style instead of
// DWScript's statement style.
package printer

import (
	"strconv"
	"strings"

	"github.com/cwbudde/cssc/internal/flatten"
)

// Style selects how the output is rendered (spec §6's `style`):
// "expanded" emits one declaration per line with two-space indentation;
// "compressed" strips non-significant whitespace.
type Style int

const (
	StyleExpanded Style = iota
	StyleCompressed
)

// Options configures a Printer.
type Options struct {
	Style  Style
	Indent string // per-level indent string for StyleExpanded; defaults to two spaces
}

// Printer renders []flatten.Node to CSS text.
type Printer struct {
	opts Options
}

func New(opts Options) *Printer {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	return &Printer{opts: opts}
}

// Print renders an entire flattened document.
func (p *Printer) Print(nodes []flatten.Node) string {
	var sb strings.Builder
	p.printNodes(&sb, nodes, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func (p *Printer) printNodes(sb *strings.Builder, nodes []flatten.Node, depth int) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *flatten.Charset:
			p.printCharset(sb, t, depth)
		case *flatten.Rule:
			if len(t.Decls) == 0 {
				continue
			}
			p.printRule(sb, t, depth)
		case *flatten.AtBlock:
			p.printAtBlock(sb, t, depth)
		}
	}
}

func (p *Printer) indent(depth int) string {
	if p.opts.Style == StyleCompressed {
		return ""
	}
	return strings.Repeat(p.opts.Indent, depth)
}

func (p *Printer) printCharset(sb *strings.Builder, c *flatten.Charset, depth int) {
	sb.WriteString(p.indent(depth))
	sb.WriteString(`@charset "`)
	sb.WriteString(c.Value)
	sb.WriteString("\";")
	if p.opts.Style == StyleExpanded {
		sb.WriteString("\n")
	}
}

func (p *Printer) printRule(sb *strings.Builder, r *flatten.Rule, depth int) {
	if p.opts.Style == StyleCompressed {
		sb.WriteString(compressSelector(r.Selector))
		sb.WriteString("{")
		for i, d := range r.Decls {
			if i > 0 {
				sb.WriteString(";")
			}
			sb.WriteString(d.Property)
			sb.WriteString(":")
			sb.WriteString(d.Value)
			if d.Important {
				sb.WriteString("!important")
			}
		}
		sb.WriteString("}")
		return
	}
	ind := p.indent(depth)
	sb.WriteString(ind)
	sb.WriteString(r.Selector)
	sb.WriteString(" {\n")
	innerInd := p.indent(depth + 1)
	for _, d := range r.Decls {
		sb.WriteString(innerInd)
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(d.Value)
		if d.Important {
			sb.WriteString(" !important")
		}
		sb.WriteString(";\n")
	}
	sb.WriteString(ind)
	sb.WriteString("}\n")
}

func (p *Printer) printAtBlock(sb *strings.Builder, b *flatten.AtBlock, depth int) {
	ind := p.indent(depth)
	sb.WriteString(ind)
	sb.WriteString("@")
	sb.WriteString(b.Keyword)
	if b.Prelude != "" {
		sb.WriteString(" ")
		sb.WriteString(b.Prelude)
	}
	if p.opts.Style == StyleCompressed {
		if b.Children == nil {
			sb.WriteString(";")
			return
		}
		sb.WriteString("{")
		p.printNodes(sb, b.Children, depth+1)
		sb.WriteString("}")
		return
	}
	if b.Children == nil {
		sb.WriteString(";\n")
		return
	}
	sb.WriteString(" {\n")
	p.printNodes(sb, b.Children, depth+1)
	sb.WriteString(ind)
	sb.WriteString("}\n")
}

// compressSelector strips the whitespace Serialize places around commas
// and non-descendant combinators. A lone space between two compounds IS
// the descendant combinator and must survive; whitespace inside a quoted
// attribute value is literal text and is never touched.
func compressSelector(s string) string {
	out := make([]byte, 0, len(s))
	var quote byte
	i := 0
	for i < len(s) {
		c := s[i]
		if quote != 0 {
			out = append(out, c)
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		switch {
		case c == '\'' || c == '"':
			quote = c
			out = append(out, c)
			i++
		case c == ' ' || c == '\t' || c == '\n':
			j := i
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n') {
				j++
			}
			var prev, next byte
			if len(out) > 0 {
				prev = out[len(out)-1]
			}
			if j < len(s) {
				next = s[j]
			}
			if prev != 0 && next != 0 && !selectorGlue(prev) && !selectorGlue(next) {
				out = append(out, ' ')
			}
			i = j
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func selectorGlue(c byte) bool {
	switch c {
	case ',', '>', '+', '~':
		return true
	}
	return false
}

// Stats reports how many of each node kind a document contains, purely
// for the CLI's `--stats` flag.
type Stats struct {
	Rules     int
	AtBlocks  int
	Charsets  int
	Declares  int
}

func (p *Printer) CollectStats(nodes []flatten.Node) Stats {
	var s Stats
	var walk func([]flatten.Node)
	walk = func(ns []flatten.Node) {
		for _, n := range ns {
			switch t := n.(type) {
			case *flatten.Rule:
				s.Rules++
				s.Declares += len(t.Decls)
			case *flatten.AtBlock:
				s.AtBlocks++
				walk(t.Children)
			case *flatten.Charset:
				s.Charsets++
			}
		}
	}
	walk(nodes)
	return s
}

func (s Stats) String() string {
	return "rules=" + strconv.Itoa(s.Rules) + " declarations=" + strconv.Itoa(s.Declares) +
		" at-blocks=" + strconv.Itoa(s.AtBlocks) + " charsets=" + strconv.Itoa(s.Charsets)
}
