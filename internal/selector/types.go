// Package selector implements the selector engine of spec §4.5: parsing
// selector tokens into a selector list, parent-selector resolution, list
// unification, the superselector check, and serialization.
//
// Selectors are immutable data once parsed (spec §3's lifecycle note), so
// this package models them as plain structs rather than the teacher's
// heavier visitor-based AST — there is no user-extensible node type to
// dispatch over, closer to the shape esbuild's css_parser_selector.go
// uses for the same problem.
package selector

import "fmt"

// SimpleKind enumerates the SimpleSelector variants of spec §3.
type SimpleKind int

const (
	Parent SimpleKind = iota
	Type
	Id
	Class
	Attribute
	Pseudo
	Universal
	Placeholder
)

// Simple is one SimpleSelector. Only the fields relevant to Kind are
// populated; this mirrors a tagged union without needing a Go interface
// per variant, since every operation below (unify, serialize, contains)
// switches on Kind directly.
type Simple struct {
	Kind SimpleKind

	Name   string // Type/Id/Class/Placeholder name, or Pseudo name, or Parent's optional suffix carrier
	Suffix string // Parent(suffix?): text directly appended after the resolved parent, e.g. &__x -> Suffix "__x"

	// Attribute fields
	AttrName    string
	Matcher     string // "", "=", "~=", "|=", "^=", "$=", "*="
	AttrValue   string
	CaseInsens  bool

	// Pseudo fields
	IsElement bool   // ::foo vs :foo
	Arg       string // the argument inside :foo(arg), raw text
}

func (s Simple) String() string {
	switch s.Kind {
	case Parent:
		return "&" + s.Suffix
	case Type:
		return s.Name
	case Id:
		return "#" + s.Name
	case Class:
		return "." + s.Name
	case Placeholder:
		return "%" + s.Name
	case Universal:
		return "*"
	case Attribute:
		if s.Matcher == "" {
			return "[" + s.AttrName + "]"
		}
		suffix := ""
		if s.CaseInsens {
			suffix = " i"
		}
		return fmt.Sprintf("[%s%s%q%s]", s.AttrName, s.Matcher, s.AttrValue, suffix)
	case Pseudo:
		lead := ":"
		if s.IsElement {
			lead = "::"
		}
		if s.Arg != "" {
			return lead + s.Name + "(" + s.Arg + ")"
		}
		return lead + s.Name
	}
	return ""
}

// sameTarget reports whether two simples would conflict if combined in
// one compound selector (e.g. two different Type selectors can't both
// match the same element).
func sameTarget(a, b Simple) bool {
	return a.Kind == b.Kind && a.Kind == Type && a.Name != b.Name
}

// Compound is a non-empty ordered sequence of Simple selectors sharing no
// conflicting type selector.
type Compound struct {
	Simples []Simple
}

func (c Compound) String() string {
	out := ""
	for _, s := range c.Simples {
		out += s.String()
	}
	return out
}

// HasParent reports whether any simple in this compound is the parent
// selector (spec §4.5's "contains Parent" test).
func (c Compound) HasParent() bool {
	for _, s := range c.Simples {
		if s.Kind == Parent {
			return true
		}
	}
	return false
}

// Combinator identifies the relation between two adjacent compounds in a
// ComplexSelector.
type Combinator int

const (
	Descendant Combinator = iota
	Child
	Sibling
	Adjacent
)

func (c Combinator) Glyph() string {
	switch c {
	case Child:
		return ">"
	case Sibling:
		return "~"
	case Adjacent:
		return "+"
	default:
		return ""
	}
}

// Complex is an alternating sequence of compound selectors and
// combinators, starting and ending with a compound. len(Combinators) ==
// len(Compounds)-1.
type Complex struct {
	Compounds   []Compound
	Combinators []Combinator
	LineBreak   bool
}

// HasParent reports whether any compound in this complex contains the
// parent selector.
func (c *Complex) HasParent() bool {
	for _, cp := range c.Compounds {
		if cp.HasParent() {
			return true
		}
	}
	return false
}

func (c *Complex) String() string {
	out := c.Compounds[0].String()
	for i, comb := range c.Combinators {
		if comb == Descendant {
			out += " " + c.Compounds[i+1].String()
		} else {
			out += " " + comb.Glyph() + " " + c.Compounds[i+1].String()
		}
	}
	return out
}

// Clone deep-copies a Complex so transformations (parent substitution,
// unification) never alias the original.
func (c *Complex) Clone() *Complex {
	out := &Complex{
		Compounds:   make([]Compound, len(c.Compounds)),
		Combinators: append([]Combinator(nil), c.Combinators...),
		LineBreak:   c.LineBreak,
	}
	for i, cp := range c.Compounds {
		out.Compounds[i] = Compound{Simples: append([]Simple(nil), cp.Simples...)}
	}
	return out
}

// List is a non-empty ordered list of complex selectors; it matches the
// union of its members.
type List struct {
	Complexes []*Complex
}

func (l *List) String() string {
	return Serialize(l)
}
