// Package flatten defines the output of the at-rule engine: a flat tree
// of rule-sets and at-rule wrapper blocks ready for the printer (spec
// §2's "Flattener" stage). It is deliberately data-only, with no
// behavior of its own, since printing is the only thing that ever walks
// it.
package flatten

// Node is any emittable top-level or nested item: a Rule, an AtBlock
// (@media/@supports/unknown at-rule wrapper), or a Charset marker.
type Node interface{ node() }

// Decl is one `property: value [!important];` pair, already fully
// rendered to CSS text by the evaluator/printer boundary.
type Decl struct {
	Property  string
	Value     string
	Important bool
}

// Rule is a selector with its own declarations. A Rule with no
// declarations is meaningless CSS and is suppressed by the printer
// (spec §6: "empty rule-sets are suppressed").
type Rule struct {
	Selector string
	Decls    []Decl
}

func (*Rule) node() {}

// AtBlock wraps @media/@supports/an unrecognized at-rule around nested
// Nodes, preserving the prelude text verbatim apart from evaluated
// interpolation (spec's MediaLike/Unknown supplement).
type AtBlock struct {
	Keyword  string
	Prelude  string
	Children []Node
}

func (*AtBlock) node() {}

// Charset is an `@charset "value";` marker. The printer re-emits at
// most one, at the top of the file (spec §4.4: "recognized and
// discarded in output, or re-emitted once at file top").
type Charset struct {
	Value string
}

func (*Charset) node() {}
