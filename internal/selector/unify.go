package selector

// Unify computes the combined complex selector that matches exactly the
// intersection of a and b's matches (spec §4.5). Returns false if no
// element can match both.
//
// Combinator sequencing: descendant is absorbed by any other relation;
// child/adjacent/sibling conflict with each other and abort the pair.
func Unify(a, b *Complex) (*Complex, bool) {
	if len(a.Compounds) != len(b.Compounds) {
		return unifyUnequalLength(a, b)
	}
	out := &Complex{}
	for i := range a.Compounds {
		merged, ok := unifyCompound(a.Compounds[i], b.Compounds[i])
		if !ok {
			return nil, false
		}
		out.Compounds = append(out.Compounds, merged)
		if i < len(a.Combinators) {
			comb, ok := unifyCombinator(a.Combinators[i], b.Combinators[i])
			if !ok {
				return nil, false
			}
			out.Combinators = append(out.Combinators, comb)
		}
	}
	out.LineBreak = a.LineBreak || b.LineBreak
	return out, true
}

// unifyUnequalLength handles the common real-world case where one
// selector is a strict tail-aligned suffix of the other (e.g. unifying
// `.a .b` with `.b`): align from the tail and prepend the longer
// selector's unmatched prefix verbatim.
func unifyUnequalLength(a, b *Complex) (*Complex, bool) {
	longer, shorter := a, b
	if len(b.Compounds) > len(a.Compounds) {
		longer, shorter = b, a
	}
	offset := len(longer.Compounds) - len(shorter.Compounds)
	if offset <= 0 {
		return nil, false
	}
	out := &Complex{}
	out.Compounds = append(out.Compounds, longer.Compounds[:offset]...)
	out.Combinators = append(out.Combinators, longer.Combinators[:offset]...)

	for i := range shorter.Compounds {
		merged, ok := unifyCompound(longer.Compounds[offset+i], shorter.Compounds[i])
		if !ok {
			return nil, false
		}
		out.Compounds = append(out.Compounds, merged)
		if i < len(shorter.Combinators) {
			comb, ok := unifyCombinator(longer.Combinators[offset+i], shorter.Combinators[i])
			if !ok {
				return nil, false
			}
			out.Combinators = append(out.Combinators, comb)
		}
	}
	out.LineBreak = a.LineBreak || b.LineBreak
	return out, true
}

// unifyCombinator merges two combinators joining the same pair of
// positions: descendant is absorbed by any other relation (the stricter
// one wins); child/adjacent/sibling conflict with each other.
func unifyCombinator(a, b Combinator) (Combinator, bool) {
	if a == b {
		return a, true
	}
	if a == Descendant {
		return b, true
	}
	if b == Descendant {
		return a, true
	}
	return 0, false
}

// unifyCompound merges two compound selectors: a shared type selector is
// kept once, attribute/class/id sets are unioned, incompatible type
// selectors yield no unifier.
func unifyCompound(a, b Compound) (Compound, bool) {
	out := Compound{Simples: append([]Simple(nil), a.Simples...)}
	for _, s := range b.Simples {
		if containsConflictingType(out.Simples, s) {
			return Compound{}, false
		}
		if containsSimple(out.Simples, s) {
			continue
		}
		out.Simples = append(out.Simples, s)
	}
	return out, true
}

func containsConflictingType(existing []Simple, s Simple) bool {
	if s.Kind != Type {
		return false
	}
	for _, e := range existing {
		if e.Kind == Type && e.Name != s.Name && e.Name != "*" && s.Name != "*" {
			return true
		}
	}
	return false
}

func containsSimple(existing []Simple, s Simple) bool {
	for _, e := range existing {
		if e == s {
			return true
		}
	}
	return false
}

// UnifyLists computes, for every pair of complex selectors drawn from a
// and b, the unifier, returning the list of all successful unifications
// (empty if no element can match both).
func UnifyLists(a, b *List) *List {
	var out []*Complex
	for _, ca := range a.Complexes {
		for _, cb := range b.Complexes {
			if u, ok := Unify(ca, cb); ok {
				out = append(out, u)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &List{Complexes: out}
}
