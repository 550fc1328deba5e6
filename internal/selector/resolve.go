package selector

import "fmt"

// ParentError reports use of & with no enclosing selector (spec's
// ParentError kind).
type ParentError struct{ Message string }

func (e *ParentError) Error() string { return e.Message }

// ResolveParentSelectors implements spec §4.5's four-case parent
// resolution algorithm.
//
//   - No Parent present, implicit=true: prefix each complex by each
//     parent complex (Cartesian), concatenating compound lists;
//     LineBreak is OR'd across the cross product.
//   - No Parent present, implicit=false: returned unchanged.
//   - Parent present, parent=nil: ParentError.
//   - Parent present: each & is replaced by each of the parent's
//     complexes (cross product across multiple & occurrences and
//     multiple parent complexes), with any suffix on the `&` appended to
//     the last simple of the injected parent compound. Results are
//     collected by vertical flattening (spec's "pop the head of each in
//     round-robin passes").
func ResolveParentSelectors(list *List, parent *List, implicit bool) (*List, error) {
	if list == nil {
		return nil, fmt.Errorf("cannot resolve a nil selector list")
	}
	if !hasAnyParent(list) {
		if !implicit {
			return list, nil
		}
		if parent == nil {
			return list, nil
		}
		return cartesianPrefix(list, parent), nil
	}
	if parent == nil {
		return nil, &ParentError{Message: "top-level selectors may not contain the parent selector \"&\""}
	}
	return substituteParent(list, parent), nil
}

func hasAnyParent(list *List) bool {
	for _, c := range list.Complexes {
		if c.HasParent() {
			return true
		}
	}
	return false
}

// cartesianPrefix prefixes every complex in child by every complex in
// parent, producing len(parent)*len(child) complexes in parent-major,
// child-minor order — this is the natural left-to-right nesting order
// used when there is no explicit `&`.
func cartesianPrefix(child *List, parent *List) *List {
	var out []*Complex
	for _, p := range parent.Complexes {
		for _, c := range child.Complexes {
			merged := p.Clone()
			cc := c.Clone()
			merged.Compounds = append(merged.Compounds, cc.Compounds...)
			merged.Combinators = append(merged.Combinators, Descendant)
			merged.Combinators = append(merged.Combinators, cc.Combinators...)
			merged.LineBreak = p.LineBreak || c.LineBreak
			out = append(out, merged)
		}
	}
	return &List{Complexes: out}
}

// substituteParent replaces every `&` occurrence in every complex of
// child with every complex of parent (cross product), then collects the
// results across all of child's complexes by vertical flattening: pop the
// head of each complex's expansion list in round-robin passes until all
// are empty. This preserves the author's written order across sibling
// expansions (spec §4.5, §9).
func substituteParent(child *List, parent *List) *List {
	perComplexExpansions := make([][]*Complex, len(child.Complexes))
	for i, c := range child.Complexes {
		if !c.HasParent() {
			perComplexExpansions[i] = []*Complex{c}
			continue
		}
		perComplexExpansions[i] = expandComplex(c, parent)
	}
	return &List{Complexes: verticalFlatten(perComplexExpansions)}
}

// verticalFlatten implements the round-robin "pop head of each" merge.
func verticalFlatten(groups [][]*Complex) []*Complex {
	var out []*Complex
	idx := make([]int, len(groups))
	for {
		progressed := false
		for g := range groups {
			if idx[g] < len(groups[g]) {
				out = append(out, groups[g][idx[g]])
				idx[g]++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return out
}

// expandComplex substitutes every `&` in one complex with every complex
// of parent, in source-left-to-right order across occurrences; multiple
// `&` occurrences in one complex multiply together (cross product).
func expandComplex(c *Complex, parent *List) []*Complex {
	results := []*Complex{c.Clone()}
	for compoundIdx := range c.Compounds {
		if !c.Compounds[compoundIdx].HasParent() {
			continue
		}
		var next []*Complex
		for _, partial := range results {
			for _, p := range parent.Complexes {
				next = append(next, substituteOneCompound(partial, compoundIdx, p))
			}
		}
		results = next
	}
	return results
}

// substituteOneCompound replaces the Parent simple(s) found in
// c.Compounds[idx] with parent's compounds, splicing parent's combinators
// in place, and appending any `&` suffix to parent's final simple.
func substituteOneCompound(c *Complex, idx int, parent *Complex) *Complex {
	out := c.Clone()
	target := out.Compounds[idx]

	var before, after []Simple
	var suffix string
	seenParent := false
	for _, s := range target.Simples {
		if s.Kind == Parent {
			suffix = s.Suffix
			seenParent = true
			continue
		}
		if !seenParent {
			before = append(before, s)
		} else {
			after = append(after, s)
		}
	}

	parentClone := parent.Clone()
	lastIdx := len(parentClone.Compounds) - 1
	if suffix != "" {
		last := parentClone.Compounds[lastIdx]
		if len(last.Simples) > 0 {
			lastSimple := &last.Simples[len(last.Simples)-1]
			lastSimple.Name += suffix
		}
		parentClone.Compounds[lastIdx] = last
	}

	// Merge: everything before the parent's own compounds, attached to the
	// first parent compound; everything after the `&`, attached to the
	// last parent compound.
	parentClone.Compounds[0].Simples = append(append([]Simple(nil), before...), parentClone.Compounds[0].Simples...)
	parentClone.Compounds[lastIdx].Simples = append(parentClone.Compounds[lastIdx].Simples, after...)

	newCompounds := make([]Compound, 0, len(out.Compounds)-1+len(parentClone.Compounds))
	newCombinators := make([]Combinator, 0, len(out.Combinators)+len(parentClone.Combinators))

	// Compounds/combinators strictly before idx are untouched.
	newCompounds = append(newCompounds, out.Compounds[:idx]...)
	newCombinators = append(newCombinators, out.Combinators[:idx]...)

	// The substituted parent's own compounds and internal combinators
	// replace Compounds[idx].
	newCompounds = append(newCompounds, parentClone.Compounds...)
	newCombinators = append(newCombinators, parentClone.Combinators...)

	// The combinator that used to join Compounds[idx] to Compounds[idx+1]
	// now joins the parent's last injected compound to that successor.
	if idx < len(out.Compounds)-1 {
		newCombinators = append(newCombinators, out.Combinators[idx])
		newCompounds = append(newCompounds, out.Compounds[idx+1:]...)
		newCombinators = append(newCombinators, out.Combinators[idx+1:]...)
	}

	out.Compounds = newCompounds
	out.Combinators = newCombinators
	out.LineBreak = out.LineBreak || parent.LineBreak
	return out
}
