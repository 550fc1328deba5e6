package selector

// IsSuperselector reports whether every complex in b is matched by some
// complex in a (spec §4.5): a is a superselector of b iff every complex
// in b is matched by some complex in a under component-wise containment.
func IsSuperselector(a, b *List) bool {
	for _, cb := range b.Complexes {
		matched := false
		for _, ca := range a.Complexes {
			if complexIsSuperselector(ca, cb) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// complexIsSuperselector checks one super/sub pair: the super's compound
// must be a subset of the sub's compound at each aligned position,
// combinators must be equal or relaxed (descendant ⊇ child, +, ~), and
// sequence alignment proceeds greedily from the tail.
func complexIsSuperselector(super, sub *Complex) bool {
	si := len(super.Compounds) - 1
	bi := len(sub.Compounds) - 1
	if si < 0 || bi < 0 {
		return false
	}
	if !compoundIsSubset(super.Compounds[si], sub.Compounds[bi]) {
		return false
	}
	si--
	bi--
	for si >= 0 {
		if bi < 0 {
			return false
		}
		superComb := super.Combinators[si]
		// Greedily search backward in sub for an aligned compound,
		// allowing descendant to match across any number of
		// intervening sub compounds.
		found := false
		for ; bi >= 0; bi-- {
			if compoundIsSubset(super.Compounds[si], sub.Compounds[bi]) &&
				combinatorAllows(superComb, sub, bi) {
				found = true
				bi--
				break
			}
			if superComb != Descendant {
				break
			}
		}
		if !found {
			return false
		}
		si--
	}
	return true
}

// combinatorAllows reports whether the combinator joining sub's compound
// at index bi to bi+1 is compatible with the super's combinator at the
// aligned position: equal, or relaxed to descendant (descendant ⊇ child,
// adjacent, sibling means descendant is the one permitted to be looser).
func combinatorAllows(superComb Combinator, sub *Complex, bi int) bool {
	if bi >= len(sub.Combinators) {
		return false
	}
	subComb := sub.Combinators[bi]
	if superComb == subComb {
		return true
	}
	return superComb == Descendant
}

// compoundIsSubset reports whether every simple selector in super also
// appears in sub (the super's compound must be a subset of the sub's).
func compoundIsSubset(super, sub Compound) bool {
	for _, s := range super.Simples {
		if !containsSimple(sub.Simples, s) {
			return false
		}
	}
	return true
}
