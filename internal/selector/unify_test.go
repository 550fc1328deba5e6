package selector

import "testing"

func TestUnify_SameLength(t *testing.T) {
	a := mustParse(t, "a.x").Complexes[0]
	b := mustParse(t, "a.y").Complexes[0]
	u, ok := Unify(a, b)
	if !ok {
		t.Fatal("expected successful unification")
	}
	if got := u.String(); got != "a.x.y" {
		t.Errorf("got %q", got)
	}
}

func TestUnify_ConflictingType(t *testing.T) {
	a := mustParse(t, "a").Complexes[0]
	b := mustParse(t, "span").Complexes[0]
	if _, ok := Unify(a, b); ok {
		t.Fatal("expected unification to fail for conflicting type selectors")
	}
}

// Property from spec §8: if Unify(A, B) = Some(U), IsSuperselector(A, U)
// and IsSuperselector(B, U).
func TestUnify_ResultIsSubsetOfBoth(t *testing.T) {
	a := mustParse(t, "a.x")
	b := mustParse(t, "a.y")
	u := UnifyLists(a, b)
	if u == nil {
		t.Fatal("expected non-nil unification")
	}
	if !IsSuperselector(a, u) {
		t.Error("expected a to be a superselector of the unification")
	}
	if !IsSuperselector(b, u) {
		t.Error("expected b to be a superselector of the unification")
	}
}

func TestUnify_CombinatorConflict(t *testing.T) {
	a := mustParse(t, "a > b").Complexes[0]
	b := mustParse(t, "a ~ b").Complexes[0]
	if _, ok := Unify(a, b); ok {
		t.Fatal("expected child/sibling combinator conflict to fail unification")
	}
}

func TestUnify_DescendantAbsorbedByChild(t *testing.T) {
	a := mustParse(t, "a b").Complexes[0]
	b := mustParse(t, "a > b").Complexes[0]
	u, ok := Unify(a, b)
	if !ok {
		t.Fatal("expected descendant to be absorbed by child combinator")
	}
	if u.Combinators[0] != Child {
		t.Errorf("expected Child combinator to win, got %v", u.Combinators[0])
	}
}
