package selector

import "testing"

func TestIsSuperselector_Simple(t *testing.T) {
	a := mustParse(t, "a")
	b := mustParse(t, "a.x")
	if !IsSuperselector(a, b) {
		t.Error("expected 'a' to be a superselector of 'a.x'")
	}
	if IsSuperselector(b, a) {
		t.Error("did not expect 'a.x' to be a superselector of 'a'")
	}
}

func TestIsSuperselector_DescendantRelaxation(t *testing.T) {
	a := mustParse(t, "a b")
	b := mustParse(t, "a > b")
	if !IsSuperselector(a, b) {
		t.Error("expected descendant combinator to be a superselector of child combinator")
	}
	if IsSuperselector(b, a) {
		t.Error("child combinator should not be a superselector of descendant")
	}
}

func TestIsSuperselector_Union(t *testing.T) {
	a := mustParse(t, "a, c")
	b := mustParse(t, "a.x")
	if !IsSuperselector(a, b) {
		t.Error("expected union list to be a superselector of a member it contains")
	}
}

func TestIsSuperselector_ReflexiveAndAntisymmetricMismatch(t *testing.T) {
	a := mustParse(t, "a.x")
	b := mustParse(t, "a.y")
	if IsSuperselector(a, b) {
		t.Error("distinct classes should not be superselectors of each other")
	}
}
