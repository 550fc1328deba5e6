package selector

import "testing"

func TestParse_SimpleCompound(t *testing.T) {
	list, err := Parse("a.b#c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Complexes) != 1 {
		t.Fatalf("expected 1 complex, got %d", len(list.Complexes))
	}
	if got := list.Complexes[0].String(); got != "a.b#c" {
		t.Errorf("got %q", got)
	}
}

func TestParse_CombinatorsAndDescendant(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a b", "a b"},
		{"a > b", "a > b"},
		{"a ~ b", "a ~ b"},
		{"a + b", "a + b"},
		{"a b > c ~ d", "a b > c ~ d"},
	}
	for _, tt := range tests {
		list, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if got := list.Complexes[0].String(); got != tt.want {
			t.Errorf("%q: got %q want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_CommaList(t *testing.T) {
	list, err := Parse("a, b, c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Complexes) != 3 {
		t.Fatalf("expected 3 complexes, got %d", len(list.Complexes))
	}
}

func TestParse_LeadingCombinatorIsError(t *testing.T) {
	if _, err := Parse("> a"); err == nil {
		t.Fatal("expected error for leading combinator")
	}
}

func TestParse_TrailingCombinatorIsError(t *testing.T) {
	if _, err := Parse("a >"); err == nil {
		t.Fatal("expected error for trailing combinator")
	}
}

func TestParse_Attribute(t *testing.T) {
	list, err := Parse(`a[href^="https"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	simples := list.Complexes[0].Compounds[0].Simples
	if len(simples) != 2 || simples[1].Kind != Attribute {
		t.Fatalf("expected attribute simple, got %+v", simples)
	}
	if simples[1].Matcher != "^=" || simples[1].AttrValue != "https" {
		t.Errorf("got matcher=%q value=%q", simples[1].Matcher, simples[1].AttrValue)
	}
}

func TestParse_PseudoWithArg(t *testing.T) {
	list, err := Parse("li:nth-child(2n+1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	simples := list.Complexes[0].Compounds[0].Simples
	if simples[1].Name != "nth-child" || simples[1].Arg != "2n+1" {
		t.Errorf("got %+v", simples[1])
	}
}

func TestParse_Parent(t *testing.T) {
	list, err := Parse("&:hover")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	simples := list.Complexes[0].Compounds[0].Simples
	if simples[0].Kind != Parent {
		t.Fatalf("expected Parent first, got %+v", simples[0])
	}
}

func TestParse_ParentSuffix(t *testing.T) {
	list, err := Parse("&__item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	simples := list.Complexes[0].Compounds[0].Simples
	if simples[0].Kind != Parent || simples[0].Suffix != "__item" {
		t.Fatalf("got %+v", simples[0])
	}
}
