package scope

import (
	"testing"

	"github.com/cwbudde/cssc/internal/value"
)

func TestChildInheritsAndShadows(t *testing.T) {
	root := New()
	root.DefineVar("x", value.NewInt(1, ""))

	child := root.Child()
	if v, ok := child.LookupVar("x"); !ok || v.(*value.Dimension).Num.Sign() != 1 {
		t.Fatalf("child should see parent's variable, got %#v, %v", v, ok)
	}

	child.DefineVar("x", value.NewInt(2, ""))
	if v, _ := child.LookupVar("x"); v.(*value.Dimension).Num.Cmp(value.NewInt(2, "").Num) != 0 {
		t.Fatalf("child's DefineVar should shadow, not mutate the parent")
	}
	if v, _ := root.LookupVar("x"); v.(*value.Dimension).Num.Cmp(value.NewInt(1, "").Num) != 0 {
		t.Fatalf("shadowing in the child must not affect the parent's binding")
	}
}

func TestSetVarUpdatesOuterBindingInPlace(t *testing.T) {
	root := New()
	root.DefineVar("x", value.NewInt(1, ""))
	child := root.Child()

	// SetVar on a name that exists in an outer scope rewrites that outer
	// binding rather than shadowing locally (ordinary `$x: ...;` reassignment).
	child.SetVar("x", value.NewInt(99, ""))
	if v, _ := root.LookupVar("x"); v.(*value.Dimension).Num.Cmp(value.NewInt(99, "").Num) != 0 {
		t.Fatalf("SetVar should mutate the outer binding in place, root still has old value")
	}
	if _, ok := child.LookupVarLocal("x"); ok {
		t.Fatalf("SetVar should not create a new local binding when an outer one exists")
	}
}

func TestSetVarDefinesLocallyWhenNoBindingExists(t *testing.T) {
	root := New()
	root.SetVar("fresh", value.NewInt(5, ""))
	if _, ok := root.LookupVarLocal("fresh"); !ok {
		t.Fatal("SetVar with no existing binding anywhere should define locally")
	}
}

func TestSetGlobalWritesAtRoot(t *testing.T) {
	root := New()
	mid := root.Child()
	leaf := mid.Child()

	leaf.SetGlobal("g", value.NewInt(7, ""))
	if _, ok := root.LookupVarLocal("g"); !ok {
		t.Fatal("SetGlobal should write the binding at the root scope")
	}
	if _, ok := mid.LookupVarLocal("g"); ok {
		t.Fatal("SetGlobal should not create a binding in an intermediate scope")
	}
}

func TestMixinAndFunctionLookupWalksChain(t *testing.T) {
	root := New()
	root.DefineMixin("hov", &Mixin{})
	root.DefineFunction("dbl", &Function{})

	leaf := root.Child().Child()
	if _, ok := leaf.LookupMixin("hov"); !ok {
		t.Error("LookupMixin should walk up through intermediate scopes")
	}
	if _, ok := leaf.LookupFunction("dbl"); !ok {
		t.Error("LookupFunction should walk up through intermediate scopes")
	}
	if leaf.MixinExists("nope") {
		t.Error("MixinExists should be false for an undefined mixin")
	}
	if !leaf.FunctionExists("dbl") {
		t.Error("FunctionExists should see a function defined in an ancestor scope")
	}
}

func TestCaseSensitiveNames(t *testing.T) {
	s := New()
	s.DefineVar("Foo", value.NewInt(1, ""))
	if _, ok := s.LookupVar("foo"); ok {
		t.Error("variable lookup must be case-sensitive (Sass semantics, unlike the teacher's folded identifiers)")
	}
}
