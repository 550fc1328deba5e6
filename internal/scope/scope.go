// Package scope implements the three-namespace scope stack described in
// spec §3/§4.2: separate lookup tables for variables, mixins, and
// functions, with nested child scopes that inherit and shadow.
//
// Modeled on the teacher's runtime.Environment (Get/Set/Define/Has/
// GetLocal/Range/Outer), with one divergence: CSS/Sass variable, mixin,
// and function names are case-sensitive, so each namespace here is a
// plain map[string]Value rather than the teacher's case-folding
// ident.Map — see DESIGN.md.
package scope

import "github.com/cwbudde/cssc/internal/value"

// Mixin is a stored @mixin definition: its declared parameter list,
// default-value expressions, body statements (opaque to this package —
// stored as `any` to avoid an import cycle with the at-rule engine), and
// the scope captured at declaration time (spec §4.2's closure rule).
type Mixin struct {
	Params  []Param
	Body    any
	Closure *Scope
}

// Function is a stored @function definition, same shape as Mixin.
type Function struct {
	Params  []Param
	Body    any
	Closure *Scope
}

// Param describes one formal parameter: its name, optional default
// expression (opaque `any`, evaluated lazily in the callee's scope), and
// whether it is the variadic trailing parameter (spec §4.2).
type Param struct {
	Name      string
	Default   any
	Variadic  bool
}

// Scope is one level of the scope stack. Variable writes inside a
// control-flow body mutate the enclosing scope rather than creating a
// fresh child — callers achieve that by passing the *same* Scope to the
// control-flow body instead of calling Child() (spec §4.2).
type Scope struct {
	vars    map[string]value.Value
	mixins  map[string]*Mixin
	funcs   map[string]*Function
	parent  *Scope
}

// New creates a root scope with no parent.
func New() *Scope {
	return &Scope{
		vars:   make(map[string]value.Value),
		mixins: make(map[string]*Mixin),
		funcs:  make(map[string]*Function),
	}
}

// Child creates a new scope whose parent is s. Control-flow bodies do not
// get one (see the Scope type doc); it is used for genuine lexical
// boundaries: mixin/function call frames, rule-set and @at-root bodies,
// and @media/@supports/unknown at-rule bodies.
func (s *Scope) Child() *Scope {
	return &Scope{
		vars:   make(map[string]value.Value),
		mixins: make(map[string]*Mixin),
		funcs:  make(map[string]*Function),
		parent: s,
	}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// LookupVar walks the scope chain outward looking for name.
func (s *Scope) LookupVar(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupVarLocal looks up name only in this scope, not outer ones.
func (s *Scope) LookupVarLocal(name string) (value.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// SetVar assigns to an existing binding if one is visible anywhere in the
// chain (overwriting it in place, wherever it lives), otherwise defines a
// new binding in this scope. This matches ordinary Sass/SCSS `$x: ...;`
// assignment semantics, where re-assigning a variable that already exists
// in an outer scope updates that outer binding.
func (s *Scope) SetVar(name string, v value.Value) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	s.vars[name] = v
}

// DefineVar always creates (or overwrites) the binding in this exact
// scope, regardless of any outer binding of the same name. Used for
// function/mixin argument binding, where shadowing is intentional.
func (s *Scope) DefineVar(name string, v value.Value) {
	s.vars[name] = v
}

// SetGlobal writes name at the root scope, implementing `!global` (spec
// §4.2).
func (s *Scope) SetGlobal(name string, v value.Value) {
	root := s
	for root.parent != nil {
		root = root.parent
	}
	root.vars[name] = v
}

// LookupMixin walks the scope chain outward looking for a mixin.
func (s *Scope) LookupMixin(name string) (*Mixin, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if m, ok := cur.mixins[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// DefineMixin registers a mixin in this scope.
func (s *Scope) DefineMixin(name string, m *Mixin) {
	s.mixins[name] = m
}

// LookupFunction walks the scope chain outward looking for a function.
func (s *Scope) LookupFunction(name string) (*Function, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if f, ok := cur.funcs[name]; ok {
			return f, true
		}
	}
	return nil, false
}

// DefineFunction registers a function in this scope.
func (s *Scope) DefineFunction(name string, f *Function) {
	s.funcs[name] = f
}

// MixinExists and FunctionExists back the meta builtins mixin-exists /
// function-exists / variable-exists.
func (s *Scope) MixinExists(name string) bool {
	_, ok := s.LookupMixin(name)
	return ok
}

func (s *Scope) FunctionExists(name string) bool {
	_, ok := s.LookupFunction(name)
	return ok
}

func (s *Scope) VariableExists(name string) bool {
	_, ok := s.LookupVar(name)
	return ok
}
