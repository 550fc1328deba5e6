// Package atrule implements spec §4.4: the statement/at-rule engine that
// drives the evaluator and the selector engine over a parsed ast.Program,
// managing scopes, mixin/function invocation, and content blocks, and
// producing the flat rule-set list internal/flatten describes (spec §2's
// "Flattener" stage folded into the same walk, the way the teacher's
// internal/interp.Interpreter drives both statement execution and value
// production in one tree walk rather than as two separate passes).
package atrule

import (
	"strings"

	"github.com/cwbudde/cssc/internal/ast"
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/evaluator"
	"github.com/cwbudde/cssc/internal/flatten"
	"github.com/cwbudde/cssc/internal/scope"
	"github.com/cwbudde/cssc/internal/selector"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

// Options carries the subset of spec §6's configuration that the engine
// itself needs (load_paths/@import resolution and input_syntax/plain-CSS
// guardrails live in the outer collaborators that wrap Engine).
type Options struct {
	Quiet   bool
	Source  string
	File    string
	OnWarn  func(msg string, pos token.Position)
	OnDebug func(msg string, pos token.Position)
}

// contentFrame is pushed for the duration of a mixin invocation that was
// given a content block, and popped when the invocation returns (spec
// §4.4's "@content splices the caller-supplied content block at this
// point; evaluated in the caller's scope, not the mixin's").
type contentFrame struct {
	body  []ast.Node
	scope *scope.Scope
	using []ast.Param
}

// Engine walks an ast.Program, producing a flat list of flatten.Node.
// It implements evaluator.FunctionInvoker so @function calls inside
// expressions can call back into statement execution for the function
// body.
type Engine struct {
	opts         Options
	builtins     evaluator.BuiltinLookup
	contentStack []contentFrame
	charsetSeen  bool
	charset      *flatten.Charset
}

func New(opts Options, builtins evaluator.BuiltinLookup) *Engine {
	return &Engine{opts: opts, builtins: builtins}
}

// Run executes prog's top-level statements against rootScope and returns
// the flattened rule-set list ready for printing (spec §2, §5: "tokens
// in, CSS text out", sequential, no partial output on error).
func (e *Engine) Run(prog *ast.Program, rootScope *scope.Scope) ([]flatten.Node, error) {
	var out []flatten.Node
	ev := e.newEvaluator(rootScope)
	if err := e.exec(prog.Statements, ev, nil, nil, &out); err != nil {
		return nil, err
	}
	if e.charset != nil {
		out = append([]flatten.Node{e.charset}, out...)
	}
	return out, nil
}

func (e *Engine) newEvaluator(sc *scope.Scope) *evaluator.Evaluator {
	ev := evaluator.New(sc, e.builtins, e)
	ev.Source, ev.File = e.opts.Source, e.opts.File
	return ev
}

func (e *Engine) newError(kind cssErrors.Kind, pos token.Position, format string, args ...any) error {
	err := cssErrors.New(kind, pos, format, args...)
	err.Source, err.File = e.opts.Source, e.opts.File
	return err
}

// ---------------------------------------------------------------------
// Main statement dispatch (rule context: produces flatten.Node output)

func (e *Engine) exec(nodes []ast.Node, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	for _, n := range nodes {
		if err := e.execOne(n, ev, parentSel, decls, out); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) execOne(n ast.Node, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	switch t := n.(type) {
	case *ast.VarAssign:
		return e.execVarAssign(t, ev)
	case *ast.Declaration:
		return e.execDeclaration(t, ev, decls)
	case *ast.RuleSet:
		return e.execRuleSet(t, ev, parentSel, out)
	case *ast.If:
		return e.execIf(t, ev, parentSel, decls, out)
	case *ast.Each:
		return e.execEach(t, ev, parentSel, decls, out)
	case *ast.For:
		return e.execFor(t, ev, parentSel, decls, out)
	case *ast.While:
		return e.execWhile(t, ev, parentSel, decls, out)
	case *ast.Mixin:
		return e.execMixinDecl(t, ev)
	case *ast.Include:
		return e.execInclude(t, ev, parentSel, decls, out)
	case *ast.Function:
		return e.execFunctionDecl(t, ev)
	case *ast.Return:
		return e.newError(cssErrors.SyntaxError, t.Pos, "@return is only allowed within a function body.")
	case *ast.AtRoot:
		return e.execAtRoot(t, ev, parentSel, decls, out)
	case *ast.Warn:
		return e.execWarn(t, ev)
	case *ast.Debug:
		return e.execDebug(t, ev)
	case *ast.Error:
		return e.execError(t, ev)
	case *ast.Content:
		return e.execContent(t, ev, parentSel, decls, out)
	case *ast.Charset:
		return e.execCharset(t)
	case *ast.MediaLike:
		return e.execMediaLike(t, ev, parentSel, decls, out)
	case *ast.Unknown:
		return e.execUnknown(t, ev, parentSel, decls, out)
	case *ast.Import:
		return e.execImport(t, out)
	default:
		return e.newError(cssErrors.SyntaxError, n.Position(), "Unhandled statement.")
	}
}

// ---------------------------------------------------------------------
// Leaf statements

func isNullValue(v value.Value) bool {
	_, ok := v.(*value.Null)
	return ok
}

func (e *Engine) execVarAssign(n *ast.VarAssign, ev *evaluator.Evaluator) error {
	if n.Default {
		if existing, ok := ev.Scope.LookupVar(n.Name); ok && !isNullValue(existing) {
			return nil
		}
	}
	v, err := ev.Eval(n.Value)
	if err != nil {
		return err
	}
	if n.Global {
		ev.Scope.SetGlobal(n.Name, v)
		return nil
	}
	ev.Scope.SetVar(n.Name, v)
	return nil
}

func (e *Engine) execDeclaration(n *ast.Declaration, ev *evaluator.Evaluator, decls *[]flatten.Decl) error {
	if decls == nil {
		return e.newError(cssErrors.SyntaxError, n.Pos, "Declarations may only appear within a style rule.")
	}
	prop, err := evaluator.RenderInterpolated(ev, n.Property)
	if err != nil {
		return err
	}
	valToks, important := stripImportant(n.Value)
	v, err := ev.Eval(valToks)
	if err != nil {
		return err
	}
	*decls = append(*decls, flatten.Decl{
		Property:  strings.TrimSpace(prop),
		Value:     v.String(),
		Important: important,
	})
	return nil
}

func (e *Engine) execRuleSet(n *ast.RuleSet, ev *evaluator.Evaluator, parentSel *selector.List, out *[]flatten.Node) error {
	text, err := evaluator.RenderInterpolated(ev, n.Selector)
	if err != nil {
		return err
	}
	parsed, err := selector.Parse(text)
	if err != nil {
		return e.newError(cssErrors.SyntaxError, n.Pos, "%s", err.Error())
	}
	resolved, err := selector.ResolveParentSelectors(parsed, parentSel, true)
	if err != nil {
		return e.newError(cssErrors.ParentError, n.Pos, "%s", err.Error())
	}
	rule := &flatten.Rule{Selector: selector.Serialize(resolved)}
	*out = append(*out, rule)
	child := ev.WithScope(ev.Scope.Child())
	return e.exec(n.Body, child, resolved, &rule.Decls, out)
}

// ---------------------------------------------------------------------
// Control flow (shared scope with the caller, per spec §4.2/§9 — see
// DESIGN.md for the resolution of the §4.2/§4.4 "fresh child scope"
// tension)

func (e *Engine) execIf(n *ast.If, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	for _, br := range n.Branches {
		if br.Cond != nil {
			v, err := ev.Eval(br.Cond)
			if err != nil {
				return err
			}
			if !value.Truthy(v) {
				continue
			}
		}
		return e.exec(br.Body, ev, parentSel, decls, out)
	}
	return nil
}

// eachRows coerces an @each expression to a list of rows (spec §4.4:
// "maps become lists of pairs").
func eachRows(n *ast.Each, ev *evaluator.Evaluator) ([]value.Value, error) {
	v, err := ev.Eval(n.Expr)
	if err != nil {
		return nil, err
	}
	return value.AsList(v).Items, nil
}

// bindEachVars binds one @each iteration's variables: a single variable
// is bound to the whole row; multiple variables are zipped against the
// row coerced to a list, padding missing positions with null.
func bindEachVars(ev *evaluator.Evaluator, vars []string, row value.Value) {
	if len(vars) == 1 {
		ev.Scope.SetVar(vars[0], row)
		return
	}
	items := value.AsList(row).Items
	for i, name := range vars {
		if i < len(items) {
			ev.Scope.SetVar(name, items[i])
		} else {
			ev.Scope.SetVar(name, value.TheNull)
		}
	}
}

func (e *Engine) execEach(n *ast.Each, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	rows, err := eachRows(n, ev)
	if err != nil {
		return err
	}
	for _, row := range rows {
		bindEachVars(ev, n.Vars, row)
		if err := e.exec(n.Body, ev, parentSel, decls, out); err != nil {
			return err
		}
	}
	return nil
}

// forBounds evaluates @for's two bounds once, requiring integer-valued
// dimensions (spec §4.4).
func (e *Engine) forBounds(n *ast.For, ev *evaluator.Evaluator) (from, to int64, err error) {
	fv, err := ev.Eval(n.From)
	if err != nil {
		return 0, 0, err
	}
	tv, err := ev.Eval(n.To)
	if err != nil {
		return 0, 0, err
	}
	fd, ok := fv.(*value.Dimension)
	if !ok || !fd.IsInt() {
		return 0, 0, e.newError(cssErrors.TypeError, n.Pos, "@for \"from\" value must be an integer.")
	}
	td, ok := tv.(*value.Dimension)
	if !ok || !td.IsInt() {
		return 0, 0, e.newError(cssErrors.TypeError, n.Pos, "@for \"to\"/\"through\" value must be an integer.")
	}
	return fd.Num.Num().Int64(), td.Num.Num().Int64(), nil
}

func (e *Engine) execFor(n *ast.For, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	from, to, err := e.forBounds(n, ev)
	if err != nil {
		return err
	}
	step := int64(1)
	if to < from {
		step = -1
	}
	end := to
	if n.Through {
		end = to + step
	}
	for i := from; i != end; i += step {
		ev.Scope.SetVar(n.Var, value.NewInt(i, ""))
		if err := e.exec(n.Body, ev, parentSel, decls, out); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) execWhile(n *ast.While, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	for {
		v, err := ev.Eval(n.Cond)
		if err != nil {
			return err
		}
		if !value.Truthy(v) {
			return nil
		}
		if err := e.exec(n.Body, ev, parentSel, decls, out); err != nil {
			return err
		}
	}
}

// ---------------------------------------------------------------------
// Mixins, functions, @content

func convertParams(params []ast.Param) []scope.Param {
	out := make([]scope.Param, len(params))
	for i, p := range params {
		var def any
		if len(p.Default) > 0 {
			def = p.Default
		}
		out[i] = scope.Param{Name: p.Name, Default: def, Variadic: p.Variadic}
	}
	return out
}

func (e *Engine) execMixinDecl(n *ast.Mixin, ev *evaluator.Evaluator) error {
	ev.Scope.DefineMixin(n.Name, &scope.Mixin{
		Params:  convertParams(n.Params),
		Body:    n.Body,
		Closure: ev.Scope,
	})
	return nil
}

func (e *Engine) execFunctionDecl(n *ast.Function, ev *evaluator.Evaluator) error {
	ev.Scope.DefineFunction(n.Name, &scope.Function{
		Params:  convertParams(n.Params),
		Body:    n.Body,
		Closure: ev.Scope,
	})
	return nil
}

func (e *Engine) evalCallArgs(args []ast.Arg, ev *evaluator.Evaluator) (evaluator.CallArgs, error) {
	var out evaluator.CallArgs
	for _, a := range args {
		v, err := ev.Eval(a.Expr)
		if err != nil {
			return out, err
		}
		if a.Name != "" {
			if out.Named == nil {
				out.Named = map[string]value.Value{}
			}
			out.Named[a.Name] = v
			continue
		}
		out.Positional = append(out.Positional, v)
	}
	return out, nil
}

func (e *Engine) execInclude(n *ast.Include, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	mixin, ok := ev.Scope.LookupMixin(n.Name)
	if !ok {
		return e.newError(cssErrors.NameError, n.Pos, "Undefined mixin %q.", n.Name)
	}
	args, err := e.evalCallArgs(n.Args, ev)
	if err != nil {
		return err
	}
	child, err := evaluator.BindParams(mixin.Params, args, mixin.Closure, e.builtins, e, n.Pos)
	if err != nil {
		return err
	}
	if n.Content != nil {
		e.contentStack = append(e.contentStack, contentFrame{body: n.Content, scope: ev.Scope, using: n.Using})
		defer func() { e.contentStack = e.contentStack[:len(e.contentStack)-1] }()
	}
	body, _ := mixin.Body.([]ast.Node)
	childEv := ev.WithScope(child)
	return e.exec(body, childEv, parentSel, decls, out)
}

func (e *Engine) execContent(n *ast.Content, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	if len(e.contentStack) == 0 {
		return nil
	}
	frame := e.contentStack[len(e.contentStack)-1]
	contentEv := e.newEvaluator(frame.scope)
	if len(frame.using) > 0 || len(n.Args) > 0 {
		// @content(args) are evaluated in the mixin body's scope (where the
		// @content statement sits); the "using (...)" parameters they fill
		// shadow into a child of the stashed caller scope, so the content
		// block still resolves everything else where @include was written.
		args, err := e.evalCallArgs(n.Args, ev)
		if err != nil {
			return err
		}
		child, err := evaluator.BindParams(convertParams(frame.using), args, frame.scope, e.builtins, e, n.Pos)
		if err != nil {
			return err
		}
		contentEv = e.newEvaluator(child)
	}
	return e.exec(frame.body, contentEv, parentSel, decls, out)
}

// InvokeFunction implements evaluator.FunctionInvoker: it binds args
// against fn's closure, then executes the body until an @return is hit
// (spec §4.4: "the body must execute to a single @return, whose value
// becomes the call result").
func (e *Engine) InvokeFunction(fn *scope.Function, args evaluator.CallArgs, pos token.Position) (value.Value, error) {
	child, err := evaluator.BindParams(fn.Params, args, fn.Closure, e.builtins, e, pos)
	if err != nil {
		return nil, err
	}
	body, _ := fn.Body.([]ast.Node)
	ev := e.newEvaluator(child)
	v, found, err := e.execFunctionBody(body, ev)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, e.newError(cssErrors.SyntaxError, pos, "Function finished without @return.")
	}
	return v, nil
}

// execFunctionBody runs a function (or one of its control-flow bodies)
// until @return fires, rejecting any statement that isn't control flow,
// a variable assignment, or @return (spec §4.4).
func (e *Engine) execFunctionBody(nodes []ast.Node, ev *evaluator.Evaluator) (value.Value, bool, error) {
	for _, n := range nodes {
		v, found, err := e.execFunctionNode(n, ev)
		if err != nil {
			return nil, false, err
		}
		if found {
			return v, true, nil
		}
	}
	return nil, false, nil
}

func (e *Engine) execFunctionNode(n ast.Node, ev *evaluator.Evaluator) (value.Value, bool, error) {
	switch t := n.(type) {
	case *ast.VarAssign:
		return nil, false, e.execVarAssign(t, ev)
	case *ast.Return:
		v, err := ev.Eval(t.Expr)
		return v, true, err
	case *ast.If:
		for _, br := range t.Branches {
			if br.Cond != nil {
				cv, err := ev.Eval(br.Cond)
				if err != nil {
					return nil, false, err
				}
				if !value.Truthy(cv) {
					continue
				}
			}
			return e.execFunctionBody(br.Body, ev)
		}
		return nil, false, nil
	case *ast.Each:
		rows, err := eachRows(t, ev)
		if err != nil {
			return nil, false, err
		}
		for _, row := range rows {
			bindEachVars(ev, t.Vars, row)
			v, found, err := e.execFunctionBody(t.Body, ev)
			if err != nil || found {
				return v, found, err
			}
		}
		return nil, false, nil
	case *ast.For:
		from, to, err := e.forBounds(t, ev)
		if err != nil {
			return nil, false, err
		}
		step := int64(1)
		if to < from {
			step = -1
		}
		end := to
		if t.Through {
			end = to + step
		}
		for i := from; i != end; i += step {
			ev.Scope.SetVar(t.Var, value.NewInt(i, ""))
			v, found, err := e.execFunctionBody(t.Body, ev)
			if err != nil || found {
				return v, found, err
			}
		}
		return nil, false, nil
	case *ast.While:
		for {
			cv, err := ev.Eval(t.Cond)
			if err != nil {
				return nil, false, err
			}
			if !value.Truthy(cv) {
				return nil, false, nil
			}
			v, found, err := e.execFunctionBody(t.Body, ev)
			if err != nil || found {
				return v, found, err
			}
		}
	default:
		return nil, false, e.newError(cssErrors.SyntaxError, n.Position(), "Only variable declarations and control flow are allowed inside a function body.")
	}
}

// ---------------------------------------------------------------------
// @at-root, @warn/@debug/@error, @charset, @media/@supports/unknown, @import

func (e *Engine) execAtRoot(n *ast.AtRoot, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	if len(trimTrivia(n.Selector)) == 0 {
		child := ev.WithScope(ev.Scope.Child())
		return e.exec(n.Body, child, nil, decls, out)
	}
	text, err := evaluator.RenderInterpolated(ev, n.Selector)
	if err != nil {
		return err
	}
	parsed, err := selector.Parse(text)
	if err != nil {
		return e.newError(cssErrors.SyntaxError, n.Pos, "%s", err.Error())
	}
	resolved, err := selector.ResolveParentSelectors(parsed, parentSel, false)
	if err != nil {
		return e.newError(cssErrors.ParentError, n.Pos, "%s", err.Error())
	}
	// Appending to out is already the "root" of the current flattening
	// context: rule nesting never changes out, only @media/@supports and
	// unknown at-rule bodies do, and those are exactly the wrappers
	// @at-root does not escape.
	rule := &flatten.Rule{Selector: selector.Serialize(resolved)}
	*out = append(*out, rule)
	child := ev.WithScope(ev.Scope.Child())
	return e.exec(n.Body, child, resolved, &rule.Decls, out)
}

func (e *Engine) execWarn(n *ast.Warn, ev *evaluator.Evaluator) error {
	v, err := ev.Eval(n.Expr)
	if err != nil {
		return err
	}
	if !e.opts.Quiet && e.opts.OnWarn != nil {
		e.opts.OnWarn(unquotedTextOf(v), n.Pos)
	}
	return nil
}

func (e *Engine) execDebug(n *ast.Debug, ev *evaluator.Evaluator) error {
	v, err := ev.Eval(n.Expr)
	if err != nil {
		return err
	}
	if e.opts.OnDebug != nil {
		e.opts.OnDebug(v.Inspect(), n.Pos)
	}
	return nil
}

func (e *Engine) execError(n *ast.Error, ev *evaluator.Evaluator) error {
	v, err := ev.Eval(n.Expr)
	if err != nil {
		return err
	}
	return e.newError(cssErrors.UserError, n.Pos, "%s", unquotedTextOf(v))
}

func unquotedTextOf(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return s.Text
	}
	return v.String()
}

func (e *Engine) execCharset(n *ast.Charset) error {
	if e.charsetSeen {
		return nil
	}
	e.charsetSeen = true
	e.charset = &flatten.Charset{Value: n.Value}
	return nil
}

func (e *Engine) execMediaLike(n *ast.MediaLike, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	prelude, err := evaluator.RenderInterpolated(ev, n.Prelude)
	if err != nil {
		return err
	}
	var children []flatten.Node
	child := ev.WithScope(ev.Scope.Child())
	if err := e.exec(n.Body, child, parentSel, decls, &children); err != nil {
		return err
	}
	*out = append(*out, &flatten.AtBlock{Keyword: n.Keyword, Prelude: strings.TrimSpace(prelude), Children: children})
	return nil
}

func (e *Engine) execUnknown(n *ast.Unknown, ev *evaluator.Evaluator, parentSel *selector.List, decls *[]flatten.Decl, out *[]flatten.Node) error {
	prelude, err := evaluator.RenderInterpolated(ev, n.Prelude)
	if err != nil {
		return err
	}
	if n.Body == nil {
		*out = append(*out, &flatten.AtBlock{Keyword: n.Name, Prelude: strings.TrimSpace(prelude)})
		return nil
	}
	var children []flatten.Node
	child := ev.WithScope(ev.Scope.Child())
	if err := e.exec(n.Body, child, parentSel, decls, &children); err != nil {
		return err
	}
	*out = append(*out, &flatten.AtBlock{Keyword: n.Name, Prelude: strings.TrimSpace(prelude), Children: children})
	return nil
}

// execImport preserves an @import verbatim; actual file resolution
// through load_paths is a thin outer collaborator (spec §1's explicit
// out-of-scope boundary), so the core only records the literal at-rule.
func (e *Engine) execImport(n *ast.Import, out *[]flatten.Node) error {
	*out = append(*out, &flatten.AtBlock{Keyword: "import", Prelude: `"` + n.Path + `"`})
	return nil
}

// ---------------------------------------------------------------------
// Token-span helpers (mirrors internal/parser's trivia/flag handling,
// which is unexported there and needed again here for declaration values)

func isTrivia(tt token.Type) bool {
	return tt == token.WHITESPACE || tt == token.NEWLINE || tt == token.COMMENT
}

func trimTrivia(toks []token.Token) []token.Token {
	start, end := 0, len(toks)
	for start < end && isTrivia(toks[start].Type) {
		start++
	}
	for end > start && isTrivia(toks[end-1].Type) {
		end--
	}
	return toks[start:end]
}

// stripImportant peels a trailing "!important" flag off a declaration's
// value tokens (spec §3's Important value / §4's declaration grammar).
func stripImportant(toks []token.Token) ([]token.Token, bool) {
	t := trimTrivia(toks)
	if len(t) >= 2 && t[len(t)-1].Type == token.IDENT && strings.EqualFold(t[len(t)-1].Literal, "important") && t[len(t)-2].Type == token.BANG {
		return trimTrivia(t[:len(t)-2]), true
	}
	return t, false
}
