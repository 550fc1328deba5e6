// Package evaluator implements spec §4.3: a Pratt expression parser that
// consumes a token span and returns a value.Value, using a scope.Scope
// for variable/function lookup. Unlike the teacher's parser+evaluator
// split (internal/parser builds an ast.Expression tree that
// internal/interp walks separately), cssc's evaluator parses and
// evaluates in the same pass: expression spans are re-evaluated from raw
// tokens whenever a scope changes (an @while condition, a @function
// body), so there is no separate tree to retain between evaluations
// (spec §9's "lazy binary-op nodes" note; see DESIGN.md).
package evaluator

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/scope"
	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

// BuiltinFunc is the signature every internal/builtins registry entry
// implements: positional arguments in, a Value or error out (spec §4.6).
type BuiltinFunc func(args []value.Value, pos token.Position) (value.Value, error)

// BuiltinLookup is the minimal surface the evaluator needs from
// internal/builtins.Registry; kept as an interface here (instead of
// importing that package directly) the same way the teacher's
// builtins.Context interface breaks the builtins<->interp import cycle.
type BuiltinLookup interface {
	Lookup(name string) (BuiltinFunc, bool)
}

// FunctionInvoker executes a user-defined @function body. Implemented by
// internal/atrule.Engine, which owns statement execution and @return
// unwinding; the evaluator only needs to call back into it for a
// function-call expression (spec §4.4's "@return... becomes the call
// result").
type FunctionInvoker interface {
	InvokeFunction(fn *scope.Function, args CallArgs, pos token.Position) (value.Value, error)
}

// CallArgs is a merged actual-argument list: positional arguments in
// call order, plus named arguments by parameter name (spec §4.2's
// "positional then named; named may override defaults").
type CallArgs struct {
	Positional []value.Value
	Named      map[string]value.Value
}

// Evaluator evaluates expression token spans against a scope.
type Evaluator struct {
	Scope    *scope.Scope
	Builtins BuiltinLookup
	Invoker  FunctionInvoker
	Source   string
	File     string
}

func New(sc *scope.Scope, builtins BuiltinLookup, invoker FunctionInvoker) *Evaluator {
	return &Evaluator{Scope: sc, Builtins: builtins, Invoker: invoker}
}

// WithScope returns a shallow copy of the evaluator bound to a different
// scope, used when a nested block needs its own lookup scope without
// touching the caller's Evaluator struct.
func (e *Evaluator) WithScope(sc *scope.Scope) *Evaluator {
	cp := *e
	cp.Scope = sc
	return &cp
}

func (e *Evaluator) errf(kind cssErrors.Kind, pos token.Position, format string, args ...any) error {
	err := cssErrors.New(kind, pos, format, args...)
	err.Source, err.File = e.Source, e.File
	return err
}

// ---------------------------------------------------------------------
// Significant-token preprocessing

type sigTok struct {
	tok         token.Token
	spaceBefore bool
}

func significant(toks []token.Token) []sigTok {
	out := make([]sigTok, 0, len(toks))
	sawSpace := false
	for _, t := range toks {
		switch t.Type {
		case token.WHITESPACE, token.NEWLINE, token.COMMENT:
			sawSpace = true
			continue
		}
		out = append(out, sigTok{tok: t, spaceBefore: sawSpace})
		sawSpace = false
	}
	return out
}

// depthDelta reports how a token affects nesting depth for top-level
// splitting (commas, space-list boundaries).
func depthDelta(tt token.Type) int {
	switch tt {
	case token.LPAREN, token.LBRACKET, token.INTERP_BEGIN:
		return 1
	case token.RPAREN, token.RBRACKET, token.INTERP_END:
		return -1
	}
	return 0
}

// splitTopLevelComma splits a significant-token run on depth-0 commas.
func splitTopLevelComma(sig []sigTok) [][]sigTok {
	var out [][]sigTok
	depth := 0
	start := 0
	for i, s := range sig {
		depth += depthDelta(s.tok.Type)
		if depth == 0 && s.tok.Type == token.COMMA {
			out = append(out, sig[start:i])
			start = i + 1
		}
	}
	out = append(out, sig[start:])
	return out
}

// ---------------------------------------------------------------------
// Public entry points

// Eval parses and evaluates an entire expression token span: a
// comma-separated list of space-separated lists (spec §4.3).
func (e *Evaluator) Eval(toks []token.Token) (value.Value, error) {
	sig := significant(toks)
	if len(sig) == 0 {
		return nil, e.errf(cssErrors.SyntaxError, token.Position{Line: 1, Column: 1}, "Expected expression.")
	}
	return e.evalCommaList(sig)
}

func (e *Evaluator) evalCommaList(sig []sigTok) (value.Value, error) {
	groups := splitTopLevelComma(sig)
	if len(groups) == 1 {
		return e.evalSpaceList(groups[0])
	}
	items := make([]value.Value, 0, len(groups))
	for _, g := range groups {
		v, err := e.evalSpaceList(g)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return value.NewList(items, value.SepComma, value.BracketsNone), nil
}

func (e *Evaluator) evalSpaceList(sig []sigTok) (value.Value, error) {
	if len(sig) == 0 {
		return nil, e.errf(cssErrors.SyntaxError, token.Position{Line: 1, Column: 1}, "Expected expression.")
	}
	p := &parser{e: e, sig: sig}
	var items []value.Value
	for p.i < len(p.sig) {
		v, _, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return value.NewList(items, value.SepSpace, value.BracketsNone), nil
}

// ---------------------------------------------------------------------
// Pratt parser over a sigTok slice

type parser struct {
	e   *Evaluator
	sig []sigTok
	i   int
}

func (p *parser) cur() (sigTok, bool) {
	if p.i >= len(p.sig) {
		return sigTok{}, false
	}
	return p.sig[p.i], true
}

func (p *parser) curPos() token.Position {
	if p.i < len(p.sig) {
		return p.sig[p.i].tok.Pos
	}
	if len(p.sig) > 0 {
		return p.sig[len(p.sig)-1].tok.Pos
	}
	return token.Position{Line: 1, Column: 1}
}

// precedence levels, tightest-last per spec §4.3 ordering collapsed into
// a left-to-right binding strength (higher binds tighter).
const (
	precOr  = 1
	precAnd = 2
	precEq  = 3
	precRel = 4
	precAdd = 5
	precMul = 6
)

func binOpPrecedence(tt token.Type) (int, bool) {
	switch tt {
	case token.KEYWORD_OR:
		return precOr, true
	case token.KEYWORD_AND:
		return precAnd, true
	case token.EQ, token.NEQ:
		return precEq, true
	case token.LT, token.LE, token.GT, token.GE:
		return precRel, true
	case token.PLUS, token.MINUS:
		return precAdd, true
	case token.STAR, token.SLASH, token.PERCENT_PUNCT:
		return precMul, true
	}
	return 0, false
}

// parseExpr implements precedence-climbing; it returns the computed
// value and whether that value is itself the result of an arithmetic
// computation (spec §4.3's `/` formatting rule depends on this).
func (p *parser) parseExpr(minPrec int) (value.Value, bool, error) {
	left, leftComputed, err := p.parsePrefix()
	if err != nil {
		return nil, false, err
	}
	for {
		cur, ok := p.cur()
		if !ok {
			break
		}
		opPrec, isOp := binOpPrecedence(cur.tok.Type)
		if !isOp || opPrec <= minPrec {
			break
		}
		// +/- require symmetric spacing to be treated as binary; a
		// "1 -2" (space before, none after) starts a new space-list
		// item instead (standard Sass disambiguation — spec §9).
		if cur.tok.Type == token.PLUS || cur.tok.Type == token.MINUS {
			after, hasAfter := p.peekAt(p.i + 1)
			symmetrical := hasAfter && (cur.spaceBefore == after.spaceBefore)
			if !symmetrical {
				break
			}
		}
		opTok := cur.tok
		p.i++
		right, rightComputed, err := p.parseExpr(opPrec)
		if err != nil {
			return nil, false, err
		}
		left, err = p.e.applyBinary(left, opTok, right, leftComputed, rightComputed)
		if err != nil {
			return nil, false, err
		}
		leftComputed = true
	}
	return left, leftComputed, nil
}

func (p *parser) peekAt(i int) (sigTok, bool) {
	if i >= len(p.sig) {
		return sigTok{}, false
	}
	return p.sig[i], true
}

func (p *parser) parsePrefix() (value.Value, bool, error) {
	cur, ok := p.cur()
	if !ok {
		return nil, false, p.e.errf(cssErrors.SyntaxError, p.curPos(), "Expected expression.")
	}
	switch cur.tok.Type {
	case token.MINUS, token.PLUS:
		p.i++
		v, _, err := p.parseExpr(precMul + 1)
		if err != nil {
			return nil, false, err
		}
		if cur.tok.Type == token.PLUS {
			return v, true, nil
		}
		return p.negate(v, cur.tok.Pos)
	case token.KEYWORD_NOT:
		p.i++
		v, _, err := p.parseExpr(0)
		if err != nil {
			return nil, false, err
		}
		return value.NewBool(!value.Truthy(v)), true, nil
	}
	return p.parsePrimary()
}

func (p *parser) negate(v value.Value, pos token.Position) (value.Value, bool, error) {
	d, ok := v.(*value.Dimension)
	if !ok {
		return nil, false, p.e.errf(cssErrors.TypeError, pos, "%s: %s is not a number.", "-", v.Inspect())
	}
	return value.NewDimension(new(big.Rat).Neg(d.Num), d.Unit), true, nil
}

// ---------------------------------------------------------------------
// Primary expressions

func (p *parser) parsePrimary() (value.Value, bool, error) {
	cur, ok := p.cur()
	if !ok {
		return nil, false, p.e.errf(cssErrors.SyntaxError, p.curPos(), "Expected expression.")
	}
	pos := cur.tok.Pos

	switch cur.tok.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.VARIABLE:
		p.i++
		v, found := p.e.Scope.LookupVar(cur.tok.Literal)
		if !found {
			return nil, false, p.e.errf(cssErrors.NameError, pos, "Undefined variable: $%s.", cur.tok.Literal)
		}
		return v, false, nil
	case token.KEYWORD_TRUE:
		p.i++
		return value.NewBool(true), false, nil
	case token.KEYWORD_FALSE:
		p.i++
		return value.NewBool(false), false, nil
	case token.KEYWORD_NULL:
		p.i++
		return value.TheNull, false, nil
	case token.BANG:
		p.i++
		if n, ok := p.cur(); ok && n.tok.Type == token.IDENT && strings.EqualFold(n.tok.Literal, "important") {
			p.i++
			return value.TheImportant, false, nil
		}
		return nil, false, p.e.errf(cssErrors.SyntaxError, pos, "Expected \"important\".")
	case token.STRING_QUOTE_SINGLE, token.STRING_QUOTE_DOUBLE:
		return p.parseQuotedString()
	case token.HASH:
		return p.parseHash()
	case token.LPAREN:
		return p.parseParenOrMap()
	case token.LBRACKET:
		return p.parseBracketList()
	case token.IDENT:
		return p.parseIdentOrCall()
	case token.KEYWORD_TO, token.KEYWORD_THROUGH, token.KEYWORD_FROM, token.KEYWORD_USING:
		// Contextual keywords: only @for/@include grammar gives these
		// meaning, so in a value position they are ordinary identifiers
		// (`linear-gradient(to right, ...)`). The reserved set of spec §4.3
		// is just true/false/null/not/and/or/in.
		return p.parseIdentOrCall()
	case token.INTERP_BEGIN:
		return p.parseFusedIdent()
	}
	return nil, false, p.e.errf(cssErrors.SyntaxError, pos, "Expected expression.")
}

func (p *parser) parseNumber() (value.Value, bool, error) {
	cur := p.sig[p.i]
	lit := cur.tok.Literal
	p.i++
	num, err := parseRat(lit)
	if err != nil {
		return nil, false, p.e.errf(cssErrors.SyntaxError, cur.tok.Pos, "Invalid number %q.", lit)
	}
	unit := ""
	if n, ok := p.cur(); ok && !n.spaceBefore {
		switch n.tok.Type {
		case token.UNIT:
			unit = n.tok.Literal
			p.i++
		case token.PERCENT_PUNCT:
			unit = "%"
			p.i++
		case token.IDENT:
			// The lexer emits unit names as IDENT: an ident directly after
			// a number (no space) is that number's unit.
			unit = n.tok.Literal
			p.i++
		}
	}
	d := value.NewDimension(num, unit)
	d.Pos = cur.tok.Pos
	return d, false, nil
}

func parseRat(lit string) (*big.Rat, error) {
	if r, ok := new(big.Rat).SetString(lit); ok {
		return r, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetFloat64(f), nil
}

func (p *parser) parseQuotedString() (value.Value, bool, error) {
	open := p.sig[p.i].tok
	quote := value.QuoteDouble
	if open.Type == token.STRING_QUOTE_SINGLE {
		quote = value.QuoteSingle
	}
	p.i++
	var sb strings.Builder
	for {
		cur, ok := p.cur()
		if !ok {
			return nil, false, p.e.errf(cssErrors.SyntaxError, open.Pos, "Unterminated string.")
		}
		if cur.tok.Type == open.Type {
			p.i++
			break
		}
		if cur.tok.Type == token.STRING_CHUNK {
			sb.WriteString(cur.tok.Literal)
			p.i++
			continue
		}
		if cur.tok.Type == token.INTERP_BEGIN {
			v, err := p.parseInterpolation()
			if err != nil {
				return nil, false, err
			}
			sb.WriteString(v.String())
			continue
		}
		return nil, false, p.e.errf(cssErrors.SyntaxError, cur.tok.Pos, "Unterminated string.")
	}
	return value.NewString(sb.String(), quote), false, nil
}

// parseFusedIdent handles a value position that starts with #{...}
// (e.g. `#{$x}-suffix`), fusing subsequent no-space IDENT/interpolation
// runs into one unquoted string (spec §9: "Interpolation inside
// identifiers is a token-level construct").
func (p *parser) parseFusedIdent() (value.Value, bool, error) {
	var sb strings.Builder
	for {
		cur, ok := p.cur()
		if !ok {
			break
		}
		if cur.tok.Type == token.INTERP_BEGIN {
			v, err := p.parseInterpolation()
			if err != nil {
				return nil, false, err
			}
			sb.WriteString(v.String())
			continue
		}
		if cur.tok.Type == token.IDENT && !cur.spaceBefore {
			sb.WriteString(cur.tok.Literal)
			p.i++
			continue
		}
		break
	}
	return value.NewString(sb.String(), value.QuoteNone), false, nil
}

// parseInterpolation consumes INTERP_BEGIN ... INTERP_END, evaluating
// the inner tokens as a full expression.
func (p *parser) parseInterpolation() (value.Value, error) {
	beginPos := p.sig[p.i].tok.Pos
	p.i++ // consume INTERP_BEGIN
	depth := 1
	start := p.i
	for p.i < len(p.sig) && depth > 0 {
		switch p.sig[p.i].tok.Type {
		case token.INTERP_BEGIN, token.LPAREN, token.LBRACKET:
			depth++
		case token.INTERP_END:
			depth--
			if depth == 0 {
				inner := p.sig[start:p.i]
				p.i++
				if len(inner) == 0 {
					return value.NewString("", value.QuoteNone), nil
				}
				return p.e.evalCommaList(inner)
			}
		case token.RPAREN, token.RBRACKET:
			depth--
		}
		p.i++
	}
	return nil, p.e.errf(cssErrors.SyntaxError, beginPos, "Expected \"}\".")
}

func (p *parser) parseHash() (value.Value, bool, error) {
	hashPos := p.sig[p.i].tok.Pos
	p.i++
	n, ok := p.cur()
	if !ok || n.spaceBefore || n.tok.Type != token.IDENT || !isHexDigits(n.tok.Literal) {
		return nil, false, p.e.errf(cssErrors.SyntaxError, hashPos, "Expected hex digits after \"#\".")
	}
	lit := n.tok.Literal
	p.i++
	c, err := parseHexColor(lit)
	if err != nil {
		return nil, false, p.e.errf(cssErrors.SyntaxError, hashPos, "%s", err.Error())
	}
	c.Name = "#" + lit
	return c, false, nil
}

func isHexDigits(s string) bool {
	if l := len(s); l != 3 && l != 4 && l != 6 && l != 8 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

func parseHexColor(s string) (*value.Color, error) {
	hex1 := func(c byte) uint8 {
		v, _ := strconv.ParseUint(string(c)+string(c), 16, 8)
		return uint8(v)
	}
	hex2 := func(s string) uint8 {
		v, _ := strconv.ParseUint(s, 16, 8)
		return uint8(v)
	}
	switch len(s) {
	case 3:
		return &value.Color{R: hex1(s[0]), G: hex1(s[1]), B: hex1(s[2]), A: 1}, nil
	case 4:
		return &value.Color{R: hex1(s[0]), G: hex1(s[1]), B: hex1(s[2]), A: float64(hex1(s[3])) / 255}, nil
	case 6:
		return &value.Color{R: hex2(s[0:2]), G: hex2(s[2:4]), B: hex2(s[4:6]), A: 1}, nil
	case 8:
		return &value.Color{R: hex2(s[0:2]), G: hex2(s[2:4]), B: hex2(s[4:6]), A: float64(hex2(s[6:8])) / 255}, nil
	}
	return nil, fmt.Errorf("invalid hex color #%s", s)
}

// parseParenOrMap implements spec §4.3: parentheses group a single
// child, form a map from comma-separated `k: v` pairs, or an explicitly
// empty list `()`.
func (p *parser) parseParenOrMap() (value.Value, bool, error) {
	inner, err := p.consumeBalanced(token.LPAREN, token.RPAREN)
	if err != nil {
		return nil, false, err
	}
	if len(inner) == 0 {
		return value.NewList(nil, value.SepComma, value.BracketsNone), false, nil
	}
	groups := splitTopLevelComma(inner)
	if isMapForm(groups) {
		m := value.NewMap()
		for _, g := range groups {
			idx := topLevelColon(g)
			keyToks, valToks := g[:idx], g[idx+1:]
			kv, err := p.e.evalSpaceList(keyToks)
			if err != nil {
				return nil, false, err
			}
			vv, err := p.e.evalSpaceList(valToks)
			if err != nil {
				return nil, false, err
			}
			m.Set(kv, vv)
		}
		return m, false, nil
	}
	v, err := p.e.evalCommaList(inner)
	if err != nil {
		return nil, false, err
	}
	// Parentheses force the "computed" division-formatting rule (spec
	// §4.3) even when they wrap a single literal, e.g. `(16px)/2`. The
	// value.Paren type itself is only used where a literal grouping needs
	// to be printed back verbatim (the printer's calc()-argument path);
	// here the grouped value is unwrapped immediately.
	return v, true, nil
}

func isMapForm(groups [][]sigTok) bool {
	if len(groups) == 0 {
		return false
	}
	for _, g := range groups {
		if topLevelColon(g) < 0 {
			return false
		}
	}
	return true
}

func topLevelColon(sig []sigTok) int {
	depth := 0
	for i, s := range sig {
		depth += depthDelta(s.tok.Type)
		if depth == 0 && s.tok.Type == token.COLON {
			return i
		}
	}
	return -1
}

func (p *parser) parseBracketList() (value.Value, bool, error) {
	inner, err := p.consumeBalanced(token.LBRACKET, token.RBRACKET)
	if err != nil {
		return nil, false, err
	}
	if len(inner) == 0 {
		return value.NewList(nil, value.SepSpace, value.BracketsSquare), false, nil
	}
	groups := splitTopLevelComma(inner)
	if len(groups) > 1 {
		items := make([]value.Value, 0, len(groups))
		for _, g := range groups {
			v, err := p.e.evalSpaceList(g)
			if err != nil {
				return nil, false, err
			}
			items = append(items, v)
		}
		return value.NewList(items, value.SepComma, value.BracketsSquare), false, nil
	}
	v, err := p.e.evalSpaceList(inner)
	if err != nil {
		return nil, false, err
	}
	if l, ok := v.(*value.List); ok {
		l.Brackets = value.BracketsSquare
		return l, false, nil
	}
	return value.NewList([]value.Value{v}, value.SepSpace, value.BracketsSquare), false, nil
}

// consumeBalanced consumes from the current open token through its
// matching close token (inclusive) and returns the tokens strictly
// between them.
func (p *parser) consumeBalanced(open, close token.Type) ([]sigTok, error) {
	openPos := p.sig[p.i].tok.Pos
	p.i++
	depth := 1
	start := p.i
	for p.i < len(p.sig) {
		switch p.sig[p.i].tok.Type {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				inner := p.sig[start:p.i]
				p.i++
				return inner, nil
			}
		}
		p.i++
	}
	return nil, p.e.errf(cssErrors.SyntaxError, openPos, "Expected closing bracket.")
}

// parseIdentOrCall disambiguates a bare identifier from a function call
// (spec §4.3: "an identifier followed immediately by `(` is a function
// call; otherwise it is an unquoted string").
func (p *parser) parseIdentOrCall() (value.Value, bool, error) {
	cur := p.sig[p.i]
	name := cur.tok.Literal
	n, hasNext := p.peekAt(p.i + 1)
	if hasNext && !n.spaceBefore && n.tok.Type == token.LPAREN {
		p.i++
		return p.parseCall(name, cur.tok.Pos)
	}
	p.i++
	// Fuse with any immediately-adjacent interpolation/ident runs.
	var sb strings.Builder
	sb.WriteString(name)
	for {
		nn, ok := p.cur()
		if !ok || nn.spaceBefore {
			break
		}
		if nn.tok.Type == token.INTERP_BEGIN {
			v, err := p.parseInterpolation()
			if err != nil {
				return nil, false, err
			}
			sb.WriteString(v.String())
			continue
		}
		if nn.tok.Type == token.IDENT {
			sb.WriteString(nn.tok.Literal)
			p.i++
			continue
		}
		break
	}
	return value.NewString(sb.String(), value.QuoteNone), false, nil
}

// parseCall parses `name(args)` and dispatches to a user function, a
// meta built-in needing scope access, or the built-in registry.
func (p *parser) parseCall(name string, pos token.Position) (value.Value, bool, error) {
	argToks, err := p.consumeBalanced(token.LPAREN, token.RPAREN)
	if err != nil {
		return nil, false, err
	}
	args, err := p.e.evalArgs(argToks, name)
	if err != nil {
		return nil, false, err
	}

	if v, handled, err := p.e.evalMetaCall(name, args, pos); handled {
		return v, true, err
	}

	if fn, ok := p.e.Scope.LookupFunction(name); ok {
		if p.e.Invoker == nil {
			return nil, false, p.e.errf(cssErrors.NameError, pos, "Function %q cannot be called here.", name)
		}
		v, err := p.e.Invoker.InvokeFunction(fn, args, pos)
		return v, true, err
	}

	if p.e.Builtins != nil {
		if fn, ok := p.e.Builtins.Lookup(name); ok {
			all := append(append([]value.Value(nil), args.Positional...), namedValues(args.Named)...)
			v, err := fn(all, pos)
			return v, true, err
		}
	}

	// Unknown identifier-as-function: treat as a CSS passthrough function
	// (var(), url(), translate(), calc(), ...) whose arguments are
	// re-serialized losslessly rather than evaluated against our value
	// algebra (SPEC_FULL's Calc supplement).
	return &value.Calc{Name: name, Args: reconstructArgs(args)}, true, nil
}

func namedValues(named map[string]value.Value) []value.Value {
	if len(named) == 0 {
		return nil
	}
	out := make([]value.Value, 0, len(named))
	for _, v := range named {
		out = append(out, v)
	}
	return out
}

func reconstructArgs(args CallArgs) string {
	parts := make([]string, 0, len(args.Positional))
	for _, v := range args.Positional {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

// evalArgs splits a function call's argument tokens on top-level commas
// and evaluates each, recognizing `$name: expr` named arguments. `var()`
// is the one function that permits a trailing empty second argument
// (spec §6: `var(--foo,)` is the CSS custom-property fallback form),
// every other function rejects an empty argument group outright.
func (e *Evaluator) evalArgs(toks []sigTok, name string) (CallArgs, error) {
	if len(toks) == 0 {
		return CallArgs{}, nil
	}
	groups := splitTopLevelComma(toks)
	var out CallArgs
	for i, g := range groups {
		if len(g) == 0 {
			if name == "var" && i == len(groups)-1 && i > 0 {
				out.Positional = append(out.Positional, value.NewString("", value.QuoteNone))
				continue
			}
			return out, e.errf(cssErrors.SyntaxError, e.posOf(toks), "Expected expression.")
		}
		if name, rest, ok := namedArgPrefix(g); ok {
			v, err := e.evalSpaceList(rest)
			if err != nil {
				return out, err
			}
			if out.Named == nil {
				out.Named = map[string]value.Value{}
			}
			out.Named[name] = v
			continue
		}
		v, err := e.evalSpaceList(g)
		if err != nil {
			return out, err
		}
		out.Positional = append(out.Positional, v)
	}
	return out, nil
}

func (e *Evaluator) posOf(toks []sigTok) token.Position {
	if len(toks) > 0 {
		return toks[0].tok.Pos
	}
	return token.Position{Line: 1, Column: 1}
}

func namedArgPrefix(g []sigTok) (name string, rest []sigTok, ok bool) {
	if len(g) >= 2 && g[0].tok.Type == token.VARIABLE && g[1].tok.Type == token.COLON {
		return g[0].tok.Literal, g[2:], true
	}
	return "", nil, false
}

// evalMetaCall handles the meta built-ins that need direct scope access
// (variable-exists, function-exists, mixin-exists, call) rather than
// the positional-only BuiltinFunc signature the rest of the registry
// uses (spec §4.6's "meta" family).
func (e *Evaluator) evalMetaCall(name string, args CallArgs, pos token.Position) (value.Value, bool, error) {
	switch name {
	case "variable-exists":
		n, err := e.argString(args, 0, pos, "variable-exists")
		if err != nil {
			return nil, true, err
		}
		return value.NewBool(e.Scope.VariableExists(n)), true, nil
	case "function-exists":
		n, err := e.argString(args, 0, pos, "function-exists")
		if err != nil {
			return nil, true, err
		}
		return value.NewBool(e.Scope.FunctionExists(n)), true, nil
	case "mixin-exists":
		n, err := e.argString(args, 0, pos, "mixin-exists")
		if err != nil {
			return nil, true, err
		}
		return value.NewBool(e.Scope.MixinExists(n)), true, nil
	case "call":
		if len(args.Positional) == 0 {
			return nil, true, e.errf(cssErrors.ArityError, pos, "call: missing function name.")
		}
		n, err := e.argString(args, 0, pos, "call")
		if err != nil {
			return nil, true, err
		}
		fn, ok := e.Scope.LookupFunction(n)
		if !ok {
			return nil, true, e.errf(cssErrors.NameError, pos, "Undefined function: %q.", n)
		}
		if e.Invoker == nil {
			return nil, true, e.errf(cssErrors.NameError, pos, "Function %q cannot be called here.", n)
		}
		rest := CallArgs{Positional: args.Positional[1:], Named: args.Named}
		v, err := e.Invoker.InvokeFunction(fn, rest, pos)
		return v, true, err
	}
	return nil, false, nil
}

func (e *Evaluator) argString(args CallArgs, i int, pos token.Position, fname string) (string, error) {
	if i >= len(args.Positional) {
		return "", e.errf(cssErrors.ArityError, pos, "%s: missing argument.", fname)
	}
	s, ok := args.Positional[i].(*value.String)
	if !ok {
		return "", e.errf(cssErrors.TypeError, pos, "%s: %s is not a string.", fname, args.Positional[i].Inspect())
	}
	return s.Text, nil
}

// ---------------------------------------------------------------------
// Binary operator semantics (spec §4.3)

func (e *Evaluator) applyBinary(lhs value.Value, op token.Token, rhs value.Value, lhsComputed, rhsComputed bool) (value.Value, error) {
	pos := op.Pos
	switch op.Type {
	case token.KEYWORD_AND:
		if !value.Truthy(lhs) {
			return lhs, nil
		}
		return rhs, nil
	case token.KEYWORD_OR:
		if value.Truthy(lhs) {
			return lhs, nil
		}
		return rhs, nil
	case token.EQ:
		return value.NewBool(value.Equal(lhs, rhs)), nil
	case token.NEQ:
		return value.NewBool(!value.Equal(lhs, rhs)), nil
	case token.LT, token.LE, token.GT, token.GE:
		return e.compare(lhs, op, rhs)
	case token.PLUS:
		return e.add(lhs, rhs, pos)
	case token.MINUS:
		return e.subtract(lhs, rhs, pos)
	case token.STAR:
		return e.multiply(lhs, rhs, pos)
	case token.SLASH:
		return e.divide(lhs, rhs, lhsComputed, rhsComputed, pos)
	case token.PERCENT_PUNCT:
		return e.modulo(lhs, rhs, pos)
	}
	return nil, e.errf(cssErrors.SyntaxError, pos, "Unsupported operator %q.", op.Literal)
}

func (e *Evaluator) compare(lhs value.Value, op token.Token, rhs value.Value) (value.Value, error) {
	ld, lok := lhs.(*value.Dimension)
	rd, rok := rhs.(*value.Dimension)
	if !lok || !rok {
		return nil, e.errf(cssErrors.TypeError, op.Pos, "%s and %s are not comparable.", lhs.Inspect(), rhs.Inspect())
	}
	_, compat := value.CompatibleUnit(ld.Unit, rd.Unit)
	if !compat {
		return nil, e.errf(cssErrors.UnitError, op.Pos, "Incompatible units %s and %s.", ld.Unit, rd.Unit)
	}
	c := ld.Num.Cmp(rd.Num)
	var result bool
	switch op.Type {
	case token.LT:
		result = c < 0
	case token.LE:
		result = c <= 0
	case token.GT:
		result = c > 0
	case token.GE:
		result = c >= 0
	}
	return value.NewBool(result), nil
}

func (e *Evaluator) add(lhs, rhs value.Value, pos token.Position) (value.Value, error) {
	if ls, ok := lhs.(*value.String); ok {
		rtext := rhs.String()
		if rs, ok := rhs.(*value.String); ok {
			rtext = rs.Text
		}
		return value.NewString(ls.Text+rtext, ls.Quote), nil
	}
	if _, ok := rhs.(*value.String); ok {
		return value.NewString(lhs.String()+rhs.String(), value.QuoteNone), nil
	}
	ld, lok := lhs.(*value.Dimension)
	rd, rok := rhs.(*value.Dimension)
	if lok && rok {
		unit, compat := value.CompatibleUnit(ld.Unit, rd.Unit)
		if !compat {
			return nil, e.errf(cssErrors.UnitError, pos, "Incompatible units %s and %s.", ld.Unit, rd.Unit)
		}
		return value.NewDimension(new(big.Rat).Add(ld.Num, rd.Num), unit), nil
	}
	if lc, ok := lhs.(*value.Color); ok {
		if rc, ok := rhs.(*value.Color); ok {
			return addColor(lc, rc), nil
		}
	}
	return value.NewString(lhs.String()+rhs.String(), value.QuoteNone), nil
}

func addColor(a, b *value.Color) *value.Color {
	clamp := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return &value.Color{R: clamp(int(a.R) + int(b.R)), G: clamp(int(a.G) + int(b.G)), B: clamp(int(a.B) + int(b.B)), A: 1}
}

func (e *Evaluator) subtract(lhs, rhs value.Value, pos token.Position) (value.Value, error) {
	ld, lok := lhs.(*value.Dimension)
	rd, rok := rhs.(*value.Dimension)
	if lok && rok {
		unit, compat := value.CompatibleUnit(ld.Unit, rd.Unit)
		if !compat {
			return nil, e.errf(cssErrors.UnitError, pos, "Incompatible units %s and %s.", ld.Unit, rd.Unit)
		}
		return value.NewDimension(new(big.Rat).Sub(ld.Num, rd.Num), unit), nil
	}
	return value.NewString(lhs.String()+"-"+rhs.String(), value.QuoteNone), nil
}

func (e *Evaluator) multiply(lhs, rhs value.Value, pos token.Position) (value.Value, error) {
	ld, lok := lhs.(*value.Dimension)
	rd, rok := rhs.(*value.Dimension)
	if !lok || !rok {
		return nil, e.errf(cssErrors.TypeError, pos, "%s: %s is not a number.", "*", pickNonDimension(lhs, rhs, ld == nil).Inspect())
	}
	var unit string
	switch {
	case ld.Unit == "":
		unit = rd.Unit
	case rd.Unit == "":
		unit = ld.Unit
	case ld.Unit == rd.Unit:
		return nil, e.errf(cssErrors.UnitError, pos, "%s*%s isn't a valid CSS unit.", ld.Unit, rd.Unit)
	default:
		return nil, e.errf(cssErrors.UnitError, pos, "%s*%s isn't a valid CSS unit.", ld.Unit, rd.Unit)
	}
	return value.NewDimension(new(big.Rat).Mul(ld.Num, rd.Num), unit), nil
}

func pickNonDimension(lhs, rhs value.Value, lhsIsNonDim bool) value.Value {
	if lhsIsNonDim {
		return lhs
	}
	return rhs
}

// divide implements spec §4.3's context-sensitive `/`: a dimension
// result only when at least one operand is itself the product of a
// computation; otherwise the literal unquoted string "a/b" (the CSS
// shorthand case, e.g. `font: 16px/1.4`).
func (e *Evaluator) divide(lhs, rhs value.Value, lhsComputed, rhsComputed bool, pos token.Position) (value.Value, error) {
	ld, lok := lhs.(*value.Dimension)
	rd, rok := rhs.(*value.Dimension)
	if !lok || !rok {
		return value.NewString(lhs.String()+"/"+rhs.String(), value.QuoteNone), nil
	}
	if !lhsComputed && !rhsComputed {
		return value.NewString(ld.String()+"/"+rd.String(), value.QuoteNone), nil
	}
	if rd.Num.Sign() == 0 {
		return nil, e.errf(cssErrors.SyntaxError, pos, "Division by zero.")
	}
	unit, compat := divideUnit(ld.Unit, rd.Unit)
	if !compat {
		return nil, e.errf(cssErrors.UnitError, pos, "Incompatible units %s and %s.", ld.Unit, rd.Unit)
	}
	return value.NewDimension(new(big.Rat).Quo(ld.Num, rd.Num), unit), nil
}

func divideUnit(a, b string) (string, bool) {
	if a == b {
		return "", true
	}
	if b == "" {
		return a, true
	}
	if a == "" {
		return "", true
	}
	return "", false
}

func (e *Evaluator) modulo(lhs, rhs value.Value, pos token.Position) (value.Value, error) {
	ld, lok := lhs.(*value.Dimension)
	rd, rok := rhs.(*value.Dimension)
	if !lok || !rok {
		return nil, e.errf(cssErrors.TypeError, pos, "%%: operands must be numbers.")
	}
	unit, compat := value.CompatibleUnit(ld.Unit, rd.Unit)
	if !compat {
		return nil, e.errf(cssErrors.UnitError, pos, "Incompatible units %s and %s.", ld.Unit, rd.Unit)
	}
	if rd.Num.Sign() == 0 {
		return nil, e.errf(cssErrors.SyntaxError, pos, "Division by zero.")
	}
	lf, _ := ld.Num.Float64()
	rf, _ := rd.Num.Float64()
	mod := lf - rf*float64(int64(lf/rf))
	return value.NewDimension(new(big.Rat).SetFloat64(mod), unit), nil
}
