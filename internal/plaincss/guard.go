// Package plaincss implements spec §6's `input_syntax: css` guardrails:
// a thin collaborator that walks an already-parsed ast.Program and
// rejects the Sass-only constructs plain CSS mode disallows, with the
// exact diagnostic messages spec §6 lists. It runs after internal/parser
// and before internal/atrule, the same "outer collaborator wraps the
// core engine" shape internal/atrule.Options documents for input_syntax.
package plaincss

import (
	"github.com/cwbudde/cssc/internal/ast"
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/lexer"
	"github.com/cwbudde/cssc/internal/token"
)

// FunctionAllowed reports whether a function name is a Sass built-in,
// which plain CSS mode rejects (true means rejected): everything the
// registry doesn't know about is an ordinary CSS function (rgb(), calc(),
// translate(), ...) and passes through untouched. var() is always
// allowed, whatever this returns.
type FunctionAllowed func(name string) bool

// Check walks prog and source looking for the first construct spec §6
// forbids in plain-CSS mode, returning a *cssErrors.CompilerError with
// Kind ModeError on the first hit, or nil if the program is clean.
func Check(prog *ast.Program, source string, isSassBuiltin FunctionAllowed) *cssErrors.CompilerError {
	if pos, ok := firstLineComment(source); ok {
		return modeError(pos, "Silent comments aren't allowed in plain CSS.")
	}
	g := &guard{isSassBuiltin: isSassBuiltin}
	return g.walk(prog.Statements)
}

func firstLineComment(source string) (token.Position, bool) {
	l := lexer.New(source)
	for {
		t := l.Next()
		if t.Type == token.EOF {
			break
		}
	}
	if len(l.LineComments) == 0 {
		return token.Position{}, false
	}
	return l.LineComments[0], true
}

func modeError(pos token.Position, msg string) *cssErrors.CompilerError {
	return cssErrors.New(cssErrors.ModeError, pos, "%s", msg)
}

type guard struct {
	isSassBuiltin FunctionAllowed
}

func (g *guard) walk(nodes []ast.Node) *cssErrors.CompilerError {
	for _, n := range nodes {
		if err := g.walkOne(n); err != nil {
			return err
		}
	}
	return nil
}

// walkOne's Sass-only-at-rule case names every control at-rule; anything
// not in that set (bare rule-sets, @charset, @media, @supports, and any
// truly unknown at-rule) is ordinary CSS and passes through.
func (g *guard) walkOne(n ast.Node) *cssErrors.CompilerError {
	switch t := n.(type) {
	case *ast.VarAssign:
		return modeError(t.Position(), "Sass variables aren't allowed in plain CSS.")
	case *ast.If, *ast.Each, *ast.For, *ast.While, *ast.Mixin, *ast.Include,
		*ast.Function, *ast.Return, *ast.AtRoot, *ast.Warn, *ast.Debug,
		*ast.Error, *ast.Content:
		return modeError(n.Position(), "This at-rule isn't allowed in plain CSS.")
	case *ast.RuleSet:
		if err := g.checkTokens(t.Selector); err != nil {
			return err
		}
		return g.walk(t.Body)
	case *ast.Declaration:
		if err := g.checkTokens(t.Property); err != nil {
			return err
		}
		return g.checkTokens(t.Value)
	case *ast.MediaLike:
		if err := g.checkPrelude(t.Prelude); err != nil {
			return err
		}
		return g.walk(t.Body)
	case *ast.Unknown:
		if err := g.checkPrelude(t.Prelude); err != nil {
			return err
		}
		return g.walk(t.Body)
	case *ast.Charset, *ast.Import:
		return nil
	default:
		return nil
	}
}

// operandEnd is the set of token kinds that can end an "operand" —
// used to tell a binary operator from a unary prefix one (`-5px` has no
// operand before its MINUS, `1 - 2` does).
func operandEnd(tt token.Type) bool {
	switch tt {
	case token.NUMBER, token.UNIT, token.IDENT, token.RPAREN, token.RBRACKET,
		token.STRING_QUOTE_SINGLE, token.STRING_QUOTE_DOUBLE, token.VARIABLE,
		token.KEYWORD_TRUE, token.KEYWORD_FALSE, token.KEYWORD_NULL:
		return true
	}
	return false
}

func isOperator(tt token.Type) bool {
	switch tt {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.GT, token.GE,
		token.LT, token.LE, token.EQ, token.NEQ, token.KEYWORD_AND,
		token.KEYWORD_OR, token.KEYWORD_NOT:
		return true
	}
	return false
}

// checkPrelude scans an at-rule prelude (`@media (min-width: 100px) and
// (max-width: 200px)`) for Sass variables and the parent selector only:
// parens and "and"/"or"/"not" are ordinary @media/@supports condition
// syntax here, not Sass grouping or logical operators, so they are not
// flagged the way they would be inside a declaration's value.
func (g *guard) checkPrelude(toks []token.Token) *cssErrors.CompilerError {
	for _, t := range toks {
		switch t.Type {
		case token.VARIABLE:
			return modeError(t.Pos, "Sass variables aren't allowed in plain CSS.")
		case token.AMP:
			return modeError(t.Pos, "The parent selector isn't allowed in plain CSS.")
		}
	}
	return nil
}

// checkTokens scans one token span (a declaration's property/value, or a
// selector) for the remaining forbidden constructs: Sass variables, the
// parent selector, grouping parens, binary operators, and calls to Sass
// built-in functions.
func (g *guard) checkTokens(toks []token.Token) *cssErrors.CompilerError {
	sig := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Type == token.WHITESPACE || t.Type == token.NEWLINE || t.Type == token.COMMENT {
			continue
		}
		sig = append(sig, t)
	}

	// callDepth tracks nesting inside a function call's parens (calc(),
	// rgb(), translate(), ...): once inside one, its arguments are
	// ordinary CSS and operators/further parens inside it are not Sass
	// arithmetic, so only the Sass-specific checks (variables, the
	// parent selector, nested Sass functions) still apply there.
	var callDepth int
	for i, t := range sig {
		switch t.Type {
		case token.VARIABLE:
			return modeError(t.Pos, "Sass variables aren't allowed in plain CSS.")
		case token.AMP:
			return modeError(t.Pos, "The parent selector isn't allowed in plain CSS.")
		case token.LPAREN:
			if i > 0 && sig[i-1].Type == token.IDENT {
				name := sig[i-1].Literal
				if name != "var" && g.isSassBuiltin != nil && g.isSassBuiltin(name) {
					return modeError(sig[i-1].Pos, "This function isn't allowed in plain CSS.")
				}
				callDepth++
				continue // an ordinary/unknown-function call, parens allowed
			}
			if callDepth > 0 {
				callDepth++
				continue // nested grouping parens inside a CSS function's args, e.g. calc((1px + 2px) * 2)
			}
			return modeError(t.Pos, "Parentheses aren't allowed in plain CSS.")
		case token.RPAREN:
			if callDepth > 0 {
				callDepth--
			}
			continue
		default:
			if callDepth > 0 {
				continue
			}
			if isOperator(t.Type) && i > 0 && operandEnd(sig[i-1].Type) {
				return modeError(t.Pos, "Operators aren't allowed in plain CSS.")
			}
		}
	}
	return nil
}
