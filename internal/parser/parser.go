// Package parser turns a token stream into an ast.Program: a top-level
// statement loop that recognizes rule-sets, declarations, variable
// assignments, and at-rules, each consuming tokens up to its terminator
// (";" or a balanced "{ }") per spec §4.4. Expression, selector, and
// prelude positions are kept as raw token spans — parsing them is the
// evaluator's and selector engine's job, not this package's.
package parser

import (
	"strings"

	"github.com/cwbudde/cssc/internal/ast"
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/lexer"
	"github.com/cwbudde/cssc/internal/token"
)

// Parser is a recursive-descent statement parser over a lexer's token
// stream.
type Parser struct {
	lex *lexer.Lexer
}

func New(lex *lexer.Lexer) *Parser { return &Parser{lex: lex} }

// Parse lexes and parses a complete stylesheet.
func Parse(source string) (*ast.Program, error) {
	return New(lexer.New(source)).ParseProgram()
}

func isTrivia(tt token.Type) bool {
	return tt == token.WHITESPACE || tt == token.NEWLINE || tt == token.COMMENT
}

func (p *Parser) skipTrivia() {
	for isTrivia(p.lex.Peek(0).Type) {
		p.lex.Next()
	}
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

// depthDelta mirrors the evaluator's bracket-depth convention: only
// parens, square brackets, and interpolation boundaries nest for the
// purpose of finding a top-level terminator.
func depthDelta(tt token.Type) int {
	switch tt {
	case token.LPAREN, token.LBRACKET, token.INTERP_BEGIN:
		return 1
	case token.RPAREN, token.RBRACKET, token.INTERP_END:
		return -1
	}
	return 0
}

func splitTopLevelComma(toks []token.Token) [][]token.Token {
	var out [][]token.Token
	depth, start := 0, 0
	for i, t := range toks {
		depth += depthDelta(t.Type)
		if depth == 0 && t.Type == token.COMMA {
			out = append(out, toks[start:i])
			start = i + 1
		}
	}
	out = append(out, toks[start:])
	return out
}

func topLevelColon(toks []token.Token) int {
	depth := 0
	for i, t := range toks {
		depth += depthDelta(t.Type)
		if depth == 0 && t.Type == token.COLON {
			return i
		}
	}
	return -1
}

// ParseProgram parses a full stylesheet: a sequence of top-level
// statements until EOF.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	pos := p.lex.Peek(0).Pos
	prog := ast.NewProgram(pos)
	for {
		p.skipTrivia()
		t := p.lex.Peek(0)
		if t.Type == token.EOF {
			break
		}
		if t.Type == token.RBRACE {
			return nil, cssErrors.New(cssErrors.SyntaxError, t.Pos, "Unexpected \"}\".")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// parseBody parses statements until a matching "}", which it consumes.
// The opening "{" must already have been consumed by the caller.
func (p *Parser) parseBody() ([]ast.Node, error) {
	var body []ast.Node
	for {
		p.skipTrivia()
		t := p.lex.Peek(0)
		if t.Type == token.RBRACE {
			p.lex.Next()
			return body, nil
		}
		if t.Type == token.EOF {
			return nil, cssErrors.New(cssErrors.SyntaxError, t.Pos, "Expected \"}\".")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

// scanHeader consumes raw tokens (trivia included) up to the first
// depth-0 ";" or "{" (consuming that terminator), or up to "}"/EOF
// (leaving it for the caller). This is the classic CSS disambiguation:
// a statement whose header hits "{" first is a rule-set or block
// at-rule; one that hits ";" first is a declaration or bodyless
// at-rule.
func (p *Parser) scanHeader() (toks []token.Token, term token.Type) {
	depth := 0
	for {
		t := p.lex.Peek(0)
		switch t.Type {
		case token.EOF:
			return toks, token.EOF
		case token.SEMI:
			if depth == 0 {
				p.lex.Next()
				return toks, token.SEMI
			}
		case token.LBRACE:
			if depth == 0 {
				p.lex.Next()
				return toks, token.LBRACE
			}
		case token.RBRACE:
			if depth == 0 {
				return toks, token.RBRACE
			}
			depth--
		case token.LPAREN, token.LBRACKET, token.INTERP_BEGIN:
			depth++
		case token.RPAREN, token.RBRACKET, token.INTERP_END:
			depth--
		}
		toks = append(toks, p.lex.Next())
	}
}

// scanToBrace is scanHeader restricted to the "must end in {" case used
// by @if/@each/@for/@while conditions and @media/@supports preludes.
func (p *Parser) scanToBrace() ([]token.Token, error) {
	toks, term := p.scanHeader()
	if term != token.LBRACE {
		return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"{\".")
	}
	return toks, nil
}

// scanUntilKeyword scans like scanHeader but stops (without consuming)
// at the first depth-0 token matching one of stops, used by @for's
// "from <expr> to|through <expr>" grammar.
func (p *Parser) scanUntilKeyword(stops ...token.Type) (toks []token.Token, stop token.Type) {
	depth := 0
	for {
		t := p.lex.Peek(0)
		if depth == 0 {
			for _, s := range stops {
				if t.Type == s {
					return toks, s
				}
			}
		}
		if t.Type == token.EOF {
			return toks, token.EOF
		}
		depth += depthDelta(t.Type)
		toks = append(toks, p.lex.Next())
	}
}

func (p *Parser) collectParenBody() ([]token.Token, error) {
	open := p.lex.Next() // consume "("
	depth := 1
	var toks []token.Token
	for {
		t := p.lex.Peek(0)
		switch t.Type {
		case token.LPAREN, token.LBRACKET, token.INTERP_BEGIN:
			depth++
		case token.RPAREN, token.RBRACKET, token.INTERP_END:
			depth--
			if depth == 0 {
				p.lex.Next()
				return toks, nil
			}
		case token.EOF:
			return nil, cssErrors.New(cssErrors.SyntaxError, open.Pos, "Expected \")\".")
		}
		toks = append(toks, p.lex.Next())
	}
}

// ---------------------------------------------------------------------
// Statement dispatch

func (p *Parser) parseStatement() (ast.Node, error) {
	p.skipTrivia()
	t := p.lex.Peek(0)
	switch t.Type {
	case token.AT_IF:
		return p.parseIf()
	case token.AT_ELSE:
		return nil, cssErrors.New(cssErrors.SyntaxError, t.Pos, "@else without a preceding @if.")
	case token.AT_EACH:
		return p.parseEach()
	case token.AT_FOR:
		return p.parseFor()
	case token.AT_WHILE:
		return p.parseWhile()
	case token.AT_MIXIN:
		return p.parseMixin()
	case token.AT_INCLUDE:
		return p.parseInclude()
	case token.AT_FUNCTION:
		return p.parseFunction()
	case token.AT_RETURN:
		return p.parseReturn()
	case token.AT_AT_ROOT:
		return p.parseAtRoot()
	case token.AT_WARN:
		return p.parseWarn()
	case token.AT_DEBUG:
		return p.parseDebug()
	case token.AT_ERROR:
		return p.parseError()
	case token.AT_CONTENT:
		return p.parseContent()
	case token.AT_CHARSET:
		return p.parseCharset()
	case token.AT_MEDIA:
		return p.parseMediaLike("media")
	case token.AT_SUPPORTS:
		return p.parseMediaLike("supports")
	case token.AT_IMPORT:
		return p.parseImport()
	case token.AT_UNKNOWN:
		return p.parseUnknown()
	case token.VARIABLE:
		return p.parseVarAssign()
	default:
		return p.parseRuleSetOrDeclaration()
	}
}

func (p *Parser) parseIf() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @if
	cond, err := p.scanToBrace()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	branches := []ast.IfBranch{{Cond: cond, Body: body}}
	for {
		p.skipTrivia()
		if p.lex.Peek(0).Type != token.AT_ELSE {
			break
		}
		p.lex.Next() // consume @else
		p.skipTrivia()
		if t := p.lex.Peek(0); t.Type == token.AT_IF || (t.Type == token.IDENT && strings.EqualFold(t.Literal, "if")) {
			p.lex.Next()
			cond2, err := p.scanToBrace()
			if err != nil {
				return nil, err
			}
			body2, err := p.parseBody()
			if err != nil {
				return nil, err
			}
			branches = append(branches, ast.IfBranch{Cond: cond2, Body: body2})
			continue
		}
		if p.lex.Peek(0).Type != token.LBRACE {
			return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"{\".")
		}
		p.lex.Next() // consume "{"
		body2, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		branches = append(branches, ast.IfBranch{Cond: nil, Body: body2})
		break
	}
	n := &ast.If{Branches: branches}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseEach() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @each
	var vars []string
	for {
		p.skipTrivia()
		t := p.lex.Peek(0)
		if t.Type != token.VARIABLE {
			return nil, cssErrors.New(cssErrors.SyntaxError, t.Pos, "Expected variable name.")
		}
		p.lex.Next()
		vars = append(vars, t.Literal)
		p.skipTrivia()
		if p.lex.Peek(0).Type == token.COMMA {
			p.lex.Next()
			continue
		}
		break
	}
	p.skipTrivia()
	if p.lex.Peek(0).Type != token.KEYWORD_IN {
		return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"in\".")
	}
	p.lex.Next()
	expr, err := p.scanToBrace()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.Each{Vars: vars, Expr: expr, Body: body}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseFor() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @for
	p.skipTrivia()
	v := p.lex.Peek(0)
	if v.Type != token.VARIABLE {
		return nil, cssErrors.New(cssErrors.SyntaxError, v.Pos, "Expected variable name.")
	}
	p.lex.Next()
	p.skipTrivia()
	if p.lex.Peek(0).Type != token.KEYWORD_FROM {
		return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"from\".")
	}
	p.lex.Next()
	from, stop := p.scanUntilKeyword(token.KEYWORD_TO, token.KEYWORD_THROUGH)
	if stop != token.KEYWORD_TO && stop != token.KEYWORD_THROUGH {
		return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"to\" or \"through\".")
	}
	through := stop == token.KEYWORD_THROUGH
	p.lex.Next() // consume to/through
	to, err := p.scanToBrace()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.For{Var: v.Literal, From: from, Through: through, To: to, Body: body}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @while
	cond, err := p.scanToBrace()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.While{Cond: cond, Body: body}
	n.Pos = pos
	return n, nil
}

// parseParamList parses a "(" ... ")" formal parameter list: each
// comma-separated group is "$name", "$name: default", or the trailing
// "$name...".
func (p *Parser) parseParamList() ([]ast.Param, error) {
	raw, err := p.collectParenBody()
	if err != nil {
		return nil, err
	}
	var params []ast.Param
	for _, g := range splitTopLevelComma(raw) {
		g = trimTrivia(g)
		if len(g) == 0 {
			continue
		}
		if g[0].Type != token.VARIABLE {
			return nil, cssErrors.New(cssErrors.SyntaxError, g[0].Pos, "Expected parameter name.")
		}
		name := g[0].Literal
		rest := trimTrivia(g[1:])
		variadic := false
		if len(rest) >= 3 && rest[0].Type == token.DOT && rest[1].Type == token.DOT && rest[2].Type == token.DOT {
			variadic = true
			rest = trimTrivia(rest[3:])
		}
		var def []token.Token
		if len(rest) > 0 && rest[0].Type == token.COLON {
			def = trimTrivia(rest[1:])
		}
		params = append(params, ast.Param{Name: name, Default: def, Variadic: variadic})
	}
	return params, nil
}

// parseArgList parses a "(" ... ")" actual argument list at a call
// site: each group is either "$name: expr" (named) or a bare
// expression (positional).
func (p *Parser) parseArgList() ([]ast.Arg, error) {
	raw, err := p.collectParenBody()
	if err != nil {
		return nil, err
	}
	var args []ast.Arg
	for _, g := range splitTopLevelComma(raw) {
		g = trimTrivia(g)
		if len(g) == 0 {
			continue
		}
		if len(g) >= 2 && g[0].Type == token.VARIABLE && g[1].Type == token.COLON {
			args = append(args, ast.Arg{Name: g[0].Literal, Expr: trimTrivia(g[2:])})
			continue
		}
		args = append(args, ast.Arg{Expr: g})
	}
	return args, nil
}

func (p *Parser) parseMixin() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @mixin
	p.skipTrivia()
	nameTok := p.lex.Peek(0)
	if nameTok.Type != token.IDENT {
		return nil, cssErrors.New(cssErrors.SyntaxError, nameTok.Pos, "Expected mixin name.")
	}
	p.lex.Next()
	p.skipTrivia()
	var params []ast.Param
	if p.lex.Peek(0).Type == token.LPAREN {
		var err error
		params, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
	}
	p.skipTrivia()
	if p.lex.Peek(0).Type != token.LBRACE {
		return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"{\".")
	}
	p.lex.Next()
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.Mixin{Name: nameTok.Literal, Params: params, Body: body}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseInclude() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @include
	p.skipTrivia()
	nameTok := p.lex.Peek(0)
	if nameTok.Type != token.IDENT {
		return nil, cssErrors.New(cssErrors.SyntaxError, nameTok.Pos, "Expected mixin name.")
	}
	p.lex.Next()
	p.skipTrivia()
	var args []ast.Arg
	if p.lex.Peek(0).Type == token.LPAREN {
		var err error
		args, err = p.parseArgList()
		if err != nil {
			return nil, err
		}
	}
	p.skipTrivia()
	var using []ast.Param
	if p.lex.Peek(0).Type == token.KEYWORD_USING {
		p.lex.Next()
		p.skipTrivia()
		if p.lex.Peek(0).Type != token.LPAREN {
			return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"(\".")
		}
		var err error
		using, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
		p.skipTrivia()
	}
	var content []ast.Node
	if p.lex.Peek(0).Type == token.LBRACE {
		p.lex.Next()
		var err error
		content, err = p.parseBody()
		if err != nil {
			return nil, err
		}
	} else {
		if p.lex.Peek(0).Type != token.SEMI {
			return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \";\".")
		}
		p.lex.Next()
	}
	n := &ast.Include{Name: nameTok.Literal, Args: args, Using: using, Content: content}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseFunction() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @function
	p.skipTrivia()
	nameTok := p.lex.Peek(0)
	if nameTok.Type != token.IDENT {
		return nil, cssErrors.New(cssErrors.SyntaxError, nameTok.Pos, "Expected function name.")
	}
	p.lex.Next()
	p.skipTrivia()
	var params []ast.Param
	if p.lex.Peek(0).Type == token.LPAREN {
		var err error
		params, err = p.parseParamList()
		if err != nil {
			return nil, err
		}
	}
	p.skipTrivia()
	if p.lex.Peek(0).Type != token.LBRACE {
		return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \"{\".")
	}
	p.lex.Next()
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.Function{Name: nameTok.Literal, Params: params, Body: body}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @return
	toks, _ := p.scanHeader()
	n := &ast.Return{Expr: trimTrivia(toks)}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseAtRoot() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @at-root
	p.skipTrivia()
	var sel []token.Token
	if p.lex.Peek(0).Type == token.LBRACE {
		p.lex.Next()
	} else {
		var err error
		sel, err = p.scanToBrace()
		if err != nil {
			return nil, err
		}
		sel = trimTrivia(sel)
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.AtRoot{Selector: sel, Body: body}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseWarn() (ast.Node, error) {
	pos := p.lex.Next().Pos
	toks, _ := p.scanHeader()
	n := &ast.Warn{Expr: trimTrivia(toks)}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseDebug() (ast.Node, error) {
	pos := p.lex.Next().Pos
	toks, _ := p.scanHeader()
	n := &ast.Debug{Expr: trimTrivia(toks)}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseError() (ast.Node, error) {
	pos := p.lex.Next().Pos
	toks, _ := p.scanHeader()
	n := &ast.Error{Expr: trimTrivia(toks)}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseContent() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @content
	p.skipTrivia()
	var args []ast.Arg
	if p.lex.Peek(0).Type == token.LPAREN {
		var err error
		args, err = p.parseArgList()
		if err != nil {
			return nil, err
		}
		p.skipTrivia()
	}
	if p.lex.Peek(0).Type == token.SEMI {
		p.lex.Next()
	}
	n := &ast.Content{Args: args}
	n.Pos = pos
	return n, nil
}

func extractQuotedText(toks []token.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		if t.Type == token.STRING_CHUNK {
			sb.WriteString(t.Literal)
		}
	}
	return sb.String()
}

func (p *Parser) parseCharset() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @charset
	toks, _ := p.scanHeader()
	n := &ast.Charset{Value: extractQuotedText(toks)}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseImport() (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @import
	toks, _ := p.scanHeader()
	n := &ast.Import{Path: extractQuotedText(toks)}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseMediaLike(keyword string) (ast.Node, error) {
	pos := p.lex.Next().Pos // consume @media/@supports
	prelude, err := p.scanToBrace()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	n := &ast.MediaLike{Keyword: keyword, Prelude: trimTrivia(prelude), Body: body}
	n.Pos = pos
	return n, nil
}

func (p *Parser) parseUnknown() (ast.Node, error) {
	tok := p.lex.Next() // consume AT_UNKNOWN
	prelude, term := p.scanHeader()
	var body []ast.Node
	if term == token.LBRACE {
		var err error
		body, err = p.parseBody()
		if err != nil {
			return nil, err
		}
	}
	n := &ast.Unknown{Name: tok.Literal, Prelude: trimTrivia(prelude), Body: body}
	n.Pos = tok.Pos
	return n, nil
}

// stripTrailingFlags peels off trailing "!default"/"!global" markers
// from a variable assignment's value tokens (spec §4.4), in either
// order, leaving the actual value expression.
func stripTrailingFlags(toks []token.Token) (rest []token.Token, isDefault, isGlobal bool) {
	end := len(toks)
	for {
		e := end
		for e > 0 && isTrivia(toks[e-1].Type) {
			e--
		}
		if e < 2 {
			break
		}
		if toks[e-1].Type == token.IDENT && toks[e-2].Type == token.BANG {
			switch strings.ToLower(toks[e-1].Literal) {
			case "default":
				isDefault = true
				end = e - 2
				continue
			case "global":
				isGlobal = true
				end = e - 2
				continue
			}
		}
		break
	}
	return toks[:end], isDefault, isGlobal
}

func (p *Parser) parseVarAssign() (ast.Node, error) {
	nameTok := p.lex.Next() // consume VARIABLE
	p.skipTrivia()
	if p.lex.Peek(0).Type != token.COLON {
		return nil, cssErrors.New(cssErrors.SyntaxError, p.lex.Peek(0).Pos, "Expected \":\".")
	}
	p.lex.Next()
	toks, _ := p.scanHeader()
	value, isDefault, isGlobal := stripTrailingFlags(trimTrivia(toks))
	n := &ast.VarAssign{Name: nameTok.Literal, Value: value, Default: isDefault, Global: isGlobal}
	n.Pos = nameTok.Pos
	return n, nil
}

// parseRuleSetOrDeclaration disambiguates between a selector block and a
// property declaration by which terminator scanHeader hits first.
func (p *Parser) parseRuleSetOrDeclaration() (ast.Node, error) {
	startPos := p.lex.Peek(0).Pos
	toks, term := p.scanHeader()
	if term == token.LBRACE {
		body, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		n := &ast.RuleSet{Selector: trimTrivia(toks), Body: body}
		n.Pos = startPos
		return n, nil
	}
	idx := topLevelColon(toks)
	if idx < 0 {
		return nil, cssErrors.New(cssErrors.SyntaxError, startPos, "Expected \":\".")
	}
	n := &ast.Declaration{Property: trimTrivia(toks[:idx]), Value: trimTrivia(toks[idx+1:])}
	n.Pos = startPos
	return n, nil
}
