// Package token defines the lexical token types produced by the cssc
// lexer and consumed by the evaluator, at-rule engine, and selector
// engine.
package token

import "fmt"

// Type identifies the lexical category of a Token. Constants are grouped
// by category, mirroring the way the pack's interpreters lay out their
// token kinds.
type Type int

const (
	ILLEGAL Type = iota
	EOF
	COMMENT // block comment collapsed to a single NEWLINE; line comments are dropped before reaching here

	// Literals and names
	IDENT    // bare identifier / unquoted string text: foo, -webkit-flex
	NUMBER   // raw digits with optional decimal point: 12, 1.5, .5
	UNIT     // a unit tag; the lexer itself emits a unit after a NUMBER as IDENT (or PERCENT_PUNCT for %) and never produces UNIT
	VARIABLE // $name
	STRING_QUOTE_SINGLE
	STRING_QUOTE_DOUBLE
	STRING_CHUNK // literal text inside a quoted string, between quote markers and/or interpolations

	// Interpolation
	INTERP_BEGIN // #{
	INTERP_END   // }

	// Whitespace, significant because it forms the descendant combinator
	// and separates space-separated lists.
	WHITESPACE
	NEWLINE

	// Punctuation
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COLON    // :
	SEMI     // ;
	COMMA    // ,
	DOT      // .
	HASH     // # (id selector / hex color lead-in, disambiguated by the parser)
	AMP      // & parent selector
	PERCENT_PUNCT
	BANG // !
	AT   // @

	// Combinators / operators
	PLUS  // + adjacent-sibling combinator, unary/binary plus
	MINUS // - general-sibling... no, MINUS is binary/unary minus (sibling combinator is TILDE)
	STAR  // * universal selector / multiply
	SLASH // / descendant combinator never uses slash; division and shorthand separator
	GT    // > child combinator / greater-than
	GE    // >=
	LT    // less-than
	LE    // <=
	EQ    // ==
	NEQ   // !=
	TILDE // ~ sibling combinator

	// Keywords (case-insensitive via golang.org/x/text/cases.Fold at lex time)
	KEYWORD_TRUE
	KEYWORD_FALSE
	KEYWORD_NULL
	KEYWORD_NOT
	KEYWORD_AND
	KEYWORD_OR
	KEYWORD_IN
	KEYWORD_THROUGH
	KEYWORD_TO
	KEYWORD_FROM
	KEYWORD_USING
	KEYWORD_IMPORTANT // !important is lexed as BANG IDENT("important"), recognized by the parser

	// At-rule keywords
	AT_IF
	AT_ELSE
	AT_EACH
	AT_FOR
	AT_WHILE
	AT_MIXIN
	AT_INCLUDE
	AT_FUNCTION
	AT_RETURN
	AT_AT_ROOT
	AT_WARN
	AT_DEBUG
	AT_ERROR
	AT_CONTENT
	AT_CHARSET
	AT_MEDIA
	AT_SUPPORTS
	AT_IMPORT
	AT_UNKNOWN // any @name not in the above set; preserved verbatim per spec §4.4
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", NUMBER: "NUMBER", UNIT: "UNIT", VARIABLE: "VARIABLE",
	STRING_QUOTE_SINGLE: "'", STRING_QUOTE_DOUBLE: `"`, STRING_CHUNK: "STRING_CHUNK",
	INTERP_BEGIN: "#{", INTERP_END: "}",
	WHITESPACE: "WHITESPACE", NEWLINE: "NEWLINE",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")",
	LBRACKET: "[", RBRACKET: "]", COLON: ":", SEMI: ";", COMMA: ",",
	DOT: ".", HASH: "#", AMP: "&", PERCENT_PUNCT: "%", BANG: "!", AT: "@",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", GT: ">", GE: ">=",
	LT: "<", LE: "<=", EQ: "==", NEQ: "!=", TILDE: "~",
	KEYWORD_TRUE: "true", KEYWORD_FALSE: "false", KEYWORD_NULL: "null",
	KEYWORD_NOT: "not", KEYWORD_AND: "and", KEYWORD_OR: "or", KEYWORD_IN: "in",
	KEYWORD_THROUGH: "through", KEYWORD_TO: "to", KEYWORD_FROM: "from",
	KEYWORD_USING: "using", KEYWORD_IMPORTANT: "important",
	AT_IF: "@if", AT_ELSE: "@else", AT_EACH: "@each", AT_FOR: "@for",
	AT_WHILE: "@while", AT_MIXIN: "@mixin", AT_INCLUDE: "@include",
	AT_FUNCTION: "@function", AT_RETURN: "@return", AT_AT_ROOT: "@at-root",
	AT_WARN: "@warn", AT_DEBUG: "@debug", AT_ERROR: "@error",
	AT_CONTENT: "@content", AT_CHARSET: "@charset", AT_MEDIA: "@media",
	AT_SUPPORTS: "@supports", AT_IMPORT: "@import", AT_UNKNOWN: "AT_UNKNOWN",
}

// String returns a human-readable name, used in error messages and the
// `lex` CLI subcommand's token dump.
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// AtRuleKeywords maps the case-folded at-rule name (without the leading
// @) to its token type. The lexer's classifyAtRule looks names up here;
// any name not in the table lexes as AT_UNKNOWN.
var AtRuleKeywords = map[string]Type{
	"if": AT_IF, "else": AT_ELSE, "each": AT_EACH, "for": AT_FOR,
	"while": AT_WHILE, "mixin": AT_MIXIN, "include": AT_INCLUDE,
	"function": AT_FUNCTION, "return": AT_RETURN, "at-root": AT_AT_ROOT,
	"warn": AT_WARN, "debug": AT_DEBUG, "error": AT_ERROR,
	"content": AT_CONTENT, "charset": AT_CHARSET, "media": AT_MEDIA,
	"supports": AT_SUPPORTS, "import": AT_IMPORT,
}

// Keywords maps a case-folded bare identifier to its reserved-keyword
// token type. Any identifier not in this table is a plain IDENT
// (unquoted string), per spec §4.3.
var Keywords = map[string]Type{
	"true": KEYWORD_TRUE, "false": KEYWORD_FALSE, "null": KEYWORD_NULL,
	"not": KEYWORD_NOT, "and": KEYWORD_AND, "or": KEYWORD_OR, "in": KEYWORD_IN,
	"through": KEYWORD_THROUGH, "to": KEYWORD_TO, "from": KEYWORD_FROM,
	"using": KEYWORD_USING,
}

// Position is a 1-indexed line/column source location, shared by every
// token, AST node, and runtime Value so errors can always be reported
// with context.
type Position struct {
	Line   int
	Column int
	Offset int // byte offset into the source, used for slicing verbatim spans (e.g. calc() passthrough)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit: a kind, its literal text, and its
// starting position.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Literal, t.Pos)
}
