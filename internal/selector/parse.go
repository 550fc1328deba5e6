package selector

import (
	"fmt"
	"strings"
)

// ParseError is a syntax error encountered while parsing a selector list.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Parse splits raw selector text on unbracketed commas into complex
// selectors, then on whitespace and combinator punctuation into
// alternating compound/combinator sequences (spec §4.5).
//
// Interpolated segments (#{...}) are expected to have already been
// evaluated and substituted into plain text by the caller (the at-rule
// engine resolves `#{$x}` inside a selector prelude before handing the
// result here), so this parser only ever sees literal selector syntax
// plus the literal `&` parent-selector marker.
func Parse(text string) (*List, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ParseError{Message: "expected selector, found nothing"}
	}

	var complexes []*Complex
	for _, part := range splitUnbracketed(text, ',') {
		part = strings.TrimSpace(part)
		lineBreak := strings.Contains(part, "\n")
		cplx, err := parseComplex(part)
		if err != nil {
			return nil, err
		}
		cplx.LineBreak = lineBreak
		complexes = append(complexes, cplx)
	}
	if len(complexes) == 0 {
		return nil, &ParseError{Message: "expected selector, found nothing"}
	}
	return &List{Complexes: complexes}, nil
}

// splitUnbracketed splits s on sep, ignoring occurrences inside (), [],
// or quoted strings.
func splitUnbracketed(s string, sep byte) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// parseComplex parses one comma-free selector into a Complex: alternating
// compounds and combinators, rejecting a leading or trailing combinator
// (spec §4.5).
func parseComplex(s string) (*Complex, error) {
	tokens := tokenizeCombinatorAware(s)
	if len(tokens) == 0 {
		return nil, &ParseError{Message: "expected selector, found nothing"}
	}

	c := &Complex{}
	expectCompound := true
	for _, tok := range tokens {
		if comb, ok := combinatorGlyph(tok); ok {
			if expectCompound {
				return nil, &ParseError{Message: fmt.Sprintf("leading or doubled combinator %q is invalid", tok)}
			}
			c.Combinators = append(c.Combinators, comb)
			expectCompound = true
			continue
		}
		cp, err := parseCompound(tok)
		if err != nil {
			return nil, err
		}
		if !expectCompound {
			// Two compounds with no glyph between them were separated by
			// whitespace: the descendant combinator.
			c.Combinators = append(c.Combinators, Descendant)
		}
		c.Compounds = append(c.Compounds, cp)
		expectCompound = false
	}
	if expectCompound {
		return nil, &ParseError{Message: "trailing combinator is invalid"}
	}
	return c, nil
}

func combinatorGlyph(tok string) (Combinator, bool) {
	switch tok {
	case ">":
		return Child, true
	case "~":
		return Sibling, true
	case "+":
		return Adjacent, true
	}
	return 0, false
}

// tokenizeCombinatorAware splits selector text into compound chunks and
// standalone combinator glyphs, using whitespace as the descendant
// combinator (significant whitespace per spec §4.1).
func tokenizeCombinatorAware(s string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	var quote byte
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case quote != 0:
			cur.WriteRune(c)
			if byte(c) == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = byte(c)
			cur.WriteRune(c)
		case c == '(' || c == '[':
			depth++
			cur.WriteRune(c)
		case c == ')' || c == ']':
			depth--
			cur.WriteRune(c)
		case depth > 0:
			cur.WriteRune(c)
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		case c == '>' || c == '~' || c == '+':
			flush()
			out = append(out, string(c))
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return out
}

// parseCompound parses one compound-selector chunk (no whitespace, no
// top-level combinator) into its Simple sequence.
func parseCompound(s string) (Compound, error) {
	var simples []Simple
	i := 0
	for i < len(s) {
		switch s[i] {
		case '&':
			suffix := ""
			j := i + 1
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			suffix = s[i+1 : j]
			simples = append(simples, Simple{Kind: Parent, Suffix: suffix})
			i = j
		case '.':
			j := i + 1
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			simples = append(simples, Simple{Kind: Class, Name: s[i+1 : j]})
			i = j
		case '#':
			j := i + 1
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			simples = append(simples, Simple{Kind: Id, Name: s[i+1 : j]})
			i = j
		case '%':
			j := i + 1
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			simples = append(simples, Simple{Kind: Placeholder, Name: s[i+1 : j]})
			i = j
		case '*':
			simples = append(simples, Simple{Kind: Universal})
			i++
		case '[':
			end := matchBracket(s, i, '[', ']')
			if end < 0 {
				return Compound{}, &ParseError{Message: "unterminated attribute selector"}
			}
			simples = append(simples, parseAttribute(s[i+1:end]))
			i = end + 1
		case ':':
			isElement := false
			j := i + 1
			if j < len(s) && s[j] == ':' {
				isElement = true
				j++
			}
			start := j
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			name := s[start:j]
			arg := ""
			if j < len(s) && s[j] == '(' {
				end := matchBracket(s, j, '(', ')')
				if end < 0 {
					return Compound{}, &ParseError{Message: "unterminated pseudo-class argument"}
				}
				arg = s[j+1 : end]
				j = end + 1
			}
			simples = append(simples, Simple{Kind: Pseudo, Name: name, IsElement: isElement, Arg: arg})
			i = j
		default:
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			if j == i {
				return Compound{}, &ParseError{Message: fmt.Sprintf("unexpected character %q in selector", s[i])}
			}
			simples = append(simples, Simple{Kind: Type, Name: s[i:j]})
			i = j
		}
	}
	if len(simples) == 0 {
		return Compound{}, &ParseError{Message: "expected selector, found nothing"}
	}
	return Compound{Simples: simples}, nil
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' || b == '\\' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b >= 0x80
}

func matchBracket(s string, start int, open, close byte) int {
	depth := 0
	for i := start; i < len(s); i++ {
		if s[i] == open {
			depth++
		} else if s[i] == close {
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseAttribute(inner string) Simple {
	matchers := []string{"~=", "|=", "^=", "$=", "*=", "="}
	for _, m := range matchers {
		if idx := strings.Index(inner, m); idx >= 0 {
			name := strings.TrimSpace(inner[:idx])
			rest := strings.TrimSpace(inner[idx+len(m):])
			caseInsens := false
			if strings.HasSuffix(rest, " i") || strings.HasSuffix(rest, " I") {
				caseInsens = true
				rest = strings.TrimSpace(rest[:len(rest)-2])
			}
			rest = strings.Trim(rest, `"'`)
			return Simple{Kind: Attribute, AttrName: name, Matcher: m, AttrValue: rest, CaseInsens: caseInsens}
		}
	}
	return Simple{Kind: Attribute, AttrName: strings.TrimSpace(inner)}
}
