package evaluator

import (
	"strings"

	"github.com/cwbudde/cssc/internal/token"
	"github.com/cwbudde/cssc/internal/value"
)

// RenderInterpolated reconstructs the verbatim source text of toks,
// evaluating any #{...} interpolation boundaries and splicing in their
// unquoted string form (spec §9: "Interpolation inside identifiers is a
// token-level construct that produces one identifier after evaluation").
// Used by the at-rule engine for selector preludes, declaration property
// names, and @media/@supports/unknown at-rule preludes — every position
// the spec describes as "preserved verbatim apart from evaluated
// interpolation".
func RenderInterpolated(e *Evaluator, toks []token.Token) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Type == token.INTERP_BEGIN {
			depth := 1
			j := i + 1
			for j < len(toks) && depth > 0 {
				switch toks[j].Type {
				case token.INTERP_BEGIN:
					depth++
				case token.INTERP_END:
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			v, err := e.Eval(toks[i+1 : j])
			if err != nil {
				return "", err
			}
			sb.WriteString(unquotedText(v))
			i = j + 1
			continue
		}
		sb.WriteString(t.Literal)
		i++
	}
	return sb.String(), nil
}

// unquotedText renders v the way an interpolation splices it into
// surrounding text: a quoted String contributes its bare text, not its
// quote marks.
func unquotedText(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return s.Text
	}
	return v.String()
}
