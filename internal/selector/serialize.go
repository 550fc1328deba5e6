package selector

import "strings"

// Serialize renders a selector list as comma-separated complex selectors.
// Each complex prints its compounds separated by combinator spacing
// (descendant = single space; others = " X " with X the combinator
// glyph). LineBreak becomes a newline after the comma (spec §4.5, §6).
func Serialize(list *List) string {
	var sb strings.Builder
	for i, c := range list.Complexes {
		if i > 0 {
			sb.WriteString(",")
			if c.LineBreak {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
