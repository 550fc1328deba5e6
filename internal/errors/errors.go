// Package errors implements the compiler's diagnostic type: a source
// position, a message, and a two-line source preview with a caret,
// adapted from the teacher's internal/errors package (spec §7).
package errors

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/cwbudde/cssc/internal/token"
)

// Kind identifies one of spec §7's fixed error categories.
type Kind string

const (
	SyntaxError Kind = "SyntaxError"
	TypeError   Kind = "TypeError"
	UnitError   Kind = "UnitError"
	ArityError  Kind = "ArityError"
	NameError   Kind = "NameError"
	IndexError  Kind = "IndexError"
	ParentError Kind = "ParentError"
	UserError   Kind = "UserError"
	ModeError   Kind = "ModeError"
)

// CompilerError is a single compilation error with position and source
// context, formatted the way the teacher's CompilerError is.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
}

func New(kind Kind, pos token.Position, format string, args ...any) *CompilerError {
	return &CompilerError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error with a file/position header, a two-line
// source preview, and a caret pointing at the column (spec §7). If color
// is true, ANSI codes highlight the caret.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+caretOffset(line, e.Pos.Column)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	if e.Kind != "" {
		sb.WriteString(string(e.Kind))
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// caretOffset measures the on-screen column of a 1-indexed rune column,
// doubling fullwidth runes so the caret lands under the right character
// (width.LookupRune, promoted from the teacher's indirect x/text dep).
func caretOffset(line string, column int) int {
	offset := 0
	runes := []rune(line)
	for i := 0; i < column-1 && i < len(runes); i++ {
		p := width.LookupRune(runes[i])
		switch p.Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			offset += 2
		default:
			offset++
		}
	}
	return offset
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
