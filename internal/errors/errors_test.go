package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/cssc/internal/token"
)

func TestCompilerErrorFormat(t *testing.T) {
	tests := []struct {
		name        string
		err         *CompilerError
		wantContain []string
	}{
		{
			name: "with file",
			err: &CompilerError{
				Kind:    TypeError,
				Message: "incompatible units",
				Source:  "width: 1px + 1em;",
				File:    "style.scss",
				Pos:     token.Position{Line: 1, Column: 8},
			},
			wantContain: []string{
				"Error in style.scss:1:8",
				"   1 | width: 1px + 1em;",
				"^",
				"TypeError: incompatible units",
			},
		},
		{
			name: "without file",
			err: &CompilerError{
				Kind:    NameError,
				Message: "undefined variable $x",
				Source:  "a\nb\n$x;\nc",
				Pos:     token.Position{Line: 3, Column: 1},
			},
			wantContain: []string{
				"Error at 3:1",
				"   3 | $x;",
				"NameError: undefined variable $x",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(false)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestCompilerErrorFormatColor(t *testing.T) {
	err := &CompilerError{Kind: SyntaxError, Message: "unexpected token", Source: "a { b }", Pos: token.Position{Line: 1, Column: 1}}
	got := err.Format(true)
	if !strings.Contains(got, "\033[1;31m") || !strings.Contains(got, "\033[0m") {
		t.Errorf("Format(true) should wrap the caret and message in ANSI codes, got %q", got)
	}
}

func TestCompilerErrorFormatOutOfRangeLine(t *testing.T) {
	// A position past the end of the source should fall back to the
	// header-only rendering rather than panic.
	err := &CompilerError{Kind: SyntaxError, Message: "boom", Source: "one line only", Pos: token.Position{Line: 99, Column: 1}}
	got := err.Format(false)
	if !strings.Contains(got, "boom") {
		t.Errorf("expected the message to still render, got %q", got)
	}
	if strings.Contains(got, "|") {
		t.Errorf("no source preview should be printed for an out-of-range line, got %q", got)
	}
}

func TestCaretOffsetWidensFullwidthRunes(t *testing.T) {
	narrow := caretOffset("abcdef", 4)
	if narrow != 3 {
		t.Errorf("caretOffset over ASCII should be column-1, got %d", narrow)
	}
	wide := caretOffset("日本語abc", 4)
	if wide != 6 {
		t.Errorf("caretOffset should double each fullwidth rune, got %d, want 6", wide)
	}
}

func TestErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = New(UserError, token.Position{Line: 1, Column: 1}, "custom: %s", "oops")
	if !strings.Contains(err.Error(), "custom: oops") {
		t.Errorf("Error() should include the formatted message, got %q", err.Error())
	}
}
