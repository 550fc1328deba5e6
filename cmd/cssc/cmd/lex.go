package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cssc/internal/lexer"
	"github.com/cwbudde/cssc/internal/token"
)

var (
	lexShowPos  bool
	lexExpr     string
	onlyIllegal bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a stylesheet and print the resulting tokens",
	Long: `Tokenize (lex) a stylesheet and print the resulting tokens.

This command is useful for debugging the lexer and understanding how
source is split into tokens.

Examples:
  # Tokenize a file
  cssc lex styles.scss

  # Tokenize an inline snippet
  cssc lex -e ".foo { color: $c; }"

  # Show token positions
  cssc lex --show-pos styles.scss`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize inline source instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&onlyIllegal, "only-errors", false, "show only illegal tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, _, err := readInput(lexExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	count, illegal := 0, 0
	for {
		t := l.Next()
		if t.Type == token.EOF {
			break
		}
		if t.Type == token.ILLEGAL {
			illegal++
		}
		if onlyIllegal && t.Type != token.ILLEGAL {
			count++
			continue
		}
		printLexToken(t)
		count++
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Total tokens: %d, illegal: %d\n", count, illegal)
	}
	if onlyIllegal && illegal > 0 {
		return fmt.Errorf("found %d illegal token(s)", illegal)
	}
	return nil
}

func printLexToken(t token.Token) {
	out := fmt.Sprintf("[%-14s] %q", t.Type.String(), t.Literal)
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", t.Pos.Line, t.Pos.Column)
	}
	fmt.Println(out)
}

func readInput(expr string, args []string) (input, filename string, err error) {
	if expr != "" {
		return expr, "<eval>", nil
	}
	if len(args) == 1 {
		data, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], rerr)
		}
		return string(data), args[0], nil
	}
	data, rerr := io.ReadAll(os.Stdin)
	if rerr != nil {
		return "", "", fmt.Errorf("reading stdin: %w", rerr)
	}
	return string(data), "<stdin>", nil
}
