package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cssc/internal/ast"
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/parser"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a stylesheet and display its statement tree",
	Long: `Parse a stylesheet into its statement tree and print a summary of
each top-level statement. Useful for debugging the parser.

If no file is provided, reads from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse inline source instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(parseExpr, args)
	if err != nil {
		return err
	}

	prog, err := parser.Parse(input)
	if err != nil {
		if ce, ok := err.(*cssErrors.CompilerError); ok {
			ce.Source, ce.File = input, filename
			fmt.Fprintln(os.Stderr, ce.Format(true))
			return fmt.Errorf("parse failed")
		}
		return err
	}

	for i, stmt := range prog.Statements {
		fmt.Printf("%3d: %s @%d:%d\n", i, describeStatement(stmt), stmt.Position().Line, stmt.Position().Column)
	}
	return nil
}

func describeStatement(n ast.Node) string {
	switch n.(type) {
	case *ast.RuleSet:
		return "RuleSet"
	case *ast.Declaration:
		return "Declaration"
	case *ast.VarAssign:
		return "VarAssign"
	case *ast.If:
		return "If"
	case *ast.Each:
		return "Each"
	case *ast.For:
		return "For"
	case *ast.While:
		return "While"
	case *ast.Mixin:
		return "Mixin"
	case *ast.Include:
		return "Include"
	case *ast.Function:
		return "Function"
	case *ast.Return:
		return "Return"
	case *ast.AtRoot:
		return "AtRoot"
	case *ast.Warn:
		return "Warn"
	case *ast.Debug:
		return "Debug"
	case *ast.Error:
		return "Error"
	case *ast.Content:
		return "Content"
	case *ast.Charset:
		return "Charset"
	case *ast.MediaLike:
		return "MediaLike"
	case *ast.Unknown:
		return "Unknown"
	case *ast.Import:
		return "Import"
	default:
		return "?"
	}
}
