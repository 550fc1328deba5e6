package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/cssc/internal/atrule"
	"github.com/cwbudde/cssc/internal/builtins"
	"github.com/cwbudde/cssc/internal/config"
	cssErrors "github.com/cwbudde/cssc/internal/errors"
	"github.com/cwbudde/cssc/internal/inspect"
	"github.com/cwbudde/cssc/internal/parser"
	"github.com/cwbudde/cssc/internal/plaincss"
	"github.com/cwbudde/cssc/internal/printer"
	"github.com/cwbudde/cssc/internal/scope"
	"github.com/cwbudde/cssc/internal/token"
)

var (
	outFile    string
	styleFlag  string
	quietFlag  bool
	loadPaths  []string
	astJSON    bool
	statsFlag  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a stylesheet to CSS",
	Long: `Compile a SCSS-like stylesheet to plain CSS.

If no file is provided, reads from stdin.

Examples:
  # Compile a file, printing CSS to stdout
  cssc compile styles.scss

  # Write the result to a file
  cssc compile styles.scss -o styles.css

  # Emit the flattened rule tree as JSON instead of CSS
  cssc compile styles.scss --ast-json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outFile, "output", "o", "", "write output to this file instead of stdout")
	compileCmd.Flags().StringVar(&styleFlag, "style", "", "output style: expanded or compressed (overrides cssc.yaml)")
	compileCmd.Flags().BoolVar(&quietFlag, "quiet", false, "suppress @warn output (overrides cssc.yaml)")
	compileCmd.Flags().StringArrayVar(&loadPaths, "load-path", nil, "additional load path, recorded in the resolved config (repeatable); @import rules are emitted verbatim and not resolved against it")
	compileCmd.Flags().BoolVar(&astJSON, "ast-json", false, "print the flattened rule tree as JSON instead of CSS")
	compileCmd.Flags().BoolVar(&statsFlag, "stats", false, "print rule/declaration counts to stderr")
}

func loadConfig(cmd *cobra.Command) (*config.Resolved, error) {
	configPath, _ := cmd.Flags().GetString("config")
	file, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var overrides config.Overrides
	if cmd.Flags().Changed("style") {
		s := config.OutputStyle(styleFlag)
		overrides.Style = &s
	}
	if cmd.Flags().Changed("quiet") {
		overrides.Quiet = &quietFlag
	}
	overrides.LoadPaths = loadPaths

	return config.Merge(file, overrides)
}

func runCompile(cmd *cobra.Command, args []string) error {
	var input, filename string
	if len(args) == 1 {
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("reading %s: %w", filename, err)
		}
		input = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		input = string(data)
		filename = "<stdin>"
	}

	opts, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	prog, err := parser.Parse(input)
	if err != nil {
		return reportCompileError(err, input, filename)
	}

	if opts.GetInputSyntax() == config.SyntaxCSS {
		if ce := plaincss.Check(prog, input, builtins.DefaultRegistry.Has); ce != nil {
			return reportCompileError(ce, input, filename)
		}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	engine := atrule.New(atrule.Options{
		Quiet:  opts.GetQuiet(),
		Source: input,
		File:   filename,
		OnWarn: func(msg string, pos token.Position) {
			fmt.Fprintf(os.Stderr, "WARNING: %s: %s\n", pos.String(), msg)
		},
		OnDebug: func(msg string, pos token.Position) {
			fmt.Fprintf(os.Stderr, "DEBUG: %s: %s\n", pos.String(), msg)
		},
	}, builtins.DefaultRegistry)

	nodes, err := engine.Run(prog, scope.New())
	if err != nil {
		return reportCompileError(err, input, filename)
	}

	var output string
	if astJSON {
		output, err = inspect.Flattened(nodes)
		if err != nil {
			return fmt.Errorf("rendering ast-json: %w", err)
		}
	} else {
		p := printer.New(printer.Options{Style: printerStyle(opts.GetStyle())})
		output = p.Print(nodes)
		if statsFlag {
			fmt.Fprintln(os.Stderr, p.CollectStats(nodes).String())
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Compiled %s (%d top-level node(s))\n", filename, len(nodes))
	}

	if outFile != "" {
		return os.WriteFile(outFile, []byte(output+"\n"), 0o644)
	}
	fmt.Println(output)
	return nil
}

// printerStyle maps a config style (already validated by config.Merge)
// onto the printer's enum.
func printerStyle(s config.OutputStyle) printer.Style {
	if s == config.StyleCompressed {
		return printer.StyleCompressed
	}
	return printer.StyleExpanded
}

func reportCompileError(err error, source, filename string) error {
	if ce, ok := err.(*cssErrors.CompilerError); ok {
		ce.Source, ce.File = source, filename
		fmt.Fprintln(os.Stderr, ce.Format(true))
		return fmt.Errorf("compilation failed")
	}
	fmt.Fprintln(os.Stderr, err.Error())
	return fmt.Errorf("compilation failed")
}
