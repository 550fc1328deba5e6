// Package config loads and merges cssc's project configuration: a
// cssc.yaml file (via goccy/go-yaml) and any overriding CLI flags, into
// one Options value. It is kept at the bottom of the dependency graph —
// it imports nothing from the rest of cssc — and exposes Options as an
// interface for the same reason the teacher's internal/interp/options.go
// does: internal/evaluator and internal/atrule need to read configuration
// without importing internal/config, which would otherwise create an
// import cycle once cmd/cssc wires config back into those packages.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// InputSyntax selects which dialect the lexer/parser accept (spec §6).
type InputSyntax string

const (
	SyntaxSCSS InputSyntax = "scss"
	SyntaxCSS  InputSyntax = "css"
)

// OutputStyle selects the printer's rendering mode (spec §6's `style`:
// expanded or compressed).
type OutputStyle string

const (
	StyleExpanded   OutputStyle = "expanded"
	StyleCompressed OutputStyle = "compressed"
)

// Options is the interface internal/evaluator and internal/atrule consume.
// File carries concrete configuration, Overrides layers CLI flags on top.
type Options interface {
	GetInputSyntax() InputSyntax
	GetQuiet() bool
	GetLoadPaths() []string
	GetStyle() OutputStyle
}

// File is cssc.yaml's shape: style, input_syntax, quiet, load_paths
// (spec §6's External Interfaces, unchanged in meaning).
type File struct {
	Style       OutputStyle `yaml:"style"`
	InputSyntax InputSyntax `yaml:"input_syntax"`
	Quiet       bool        `yaml:"quiet"`
	LoadPaths   []string    `yaml:"load_paths"`
}

// Load reads and parses a cssc.yaml file at path. A missing file is not
// an error: it yields the zero File, which Merge fills with defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// Overrides holds CLI flag values that, when set, take precedence over
// the loaded File (cmd/cssc/cmd/compile.go populates this from cobra
// flags; a nil pointer field means "flag not passed").
type Overrides struct {
	Style       *OutputStyle
	InputSyntax *InputSyntax
	Quiet       *bool
	LoadPaths   []string
}

// Resolved merges a File with Overrides and fills in defaults, producing
// the concrete Options implementation used everywhere downstream.
type Resolved struct {
	Style       OutputStyle
	InputSyntax InputSyntax
	Quiet       bool
	LoadPaths   []string
}

// Merge layers Overrides on top of a loaded File and fills in defaults.
// A style or input_syntax value outside the recognized set is an error,
// never a silent fallback — a typo in cssc.yaml must not quietly produce
// expanded output.
func Merge(f *File, o Overrides) (*Resolved, error) {
	r := &Resolved{
		Style:       f.Style,
		InputSyntax: f.InputSyntax,
		Quiet:       f.Quiet,
		LoadPaths:   f.LoadPaths,
	}
	if r.Style == "" {
		r.Style = StyleExpanded
	}
	if r.InputSyntax == "" {
		r.InputSyntax = SyntaxSCSS
	}
	if o.Style != nil {
		r.Style = *o.Style
	}
	if o.InputSyntax != nil {
		r.InputSyntax = *o.InputSyntax
	}
	if o.Quiet != nil {
		r.Quiet = *o.Quiet
	}
	if len(o.LoadPaths) > 0 {
		r.LoadPaths = append(append([]string{}, r.LoadPaths...), o.LoadPaths...)
	}
	if r.Style != StyleExpanded && r.Style != StyleCompressed {
		return nil, fmt.Errorf("unknown style %q (expected %q or %q)", r.Style, StyleExpanded, StyleCompressed)
	}
	if r.InputSyntax != SyntaxSCSS && r.InputSyntax != SyntaxCSS {
		return nil, fmt.Errorf("unknown input_syntax %q (expected %q or %q)", r.InputSyntax, SyntaxSCSS, SyntaxCSS)
	}
	return r, nil
}

func (r *Resolved) GetInputSyntax() InputSyntax { return r.InputSyntax }
func (r *Resolved) GetQuiet() bool              { return r.Quiet }
func (r *Resolved) GetLoadPaths() []string      { return r.LoadPaths }
func (r *Resolved) GetStyle() OutputStyle       { return r.Style }
