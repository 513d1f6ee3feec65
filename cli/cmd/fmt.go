package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tagfilter/lang"
)

// Fmt reads a query, parses it, and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical query syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// SourceArg names the query file read by the fmt subcommands.
type SourceArg struct {
	Source string `arg:"" default:"-" help:"Query file or '-' for stdin." name:"source"`
}

// parse reads and parses the source query.
func (s SourceArg) parse(ctx context.Context, format string) (*lang.AST, error) {
	r, err := openSource(ctx, s.Source)
	if err != nil {
		return nil, ErrReadQuery.Wrap(err).With(slog.String("source", s.Source))
	}
	defer r.Close()

	ast, err := lang.ParseReader(ctx, r)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("format", format))
	}

	return ast, nil
}

// Native formats a query in canonical syntax.
type Native struct {
	Indent int `default:"0" help:"Indent width; 0 prints the query on one line." short:"i"`

	SourceArg `embed:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	ast, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	return ast.Format(ctx, outputFrom(ctx), f.Indent)
}

// JSON formats a query as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output; 0 is compact." short:"i"`

	SourceArg `embed:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	ast, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return ast.FormatJSON(ctx, outputFrom(ctx), j.Indent)
}

// YAML formats a query as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output." short:"i"`

	SourceArg `embed:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	ast, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return ast.FormatYAML(ctx, outputFrom(ctx), y.Indent)
}

// AST prints a query's abstract syntax tree.
type AST struct {
	SourceArg `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	ast, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return ast.Print(outputFrom(ctx))
}
