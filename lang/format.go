package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// String returns the requirement in canonical query syntax. Parsing the
// result yields an equal requirement.
func (r *Requirement) String() string {
	var sb strings.Builder

	r.writeQuery(&sb)

	return sb.String()
}

func (r *Requirement) writeQuery(sb *strings.Builder) {
	if r == nil {
		return
	}

	switch r.Kind {
	case RequirementTag:
		sb.WriteString(r.Name)

	case RequirementTagExact:
		sb.WriteByte('$')
		sb.WriteString(r.Name)

	case RequirementNot:
		sb.WriteByte('!')
		r.Inner.writeQuery(sb)

	case RequirementFnCall:
		sb.WriteByte('@')
		sb.WriteString(r.Name)

		if len(r.Params) == 0 {
			return
		}

		sb.WriteByte('[')

		for i, p := range r.Params {
			if i > 0 {
				sb.WriteByte(' ')
			}

			p.writeQuery(sb)
		}

		sb.WriteByte(']')
	}
}

// String returns the forest in canonical query syntax with top-level
// requirements separated by a single space.
func (ast *AST) String() string {
	var sb strings.Builder

	for i, req := range ast.Requirements {
		if i > 0 {
			sb.WriteByte(' ')
		}

		req.writeQuery(&sb)
	}

	return sb.String()
}

// Format writes the AST in native query syntax to the writer.
//
// With indent 0 the query is written on one line. Otherwise each top-level
// requirement starts a new line and every parameter of a function call is
// written on its own line, indented by indent spaces per level.
func (ast *AST) Format(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		_, err := fmt.Fprintln(w, ast.String())

		return err
	}

	var sb strings.Builder

	for _, req := range ast.Requirements {
		formatRequirement(&sb, req, strings.Repeat(" ", indent), 0)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// formatRequirement writes r in multi-line native syntax.
func formatRequirement(sb *strings.Builder, r *Requirement, unit string, depth int) {
	prefix := strings.Repeat(unit, depth)

	// Leaves, negated leaves, and calls without parameters stay on one line.
	if !r.hasParams() {
		sb.WriteString(prefix)
		r.writeQuery(sb)

		return
	}

	sb.WriteString(prefix)

	for r.Kind == RequirementNot {
		sb.WriteByte('!')
		r = r.Inner
	}

	sb.WriteByte('@')
	sb.WriteString(r.Name)
	sb.WriteString("[\n")

	for _, p := range r.Params {
		formatRequirement(sb, p, unit, depth+1)
		sb.WriteByte('\n')
	}

	sb.WriteString(prefix)
	sb.WriteByte(']')
}

// hasParams reports whether r, after stripping negations, is a function call
// with at least one parameter.
func (r *Requirement) hasParams() bool {
	for r != nil && r.Kind == RequirementNot {
		r = r.Inner
	}

	return r != nil && r.Kind == RequirementFnCall && len(r.Params) > 0
}

// FormatJSON writes the AST as JSON to the writer.
func (ast *AST) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ast, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ast)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the AST as YAML to the writer.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ast.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Print writes an indented tree representation of the AST to the writer.
func (ast *AST) Print(w io.Writer) error {
	var sb strings.Builder

	for depth, req := range ast.Walk() {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(req.Kind.String())

		if req.Kind != RequirementNot {
			sb.WriteString(": ")
			sb.WriteString(req.Name)
		}

		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
