package filter

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/tagfilter/lang"
	"github.com/ardnew/tagfilter/log"
)

// Function names recognized in queries.
const (
	FuncAny      = "any"
	FuncAll      = "all"
	FuncFile     = "file"
	FuncNoTags   = "notags"
	FuncUntagged = "untagged"
)

// Functions returns the names of all recognized functions.
func Functions() []string {
	return []string{FuncAll, FuncAny, FuncFile, FuncNoTags, FuncUntagged}
}

// Env is the environment a compiled query is evaluated in.
type Env struct {
	File string
	Tags []string

	// Names holds the tag names of the query. The compiled expression refers
	// to them by index, so names are compared byte for byte.
	Names []string

	implied map[string]bool
}

// NewEnv returns the environment for an item whose tags imply the closure
// given. A nil closure means the item's tags imply nothing else.
func NewEnv(item Item, closure map[string]bool) Env {
	if closure == nil {
		closure = make(map[string]bool, len(item.Tags))
		for _, tag := range item.Tags {
			closure[tag] = true
		}
	}

	return Env{File: item.File, Tags: item.Tags, implied: closure}
}

// Has reports whether the item carries tag directly or by implication.
func (e Env) Has(tag string) bool { return e.implied[tag] }

// Exact reports whether the item carries tag directly.
func (e Env) Exact(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// Program is a compiled query.
type Program struct {
	query   string
	source  string
	names   []string
	program *vm.Program
}

// Query returns the canonical text of the compiled query.
func (p *Program) Query() string { return p.query }

// Source returns the expression the query was translated to. Tag names
// appear as indexes into [Program.Names].
func (p *Program) Source() string { return p.source }

// Names returns the tag names referenced by [Program.Source].
func (p *Program) Names() []string { return slices.Clone(p.names) }

// Match reports whether item satisfies the query, ignoring implications.
func (p *Program) Match(item Item) (bool, error) {
	return p.Eval(NewEnv(item, nil))
}

// Eval runs the program in env. The query's tag names replace env.Names.
func (p *Program) Eval(env Env) (bool, error) {
	env.Names = p.names

	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, ErrEvaluate.Wrap(err).With(slog.String("query", p.query))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Option configures compilation and querying.
type Option func(*options)

type options struct {
	logger  log.Logger
	noCache bool
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCache controls whether [CompileQuery] may share programs compiled
// from the same query text. Caching is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) { o.noCache = !enable }
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Compile translates a parsed query into a boolean program.
func Compile(ctx context.Context, ast *lang.AST, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	var t translator

	if err := t.forest(ast.Requirements); err != nil {
		return nil, err
	}

	source := t.sb.String()

	program, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("source", source))
	}

	o.logger.TraceContext(ctx, "query compiled",
		slog.String("query", ast.String()),
		slog.String("source", source),
		slog.Int("names", len(t.names)))

	return &Program{
		query:   ast.String(),
		source:  source,
		names:   t.names,
		program: program,
	}, nil
}

// translator writes the expression for a requirement tree.
type translator struct {
	sb    strings.Builder
	names []string
	index map[string]int
}

// name writes a reference to tag name n, adding it to the name table.
func (t *translator) name(n string) {
	i, ok := t.index[n]
	if !ok {
		if t.index == nil {
			t.index = make(map[string]int)
		}

		i = len(t.names)
		t.index[n] = i
		t.names = append(t.names, n)
	}

	t.sb.WriteString("Names[")
	t.sb.WriteString(strconv.Itoa(i))
	t.sb.WriteByte(']')
}

// forest writes the conjunction of reqs.
func (t *translator) forest(reqs []*lang.Requirement) error {
	return t.join(reqs, " and ", "true")
}

// join writes reqs joined by op, or empty if there are none.
func (t *translator) join(reqs []*lang.Requirement, op, empty string) error {
	if len(reqs) == 0 {
		t.sb.WriteString(empty)

		return nil
	}

	t.sb.WriteByte('(')

	for i, req := range reqs {
		if i > 0 {
			t.sb.WriteString(op)
		}

		if err := t.requirement(req); err != nil {
			return err
		}
	}

	t.sb.WriteByte(')')

	return nil
}

func (t *translator) requirement(req *lang.Requirement) error {
	switch req.Kind {
	case lang.RequirementTag:
		t.sb.WriteString("Has(")
		t.name(req.Name)
		t.sb.WriteByte(')')

	case lang.RequirementTagExact:
		t.sb.WriteString("Exact(")
		t.name(req.Name)
		t.sb.WriteByte(')')

	case lang.RequirementNot:
		t.sb.WriteString("not (")

		if err := t.requirement(req.Inner); err != nil {
			return err
		}

		t.sb.WriteByte(')')

	case lang.RequirementFnCall:
		return t.call(req)

	default:
		return lang.ErrInvalidRequirement.
			With(slog.String("kind", req.Kind.String()))
	}

	return nil
}

func (t *translator) call(call *lang.Requirement) error {
	switch call.Name {
	case FuncAny:
		return t.join(call.Params, " or ", "false")

	case FuncAll:
		return t.join(call.Params, " and ", "true")

	case FuncFile:
		if len(call.Params) == 0 || call.Params[0].Kind != lang.RequirementTag {
			t.sb.WriteString("false")

			return nil
		}

		t.sb.WriteString("(File contains ")
		t.name(call.Params[0].Name)
		t.sb.WriteByte(')')

	case FuncNoTags, FuncUntagged:
		t.sb.WriteString("(len(Tags) == 0)")

	default:
		return ErrUnknownFunction.With(
			slog.String("name", call.Name),
			slog.Int("offset", call.Offset),
		)
	}

	return nil
}
