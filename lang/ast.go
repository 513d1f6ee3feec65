package lang

import (
	"iter"

	"github.com/ardnew/tagfilter/log"
)

// AST is a parsed query: an ordered forest of requirements that are
// implicitly AND-ed together.
type AST struct {
	Requirements []*Requirement

	source string     // query text the requirements were sliced from
	opts   optionsKey // configuration options
	logger log.Logger // structured logger (outside optionsKey, doesn't affect cache)
}

// Source returns the query text the AST was parsed from, or "" if the AST
// was parsed from tokens.
func (ast *AST) Source() string { return ast.source }

// Len returns the number of top-level requirements.
func (ast *AST) Len() int { return len(ast.Requirements) }

// All returns an iterator over the top-level requirements.
func (ast *AST) All() iter.Seq[*Requirement] {
	return func(yield func(*Requirement) bool) {
		for _, req := range ast.Requirements {
			if !yield(req) {
				return
			}
		}
	}
}

// Walk returns a depth-first, pre-order iterator over every requirement in
// the forest, paired with its nesting depth (0 for top-level requirements).
func (ast *AST) Walk() iter.Seq2[int, *Requirement] {
	return func(yield func(int, *Requirement) bool) {
		for _, req := range ast.Requirements {
			if !req.walk(0, yield) {
				return
			}
		}
	}
}

func (r *Requirement) walk(depth int, yield func(int, *Requirement) bool) bool {
	if r == nil {
		return true
	}

	if !yield(depth, r) {
		return false
	}

	switch r.Kind {
	case RequirementNot:
		return r.Inner.walk(depth+1, yield)

	case RequirementFnCall:
		for _, p := range r.Params {
			if !p.walk(depth+1, yield) {
				return false
			}
		}
	}

	return true
}

// RequirementKind identifies the variant of a [Requirement].
type RequirementKind int

const (
	// RequirementTag is a tag requirement like "foo".
	RequirementTag RequirementKind = iota

	// RequirementTagExact is a tag requirement like "$foo" that should be
	// matched exactly, without following implications.
	RequirementTagExact

	// RequirementFnCall is a function call like "@fun[param1 param2]".
	RequirementFnCall

	// RequirementNot negates its inner requirement.
	RequirementNot
)

// String returns a string representation of the requirement kind.
func (k RequirementKind) String() string {
	switch k {
	case RequirementTag:
		return "Tag"
	case RequirementTagExact:
		return "TagExact"
	case RequirementFnCall:
		return "FnCall"
	case RequirementNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// Requirement describes one matching condition.
type Requirement struct {
	Kind RequirementKind
	// Exactly one group of these is meaningful, based on Kind
	Name   string         // Tag, TagExact, FnCall
	Params []*Requirement // FnCall
	Inner  *Requirement   // Not
	// Offset is the byte offset in the query text of the token that began
	// the requirement.
	Offset int
}

// NewTag returns a tag requirement.
func NewTag(name string) *Requirement {
	return &Requirement{Kind: RequirementTag, Name: name}
}

// NewTagExact returns an exact tag requirement.
func NewTagExact(name string) *Requirement {
	return &Requirement{Kind: RequirementTagExact, Name: name}
}

// NewFnCall returns a function call requirement with the given parameters.
func NewFnCall(name string, params ...*Requirement) *Requirement {
	if params == nil {
		params = []*Requirement{}
	}

	return &Requirement{Kind: RequirementFnCall, Name: name, Params: params}
}

// NewNot returns the negation of inner.
func NewNot(inner *Requirement) *Requirement {
	return &Requirement{Kind: RequirementNot, Inner: inner}
}

// IsLeaf reports whether r is a tag or exact tag.
func (r *Requirement) IsLeaf() bool {
	return r.Kind == RequirementTag || r.Kind == RequirementTagExact
}

// Equal reports whether r and other describe the same requirement tree.
// Offsets are ignored.
func (r *Requirement) Equal(other *Requirement) bool {
	if r == nil || other == nil {
		return r == other
	}

	if r.Kind != other.Kind || r.Name != other.Name {
		return false
	}

	switch r.Kind {
	case RequirementNot:
		return r.Inner.Equal(other.Inner)

	case RequirementFnCall:
		if len(r.Params) != len(other.Params) {
			return false
		}

		for i := range r.Params {
			if !r.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
	}

	return true
}

// DefaultMaxDepth is the default maximum nesting depth of negations and
// function calls. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// optionsKey holds AST configuration options.
type optionsKey struct {
	maxDepth int
	noCache  bool
}

// Option configures parsing behavior.
type Option func(*AST)

// WithMaxDepth sets the maximum nesting depth of negations and function
// calls. Deeper input fails with [ErrMaxDepthExceeded].
func WithMaxDepth(depth int) Option {
	return func(ast *AST) {
		ast.opts.maxDepth = depth
	}
}

// WithCache controls whether [Parse] may return a shared, cached AST for
// input it has parsed before. Caching is enabled by default.
func WithCache(enable bool) Option {
	return func(ast *AST) {
		ast.opts.noCache = !enable
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(ast *AST) {
		ast.logger = logger
	}
}

// applyDefaults sets default option values on an AST.
func applyDefaults(ast *AST) {
	ast.opts.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to an AST.
func applyOptions(ast *AST, opts ...Option) {
	for _, opt := range opts {
		opt(ast)
	}
}
