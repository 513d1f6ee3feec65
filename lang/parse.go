package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// Parse tokenizes and parses query text.
//
// The result is cached for efficient repeated parsing of the same query
// unless caching is disabled with [WithCache]. Cached results are shared and
// must not be modified.
func Parse(ctx context.Context, input string, opts ...Option) (*AST, error) {
	var tempAST AST

	applyDefaults(&tempAST)
	applyOptions(&tempAST, opts...)

	tempAST.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(input)),
		slog.Bool("cache", !tempAST.opts.noCache),
	)

	if tempAST.opts.noCache {
		return parse(ctx, input, opts...)
	}

	return parseCached(ctx, input, opts...)
}

// ParseReader reads all query text from r and parses it.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	// Wrap reader with async read-ahead so reads overlap with buffering.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, string(data), opts...)
}

// parse parses input without consulting the cache.
func parse(ctx context.Context, input string, opts ...Option) (*AST, error) {
	ast, err := ParseTokens(ctx, Tokenize(input), opts...)
	if err != nil {
		// Attach the source input for better error messages
		pe := &ParseError{}
		if errors.As(err, &pe) {
			pe.Source = input
			if pe.Reason == ReasonUnexpectedEnd {
				pe.Offset = len(input)
			}
		}

		return nil, err
	}

	ast.source = input

	return ast, nil
}

// ParseTokens parses a token sequence into an AST.
//
// It consumes every token and returns either the complete forest or the
// first error encountered; no partial result is produced. Errors are of type
// *[ParseError].
func ParseTokens(
	ctx context.Context,
	tokens []Token,
	opts ...Option,
) (*AST, error) {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	p := &parser{
		tokens:   tokens,
		maxDepth: ast.opts.maxDepth,
		end:      endOffset(tokens),
	}

	reqs := make([]*Requirement, 0)

	for p.more() {
		req, err := p.parseRequirement()
		if err != nil {
			ast.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

			return nil, err
		}

		reqs = append(reqs, req)
	}

	ast.Requirements = reqs

	ast.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("requirement_count", len(reqs)))

	return ast, nil
}

// endOffset returns the offset just past the last token.
func endOffset(tokens []Token) int {
	if len(tokens) == 0 {
		return 0
	}

	last := tokens[len(tokens)-1]

	return last.Offset + len(last.Literal())
}

// parser holds the parser state.
type parser struct {
	tokens   []Token
	pos      int
	depth    int // enclosing negations and parameter lists
	maxDepth int
	end      int // offset reported for errors at end of input
}

// parseRequirement parses: '!' Requirement | FunIdent FnTail | Tag | TagExact.
func (p *parser) parseRequirement() (*Requirement, error) {
	tok, ok := p.next()
	if !ok {
		return nil, newParseError(ReasonUnexpectedEnd, nil, p.end)
	}

	switch tok.Kind {
	case TokenTag:
		return &Requirement{Kind: RequirementTag, Name: tok.Text, Offset: tok.Offset}, nil

	case TokenTagExact:
		return &Requirement{Kind: RequirementTagExact, Name: tok.Text, Offset: tok.Offset}, nil

	case TokenFunIdent:
		return p.parseFnCall(tok)

	case TokenNot:
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.parseRequirement()
		if err != nil {
			return nil, err
		}

		return &Requirement{Kind: RequirementNot, Inner: inner, Offset: tok.Offset}, nil

	default: // TokenLBracket, TokenRBracket
		return nil, newParseError(ReasonUnexpectedToken, &tok, tok.Offset)
	}
}

// parseFnCall parses the optional parameter list following a function
// identifier: '[' Requirement* ']' | ε.
func (p *parser) parseFnCall(name Token) (*Requirement, error) {
	call := &Requirement{
		Kind:   RequirementFnCall,
		Name:   name.Text,
		Params: []*Requirement{},
		Offset: name.Offset,
	}

	open, ok := p.peek()
	if !ok || open.Kind != TokenLBracket {
		return call, nil
	}

	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	p.pos++ // consume '['

	params, err := p.parseFnParams()
	if err != nil {
		return nil, err
	}

	call.Params = params

	return call, nil
}

// parseFnParams parses requirements up to and including the closing ']'.
func (p *parser) parseFnParams() ([]*Requirement, error) {
	params := make([]*Requirement, 0)

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, newParseError(ReasonUnexpectedEnd, nil, p.end)
		}

		if tok.Kind == TokenRBracket {
			p.pos++ // consume ']'

			return params, nil
		}

		req, err := p.parseRequirement()
		if err != nil {
			return nil, err
		}

		params = append(params, req)
	}
}

// enter descends one nesting level at tok, failing if the maximum depth
// would be exceeded.
func (p *parser) enter(tok Token) error {
	if p.depth >= p.maxDepth {
		return newParseError(ReasonMaxDepthExceeded, &tok, tok.Offset)
	}

	p.depth++

	return nil
}

func (p *parser) leave() { p.depth-- }

// Helper methods

func (p *parser) more() bool { return p.pos < len(p.tokens) }

func (p *parser) peek() (Token, bool) {
	if !p.more() {
		return Token{}, false
	}

	return p.tokens[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}

	return tok, ok
}
