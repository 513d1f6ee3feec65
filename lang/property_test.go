package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"
)

// tagName draws names that tokenize as a plain tag.
func tagName() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z0-9_][a-z0-9_.:/!@$-]{0,7}`)
}

// sigilName draws names that may follow '@' or '$', including the empty name.
func sigilName() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z0-9_.:/!@$-]{0,8}`)
}

// requirement draws a requirement tree at most depth levels deep.
func requirement(depth int) *rapid.Generator[*Requirement] {
	leaf := rapid.OneOf(
		rapid.Map(tagName(), NewTag),
		rapid.Map(sigilName(), NewTagExact),
	)

	if depth <= 0 {
		return leaf
	}

	return rapid.OneOf(
		leaf,
		rapid.Map(requirement(depth-1), NewNot),
		rapid.Custom(func(t *rapid.T) *Requirement {
			name := sigilName().Draw(t, "name")
			params := rapid.SliceOfN(requirement(depth-1), 0, 3).Draw(t, "params")

			return NewFnCall(name, params...)
		}),
	)
}

func TestProperty_FormatRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		forest := rapid.SliceOfN(requirement(4), 0, 5).Draw(t, "forest")

		ast := &AST{Requirements: forest}

		got, err := Parse(context.Background(), ast.String(), WithCache(false))
		if err != nil {
			t.Fatalf("parse %q: %v", ast.String(), err)
		}

		if diff := cmp.Diff(forest, got.Requirements, ignoreReqOffsets, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip of %q mismatch (-want +got):\n%s", ast.String(), diff)
		}
	})
}

func TestProperty_TokenLiterals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.String().Draw(t, "input")

		tokens := Tokenize(input)

		literals := make([]string, len(tokens))
		for i, tok := range tokens {
			literals[i] = tok.Literal()
		}

		again := Tokenize(strings.Join(literals, " "))
		if diff := cmp.Diff(tokens, again, ignoreOffsets); diff != "" {
			t.Fatalf("retokenize mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProperty_ParseTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.StringOf(rapid.SampledFrom([]rune("ab$@![] \n"))).Draw(t, "input")

		ast, err := Parse(context.Background(), input, WithCache(false))
		if err == nil {
			if ast == nil {
				t.Fatal("nil AST without error")
			}

			return
		}

		if ast != nil {
			t.Fatalf("AST %v returned with error %v", ast, err)
		}

		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected *ParseError, got %T", err)
		}

		if pe.Offset < 0 || pe.Offset > len(input) {
			t.Fatalf("offset %d out of range for %q", pe.Offset, input)
		}
	})
}
