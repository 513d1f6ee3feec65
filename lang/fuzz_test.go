package lang

import (
	"context"
	"errors"
	"testing"
)

// FuzzParse tests the tokenizer and parser with random inputs.
func FuzzParse(f *testing.F) {
	f.Add("")
	f.Add("foo")
	f.Add("$foo bar $baz")
	f.Add("@any[cat @all[dog stick]]")
	f.Add("!@file[forest] !@notags")
	f.Add("@foo[")
	f.Add("]")
	f.Add("!!!")
	f.Add("@[$[!]]")

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parse panicked on input %q: %v", input, r)
			}
		}()

		ast, err := Parse(context.Background(), input, WithCache(false))
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}

			return
		}

		// Canonical text must parse back to the same forest.
		again, err := Parse(context.Background(), ast.String(), WithCache(false))
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", ast.String(), err)
		}

		if len(again.Requirements) != len(ast.Requirements) {
			t.Fatalf("reparse changed length: %d != %d",
				len(again.Requirements), len(ast.Requirements))
		}

		for i := range ast.Requirements {
			if !ast.Requirements[i].Equal(again.Requirements[i]) {
				t.Errorf("requirement %d: %v != %v",
					i, ast.Requirements[i], again.Requirements[i])
			}
		}
	})
}
