package lang

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unexpected token",
			input: "]",
			want:  "unexpected token \"]\" at offset 0:\n  | ]\n    ^\n",
		},
		{
			name:  "unexpected end",
			input: "@foo[",
			want:  "unexpected end of query at offset 5:\n  | @foo[\n         ^\n",
		},
		{
			name:  "second line",
			input: "foo\nbar ]",
			want:  "unexpected token \"]\" at offset 8:\n  | bar ]\n        ^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.input, WithCache(false))
			if err == nil {
				t.Fatal("expected error")
			}

			if got := err.Error(); got != tt.want {
				t.Errorf("mismatch:\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestParseError_WithoutSource(t *testing.T) {
	tok := MakeToken(TokenLBracket, "")
	err := &ParseError{Reason: ReasonUnexpectedToken, Token: &tok}

	if got, want := err.Error(), `unexpected token "["`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseError_Mismatch(t *testing.T) {
	expected := MakeToken(TokenRBracket, "")
	found := MakeToken(TokenTag, "foo")

	err := &ParseError{Reason: ReasonMismatch, Token: &found, Expected: &expected}

	if got, want := err.Error(), `mismatch: expected "]" got "foo"`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if !errors.Is(err, ErrMismatch) {
		t.Error("expected errors.Is(err, ErrMismatch)")
	}

	err.Token = nil
	if got, want := err.Error(), `mismatch: expected "]" got (none)`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseError_LogValue(t *testing.T) {
	_, err := Parse(context.Background(), "a ]", WithCache(false))

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Error("failed", slog.Any("error", err))

	out := buf.String()
	for _, want := range []string{
		"reason=UnexpectedToken",
		"error.offset=2",
		"error.token.kind=RBracket",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output: %s", want, out)
		}
	}
}

func TestError_WrapWith(t *testing.T) {
	cause := errors.New("disk on fire")

	err := ErrReadInput.Wrap(cause).With(slog.String("source", "stdin"))

	if !errors.Is(err, ErrReadInput) {
		t.Error("expected errors.Is(err, ErrReadInput)")
	}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}

	if errors.Is(err, ErrParse) {
		t.Error("expected errors.Is(err, ErrParse) to be false")
	}

	if got, want := err.Error(), "failed to read input: disk on fire"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	// Sentinels are not modified.
	if ErrReadInput.err != nil || len(ErrReadInput.attrs) != 0 {
		t.Error("sentinel was modified")
	}
}

func TestWrapError(t *testing.T) {
	if got := WrapError(ErrParse); got != ErrParse {
		t.Errorf("expected the same *Error, got %v", got)
	}

	plain := errors.New("plain")
	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Errorf("expected wrapped plain error, got %v", got)
	}
}

func TestWrapError_KeepsParseError(t *testing.T) {
	_, err := Parse(context.Background(), "@any[cat", WithCache(false))
	if err == nil {
		t.Fatal("expected parse error")
	}

	wrapped := WrapError(err).With(slog.String("format", "native"))

	var pe *ParseError
	if !errors.As(wrapped, &pe) {
		t.Fatalf("expected *ParseError in chain, got %v", wrapped)
	}

	if pe.Offset != 8 || pe.Reason != ReasonUnexpectedEnd {
		t.Errorf("unexpected parse error %+v", pe)
	}

	if !errors.Is(wrapped, ErrUnexpectedEnd) {
		t.Errorf("expected ErrUnexpectedEnd in chain, got %v", wrapped)
	}

	if wrapped.Error() != err.Error() {
		t.Errorf("expected message %q, got %q", err.Error(), wrapped.Error())
	}
}

func TestReason_String(t *testing.T) {
	for r, want := range map[Reason]string{
		ReasonUnexpectedToken:  "UnexpectedToken",
		ReasonMismatch:         "Mismatch",
		ReasonUnexpectedEnd:    "UnexpectedEnd",
		ReasonMaxDepthExceeded: "MaxDepthExceeded",
		Reason(99):             "Unknown",
	} {
		if got := r.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
