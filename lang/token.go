package lang

import (
	"log/slog"
	"strconv"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	// TokenFunIdent is a function identifier such as "@any".
	// Its text excludes the '@'.
	TokenFunIdent TokenKind = iota

	// TokenTag is a bare tag such as "forest" or "cool-stuff".
	TokenTag

	// TokenTagExact is a tag to be matched exactly, such as "$mytag".
	// Its text excludes the '$'.
	TokenTagExact

	// TokenLBracket is '['.
	TokenLBracket

	// TokenRBracket is ']'.
	TokenRBracket

	// TokenNot is '!'.
	TokenNot
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenFunIdent:
		return "FunIdent"
	case TokenTag:
		return "Tag"
	case TokenTagExact:
		return "TagExact"
	case TokenLBracket:
		return "LBracket"
	case TokenRBracket:
		return "RBracket"
	case TokenNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// Token is a single lexical unit of query text.
type Token struct {
	Kind TokenKind
	// Text is the identifier or tag name, a substring of the input.
	// It is empty for brackets and negation.
	Text string
	// Offset is the byte offset of the token in the input, including any
	// leading sigil.
	Offset int
}

// MakeToken returns a token of the given kind and text at offset 0.
func MakeToken(kind TokenKind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// Literal returns the token as it would appear in query text.
func (t Token) Literal() string {
	switch t.Kind {
	case TokenFunIdent:
		return "@" + t.Text
	case TokenTagExact:
		return "$" + t.Text
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenNot:
		return "!"
	default:
		return t.Text
	}
}

// String returns a debugging representation such as Tag("foo") or RBracket.
func (t Token) String() string {
	switch t.Kind {
	case TokenFunIdent, TokenTag, TokenTagExact:
		return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"
	default:
		return t.Kind.String()
	}
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", t.Kind.String()),
		slog.Int("offset", t.Offset),
	}

	if t.Text != "" {
		attrs = append(attrs, slog.String("text", t.Text))
	}

	return slog.GroupValue(attrs...)
}
