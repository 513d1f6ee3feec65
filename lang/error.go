package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse              = NewError("parse error")
	ErrUnexpectedToken    = NewError("unexpected token")
	ErrMismatch           = NewError("token mismatch")
	ErrUnexpectedEnd      = NewError("unexpected end of query")
	ErrMaxDepthExceeded   = NewError("maximum nesting depth exceeded")
	ErrReadInput          = NewError("failed to read input")
	ErrInvalidRequirement = NewError("invalid requirement")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error. An error that already is
// an *Error is returned unchanged. Any other error, including a
// [*ParseError], stays in the chain of the result.
func WrapError(err error) *Error {
	if ee, ok := err.(*Error); ok {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from. Errors
// created by [Error.Wrap] and [Error.With] share the message of their
// sentinel, so errors.Is(err, ErrReadInput) holds for any of them.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return e.msg == t.msg && t.err == nil && len(t.attrs) == 0
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		var lv slog.LogValuer
		if errors.As(e.err, &lv) {
			attrs = append(attrs, slog.Any("cause", lv))
		} else {
			attrs = append(attrs, slog.String("cause", e.err.Error()))
		}
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Reason classifies a [ParseError].
type Reason int

const (
	// ReasonUnexpectedToken means a bracket appeared where a requirement was
	// expected.
	ReasonUnexpectedToken Reason = iota

	// ReasonMismatch means a specific token was expected but another one (or
	// none) was found. The grammar does not currently produce it.
	ReasonMismatch

	// ReasonUnexpectedEnd means the tokens ran out after '!', after
	// "@name[", or while awaiting a closing ']'.
	ReasonUnexpectedEnd

	// ReasonMaxDepthExceeded means negations and function calls were nested
	// deeper than the configured maximum.
	ReasonMaxDepthExceeded
)

// sentinel returns the predefined error a reason unwraps to.
func (r Reason) sentinel() *Error {
	switch r {
	case ReasonUnexpectedToken:
		return ErrUnexpectedToken
	case ReasonMismatch:
		return ErrMismatch
	case ReasonUnexpectedEnd:
		return ErrUnexpectedEnd
	case ReasonMaxDepthExceeded:
		return ErrMaxDepthExceeded
	default:
		return ErrParse
	}
}

// String returns a string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonUnexpectedToken:
		return "UnexpectedToken"
	case ReasonMismatch:
		return "Mismatch"
	case ReasonUnexpectedEnd:
		return "UnexpectedEnd"
	case ReasonMaxDepthExceeded:
		return "MaxDepthExceeded"
	default:
		return "Unknown"
	}
}

// ParseError reports why a token sequence is not a valid query.
type ParseError struct {
	Reason Reason
	// Token is the offending token for ReasonUnexpectedToken, or the token
	// actually found for ReasonMismatch (nil if the tokens ran out).
	Token *Token
	// Expected is the token wanted by ReasonMismatch.
	Expected *Token
	// Offset is the byte offset in Source where the error was detected.
	// At end of input it is len(Source).
	Offset int
	// Source is the original query text, if known.
	Source string
}

func newParseError(reason Reason, tok *Token, offset int) *ParseError {
	return &ParseError{Reason: reason, Token: tok, Offset: offset}
}

// Unwrap returns the sentinel error for the error's reason.
func (e *ParseError) Unwrap() error { return e.Reason.sentinel() }

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString(e.describe())

	if e.Source != "" {
		buf.WriteString(" at offset ")
		buf.WriteString(strconv.Itoa(e.Offset))
		buf.WriteString(":\n")
		buf.WriteString(e.snippet())
	}

	return buf.String()
}

// describe returns the one-line description of the error.
func (e *ParseError) describe() string {
	switch e.Reason {
	case ReasonUnexpectedToken:
		if e.Token != nil {
			return "unexpected token " + strconv.Quote(e.Token.Literal())
		}

	case ReasonMismatch:
		var buf strings.Builder

		buf.WriteString("mismatch: expected ")

		if e.Expected != nil {
			buf.WriteString(strconv.Quote(e.Expected.Literal()))
		} else {
			buf.WriteString("(none)")
		}

		buf.WriteString(" got ")

		if e.Token != nil {
			buf.WriteString(strconv.Quote(e.Token.Literal()))
		} else {
			buf.WriteString("(none)")
		}

		return buf.String()
	}

	return e.Reason.sentinel().Error()
}

// snippet formats the line of Source containing Offset with a caret marker
// beneath the offending column.
func (e *ParseError) snippet() string {
	offset := min(max(e.Offset, 0), len(e.Source))

	lineStart := strings.LastIndexByte(e.Source[:offset], '\n') + 1

	lineEnd := strings.IndexByte(e.Source[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(e.Source)
	} else {
		lineEnd += offset
	}

	var src strings.Builder

	src.WriteString("  | ")
	src.WriteString(e.Source[lineStart:lineEnd])
	src.WriteRune('\n')
	// 2 leading spaces + "| " (2 chars)
	src.WriteString(strings.Repeat(" ", 4+offset-lineStart))
	src.WriteString("^\n")

	return src.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.describe()),
		slog.String("reason", e.Reason.String()),
		slog.Int("offset", e.Offset),
	}

	if e.Token != nil {
		attrs = append(attrs, slog.Any("token", *e.Token))
	}

	if e.Expected != nil {
		attrs = append(attrs, slog.Any("expected", *e.Expected))
	}

	if e.Source != "" {
		attrs = append(attrs, slog.String("source", e.Source))
	}

	return slog.GroupValue(attrs...)
}
