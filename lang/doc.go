// Package lang implements the tagfilter query language: a small boolean
// language for selecting tagged items by the tags they carry.
//
// Query text is processed in two stages. [Tokenize] scans the raw bytes with
// a three-state machine and never fails. [ParseTokens] consumes the tokens
// with single-token lookahead and produces an [AST], a forest of
// [Requirement] nodes that are implicitly AND-ed together. [Parse] runs both
// stages.
//
// No parser generator. No quoting or escaping. The grammar is small enough
// for a hand-written recursive descent parser, and the package leaves all
// evaluation policy to its consumers.
//
// # Grammar
//
// Informal EBNF:
//
//	Program     → Requirement* EOF
//	Requirement → '!' Requirement
//	            | FunIdent FnTail
//	            | Tag
//	            | TagExact
//	FnTail      → '[' Requirement* ']' | ε
//
// Lexically:
//
//	FunIdent → '@' name    ; name stops at whitespace, '[' or ']'
//	TagExact → '$' name
//	Tag      → name        ; any run not starting with '@', '$' or '!'
//
// # Example
//
//	# Matches the tag bicycle
//	bicycle
//
//	# Matches everything that isn't tagged bicycle
//	!bicycle
//
//	# Must match either foo or bar, and also it has to match baz
//	@any[foo bar] baz
//
//	# Matches either a cat, or a dog with a stick
//	@any[cat @all[dog stick]]
//
//	# Matches things that are not tagged
//	@untagged
//
//	# Matches mytag only, never a tag that implies it
//	$mytag
//
// # Text
//
// Every string in a [Token] or [Requirement] is a substring of the parsed
// input, so no tag or identifier text is copied. Callers that retain an AST
// retain the input with it.
package lang
