package repl

import "github.com/ardnew/tagfilter/lang"

// Sentinel errors.
var (
	ErrOutOfBounds = lang.NewError("index out of range")
	ErrNoDatabase  = lang.NewError("no database")
)
