package filter

import "github.com/ardnew/tagfilter/lang"

// Error is the structured error type shared with package lang.
type Error = lang.Error

var (
	ErrUnknownFunction = lang.NewError("unknown function")
	ErrCompile         = lang.NewError("compile query")
	ErrEvaluate        = lang.NewError("evaluate query")
	ErrLoadDatabase    = lang.NewError("load database")
	ErrEncode          = lang.NewError("encode database")
)
