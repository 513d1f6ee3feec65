package cmd

import "github.com/ardnew/tagfilter/lang"

// Error is the structured error type shared with package lang.
type Error = lang.Error

var (
	ErrJSONMarshal = lang.NewError("marshal JSON")
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrReadQuery   = lang.NewError("read query")
	ErrReadConfig  = lang.NewError("read configuration file")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrUnknownKey  = lang.NewError("unknown configuration key")
)
