// Package cli contains the command line interface for tagfilter.
//
// # Usage
//
// With no subcommand, the arguments form a query evaluated against the item
// database:
//
//	tagfilter cat !dog
//	tagfilter --db items.yaml '@any[cat @all[dog forest]]'
//
// Subcommands:
//   - query: print matching items as text, JSON, or YAML
//   - tokens: print the tokens of a query with their byte offsets
//   - fmt: reformat a query as canonical syntax, JSON, YAML, or a tree
//   - repl: evaluate queries interactively with completion and history
//   - init: write the current flag values to the configuration file
//   - version: print version information
//
// # Databases
//
// Databases are YAML documents listing items and tag implications. They are
// read from each --db flag, then from the files listed in the
// <NAME>_DB_PATH environment variable (separated like PATH), where <NAME>
// is the upper-cased executable name. Without either, the database
// items.yaml in the configuration directory is used if present, and
// otherwise a built-in sample database.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (for example, ~/.config/tagfilter). In the YAML
// file, keys are flag names, and nested mappings are joined with hyphens:
//
//	log:
//	  level: debug
//	db: [~/pictures/items.yaml]
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tagfilter .
//
// Then:
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/tagfilter/pprof)
package cli
