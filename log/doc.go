// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("query parsed", slog.Int("requirements", 2))
//
// The zero [Logger] discards everything. Libraries accept a Logger through
// an option and log unconditionally; nothing is written unless the caller
// supplied a configured logger.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] adds attributes included in every message.
//
// # Package Logger
//
// The package-level functions ([Info], [ErrorContext], and the rest) write
// to a default logger on stderr, reconfigured with [Config].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level are
// discarded.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With pretty
// printing enabled, text output is styled with lipgloss when written to a
// color terminal, and JSON output is indented.
package log
