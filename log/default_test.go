package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", ctxFunc(TraceContext), "TRACE"},
		{"DebugContext", ctxFunc(DebugContext), "DEBUG"},
		{"InfoContext", ctxFunc(InfoContext), "INFO"},
		{"WarnContext", ctxFunc(WarnContext), "WARN"},
		{"ErrorContext", ctxFunc(ErrorContext), "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			for _, want := range []string{`"level":"` + tt.level + `"`, `"key":"value"`} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %s in %s", want, out)
				}
			}
		})
	}
}

func ctxFunc(fn func(context.Context, string, ...slog.Attr)) func(string, ...slog.Attr) {
	return func(msg string, attrs ...slog.Attr) {
		fn(context.Background(), msg, attrs...)
	}
}

func TestPackage_Config(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithPretty(false)))
	Config(WithLevel(LevelError))

	Warn("dropped")

	if buf.Len() > 0 {
		t.Errorf("expected warn dropped, got %q", buf.String())
	}

	Error("kept")

	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected error logged to the same output, got %q", buf.String())
	}
}
