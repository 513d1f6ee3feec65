package cli

import (
	"testing"

	"github.com/ardnew/tagfilter/log"
)

func TestLogConfig_Scan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var f logConfig

	f.scan([]string{
		"query", "--log-level", "debug",
		"--log-format=json",
		"--no-log-pretty",
		"--log-caller=true",
		"cat",
	})

	if f.Level != "debug" || f.Format != "json" || f.Pretty || !f.Caller {
		t.Errorf("unexpected configuration %+v", f)
	}

	if got := log.Default().Level(); got != log.LevelDebug {
		t.Errorf("default logger level = %v, want debug", got)
	}

	if got := log.Default().Format(); got != log.FormatJSON {
		t.Errorf("default logger format = %v, want json", got)
	}
}

func TestLogConfig_ScanStopsAtTerminator(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	f := logConfig{Pretty: true}

	f.scan([]string{"--", "--no-log-pretty"})

	if !f.Pretty {
		t.Error("expected flags after -- to be ignored")
	}
}

func TestScanBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		assigned bool
		current  bool
		want     bool
	}{
		{"--log-pretty", "", false, false, true},
		{"--no-log-pretty", "", false, true, false},
		{"--log-pretty", "false", true, true, false},
		{"--no-log-pretty", "false", true, false, true},
		{"--log-pretty", "bogus", true, true, true},
	}

	for _, tt := range tests {
		if got := scanBool(tt.name, tt.value, tt.assigned, tt.current); got != tt.want {
			t.Errorf("scanBool(%q, %q, %v, %v) = %v, want %v",
				tt.name, tt.value, tt.assigned, tt.current, got, tt.want)
		}
	}
}
