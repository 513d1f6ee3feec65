package profile

import "testing"

func TestConfig_Options(t *testing.T) {
	var cfg Config = Disabled

	cfg = WithMode("cpu")(cfg)
	cfg = WithPath("/tmp/profiles")(cfg)
	cfg = WithQuiet(true)(cfg)

	mode, path, quiet := cfg()
	if mode != "cpu" || path != "/tmp/profiles" || !quiet {
		t.Errorf("unexpected config (%q, %q, %v)", mode, path, quiet)
	}

	// Options do not modify the config they are applied to.
	if m, _, _ := WithMode("heap")(cfg)(); m != "heap" {
		t.Errorf("expected mode heap, got %q", m)
	}

	if m, _, _ := cfg(); m != "cpu" {
		t.Errorf("expected original mode cpu, got %q", m)
	}
}

func TestConfig_StartDisabled(t *testing.T) {
	for _, cfg := range []Config{nil, Disabled, WithPath("/tmp")(Disabled)} {
		p := cfg.Start()
		if _, ok := p.(ignore); !ok {
			t.Errorf("expected no-op profiler, got %T", p)
		}

		p.Stop()
	}
}
