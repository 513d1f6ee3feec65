package profile

// Config functions return all supported pprof configuration parameters.
type Config func() (mode, path string, quiet bool)

// Disabled is the zero configuration. Starting it does nothing.
func Disabled() (mode, path string, quiet bool) { return "", "", false }

// Start initializes the profiler and returns an interface for stopping it.
//
// If the pprof build tag or the mode is unset, Start returns a no-op.
// The result is always safe to Stop.
func (c Config) Start() interface{ Stop() } {
	if c == nil {
		return ignore{}
	}

	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// settings is the unpacked form of a Config.
type settings struct {
	mode, path string
	quiet      bool
}

// update returns a Config equal to c with fn applied to its settings.
func (c Config) update(fn func(*settings)) Config {
	var s settings
	if c != nil {
		s.mode, s.path, s.quiet = c()
	}

	fn(&s)

	return func() (string, string, bool) { return s.mode, s.path, s.quiet }
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		return c.update(func(s *settings) { s.mode = mode })
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		return c.update(func(s *settings) { s.path = path })
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		return c.update(func(s *settings) { s.quiet = quiet })
	}
}

type ignore struct{}

func (ignore) Stop() {}
