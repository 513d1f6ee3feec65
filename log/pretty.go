package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles render as
// plain text when the output is not a color terminal.
type palette struct {
	key     lipgloss.Style
	message lipgloss.Style
	str     lipgloss.Style
	number  lipgloss.Style
	boolean lipgloss.Style
	falsy   lipgloss.Style
	time    lipgloss.Style
	trace   lipgloss.Style
	debug   lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)

	style := func(color string) lipgloss.Style {
		return r.NewStyle().
			Foreground(lipgloss.Color(color)).
			TabWidth(lipgloss.NoTabConversion)
	}

	return &palette{
		key:     style("8"),
		message: r.NewStyle().Bold(true).TabWidth(lipgloss.NoTabConversion),
		str:     style("6"),
		number:  style("3"),
		boolean: style("2"),
		falsy:   style("1"),
		time:    style("4"),
		trace:   style("5"),
		debug:   style("4"),
		info:    style("2"),
		warn:    style("3"),
		failure: style("1").Bold(true),
	}
}

// level returns the style for a record of the given severity.
func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.failure
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyTextHandler writes key=value records styled for terminals, without
// quoting string values.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	style  *palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []byte // preformatted attributes from WithAttrs
	prefix string // dotted group prefix from WithGroup
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:  *opts,
		style: newPalette(w),
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeBuiltin(buf, slog.Time(slog.TimeKey, r.Time), h.style.time)
	}

	h.writeBuiltin(buf, slog.Any(slog.LevelKey, r.Level), h.style.level(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeBuiltin(buf,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)),
				h.style.key)
		}
	}

	h.writeBuiltin(buf, slog.String(slog.MessageKey, r.Message), h.style.message)

	if len(h.attrs) > 0 {
		buf.WriteByte(' ')
		buf.Write(h.attrs)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	buf := bytes.NewBuffer(bytes.Clone(h.attrs))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, h.groups, a)
	}

	clone := *h
	clone.attrs = buf.Bytes()

	return &clone
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.prefix = h.prefix + name + "."
	clone.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &clone
}

// writeBuiltin writes one of the record's built-in attributes after passing
// it through ReplaceAttr.
func (h *prettyTextHandler) writeBuiltin(
	buf *bytes.Buffer,
	a slog.Attr,
	style lipgloss.Style,
) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return
	}

	h.writeKey(buf, a.Key)
	buf.WriteString(style.Render(a.Value.Resolve().String()))
}

// writeAttr writes a user attribute, flattening groups into dotted keys.
func (h *prettyTextHandler) writeAttr(
	buf *bytes.Buffer,
	prefix string,
	groups []string,
	a slog.Attr,
) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup && h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		if len(members) == 0 {
			return
		}

		// Inline groups have no key.
		if a.Key != "" {
			prefix += a.Key + "."
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, m := range members {
			h.writeAttr(buf, prefix, groups, m)
		}

		return
	}

	h.writeKey(buf, prefix+a.Key)
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(key))
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(h.style.str.Render(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		buf.WriteString(h.style.number.Render(v.String()))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.style.boolean.Render("true"))
		} else {
			buf.WriteString(h.style.falsy.Render("false"))
		}

	case slog.KindTime:
		buf.WriteString(h.style.time.Render(v.Time().Format(DefaultTimeLayout)))

	default:
		if err, ok := v.Any().(error); ok {
			buf.WriteString(h.style.falsy.Render(err.Error()))

			return
		}

		buf.WriteString(h.style.str.Render(v.String()))
	}
}

// indentWriter reformats each JSON record written to it with indentation and
// styled keys. [slog.JSONHandler] writes exactly one record per call.
type indentWriter struct {
	w     io.Writer
	once  sync.Once
	style *palette
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	iw.once.Do(func() { iw.style = newPalette(iw.w) })

	var indented bytes.Buffer
	if err := json.Indent(&indented, bytes.TrimSpace(p), "", "  "); err != nil {
		// Not JSON; pass through untouched.
		return iw.w.Write(p)
	}

	var out strings.Builder

	for line := range strings.Lines(indented.String()) {
		out.WriteString(iw.styleKey(strings.TrimSuffix(line, "\n")))
		out.WriteByte('\n')
	}

	if _, err := io.WriteString(iw.w, out.String()); err != nil {
		return 0, err
	}

	return len(p), nil
}

// styleKey styles the object key at the start of an indented JSON line.
func (iw *indentWriter) styleKey(line string) string {
	body := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(body, `"`) {
		return line
	}

	end := jsonStringEnd(body)
	if end < 0 || !strings.HasPrefix(body[end:], ": ") {
		return line
	}

	indent := line[:len(line)-len(body)]

	return indent + iw.style.key.Render(body[:end]) + body[end:]
}

// jsonStringEnd returns the index just past the closing quote of the JSON
// string that s starts with, or -1.
func jsonStringEnd(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}

	return -1
}
