package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tagfilter/filter"
	"github.com/ardnew/tagfilter/log"
)

const prompt = "➜ "

func helpMessage() string {
	return `
Commands:

  :help     Print this cruft
  :tags     List every known tag
  :items    List every item
  :history  List input history
  :clear    Clear screen
  :quit     Exit REPL

Queries:
  cat !dog            items tagged cat but not dog
  @any[cat hat]       items tagged cat or hat
  @all[cat @any[hat forest]]
  $cat                items tagged cat itself, ignoring implications
  @file[png]          items whose file name contains png
  @notags             items without tags

Usage:
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space or Enter to accept the current candidate
  Press Esc to discard the current candidate
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	db           *filter.Database
	tags         []string
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts the REPL over db. History is kept in cacheDir, or in memory
// if cacheDir is empty.
func Run(
	ctx context.Context,
	db *filter.Database,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if db == nil {
		return ErrNoDatabase
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("items", len(db.Items)),
	)

	var history *History
	if cacheDir == "" {
		history = NewHistory("")
	} else {
		history = NewHistory(filepath.Join(cacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	_, err = tea.NewProgram(
		newModel(ctx, db, history, logger),
		tea.WithContext(ctx),
	).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	db *filter.Database,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		db:         db,
		tags:       db.Tags(),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a query, or :help for commands"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	default:
		b.WriteString(hintStyle.Render(callHint(input, m.input.Position())))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()
		}

		return m, nil
	}

	// Space accepts the current candidate.
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}
	} else {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// refreshMatches recomputes completions for the word at the cursor.
func (m *model) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

// replaceCurrentWord replaces the word being completed with replacement
// and moves the cursor past it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	start, end := min(m.wordStart, len(input)), min(m.wordEnd, len(input))

	m.input.SetValue(input[:start] + replacement + input[end:])
	m.input.SetCursor(start + len(replacement))
	m.wordEnd = start + len(replacement)
}

// cycle moves the selected candidate by delta, wrapping around. A single
// candidate is accepted immediately.
func (m model) cycle(delta int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + delta + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if delta < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.matches = nil
	m.tabActive = false

	if line == "" {
		return m, nil
	}

	if err := m.history.Add(line); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line))

	if strings.HasPrefix(line, commandPrefix) {
		out, cmd := m.command(line)
		m.quitting = isQuit(strings.Fields(line)[0])

		if cmd != nil {
			return m, tea.Sequence(echo, cmd)
		}

		return m, tea.Sequence(echo, tea.Println(out))
	}

	return m, tea.Sequence(echo, tea.Println(m.evaluate(line)))
}

// evaluate runs query and renders the matching items.
func (m model) evaluate(query string) string {
	ctx := m.ctxFunc()

	program, err := filter.CompileQuery(ctx, query,
		filter.WithLogger(m.logger), filter.WithCache(false))
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	items, err := m.db.Filter(ctx, program, filter.WithLogger(m.logger))
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	if len(items) == 0 {
		return hintStyle.Render("no matching items")
	}

	var b strings.Builder

	for _, item := range items {
		b.WriteString(renderItem(item))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render(
		fmt.Sprintf("%d of %d items", len(items), len(m.db.Items))))

	return b.String()
}

func renderItem(item filter.Item) string {
	if item.Description == "" {
		return resultStyle.Render(item.File)
	}

	return resultStyle.Render(item.File) + hintStyle.Render(": "+item.Description)
}

func isQuit(name string) bool {
	switch name {
	case ":quit", ":q", ":exit":
		return true
	}

	return false
}

// command runs a REPL command. It returns the text to print, or a Bubble Tea
// command for commands that act on the terminal.
func (m model) command(line string) (string, tea.Cmd) {
	name := strings.Fields(line)[0]

	switch {
	case isQuit(name):
		return "", tea.Quit

	case name == ":help":
		return helpMessage(), nil

	case name == ":clear":
		return "", tea.ClearScreen

	case name == ":tags":
		if len(m.tags) == 0 {
			return hintStyle.Render("no tags"), nil
		}

		return strings.Join(m.tags, "  "), nil

	case name == ":items":
		if len(m.db.Items) == 0 {
			return hintStyle.Render("no items"), nil
		}

		lines := make([]string, len(m.db.Items))
		for i, item := range m.db.Items {
			lines[i] = renderItem(item)
		}

		return strings.Join(lines, "\n"), nil

	case name == ":history":
		entries := m.history.Entries()
		lines := make([]string, len(entries))

		for i, entry := range entries {
			lines[i] = hintStyle.Render(fmt.Sprintf("%4d  ", i+1)) + entry
		}

		return strings.Join(lines, "\n"), nil

	default:
		return errorStyle.Render("unknown command: " + name), nil
	}
}

func (m model) historyPrev() model {
	if m.historyIdx <= 0 {
		return m
	}

	m.historyIdx--

	if line, err := m.history.Line(m.historyIdx); err == nil {
		m.input.SetValue(line)
		m.input.CursorEnd()
	}

	m.tabActive = false
	m.matches = nil

	return m
}

func (m model) historyNext() model {
	if m.historyIdx >= m.history.Len() {
		return m
	}

	m.historyIdx++

	line, err := m.history.Line(m.historyIdx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.CursorEnd()

	m.tabActive = false
	m.matches = nil

	return m
}
