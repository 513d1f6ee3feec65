package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tagfilter/filter"
	"github.com/ardnew/tagfilter/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(context.Background(), filter.DefaultDatabase(), NewHistory(""), log.Logger{})
}

func typeText(m model, text string) model {
	for _, r := range text {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}}
		}

		m, _ = m.handleKey(msg)
	}

	return m
}

func TestModel_Evaluate(t *testing.T) {
	m := testModel(t)

	out := m.evaluate("cat !dog")
	for _, want := range []string{"cat_hat.jpg", "forestcat.gif", "2 of 8 items"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	if strings.Contains(out, "cat_dog.jpg") {
		t.Errorf("unexpected match in output:\n%s", out)
	}

	if out := m.evaluate("giraffe"); !strings.Contains(out, "no matching items") {
		t.Errorf("expected no matches, got %q", out)
	}

	if out := m.evaluate("@any[cat"); !strings.Contains(out, "error:") {
		t.Errorf("expected parse error, got %q", out)
	}

	if out := m.evaluate("@bogus"); !strings.Contains(out, "unknown function") {
		t.Errorf("expected unknown function error, got %q", out)
	}
}

func TestModel_Command(t *testing.T) {
	m := testModel(t)

	if out, _ := m.command(":tags"); out != "cat  dog  forest  hat" {
		t.Errorf(":tags = %q", out)
	}

	if out, _ := m.command(":items"); strings.Count(out, "\n") != len(m.db.Items)-1 {
		t.Errorf(":items should list every item, got:\n%s", out)
	}

	if out, _ := m.command(":help"); !strings.Contains(out, ":quit") {
		t.Errorf(":help should list commands, got:\n%s", out)
	}

	if _, cmd := m.command(":quit"); cmd == nil {
		t.Error(":quit should return a command")
	}

	if out, _ := m.command(":nope"); !strings.Contains(out, "unknown command") {
		t.Errorf(":nope = %q", out)
	}
}

func TestModel_ExecuteInput(t *testing.T) {
	m := typeText(testModel(t), "cat hat")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected output command")
	}

	if m.input.Value() != "" {
		t.Errorf("expected input cleared, got %q", m.input.Value())
	}

	if m.history.Len() != 1 {
		t.Fatalf("expected one history entry, got %d", m.history.Len())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp})
	if m.input.Value() != "cat hat" {
		t.Errorf("expected history recall, got %q", m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	if m.input.Value() != "" {
		t.Errorf("expected empty input past newest entry, got %q", m.input.Value())
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m := typeText(testModel(t), "@an")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if m.input.Value() != "@any" {
		t.Errorf("expected single candidate accepted, got %q", m.input.Value())
	}

	m = typeText(testModel(t), "$")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if !m.tabActive || m.input.Value() != "$cat" {
		t.Fatalf("expected first candidate, got %q (active %v)", m.input.Value(), m.tabActive)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if m.input.Value() != "$dog" {
		t.Errorf("expected second candidate, got %q", m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.input.Value() != "$hat" {
		t.Errorf("expected wrap to last candidate, got %q", m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.tabActive || m.input.Value() != "$" {
		t.Errorf("expected completion discarded, got %q", m.input.Value())
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := typeText(testModel(t), "cat")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd != nil || m.quitting || m.input.Value() != "" {
		t.Errorf("ctrl+c on text should clear input, got %q", m.input.Value())
	}

	m, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlD})
	if cmd == nil || !m.quitting {
		t.Error("ctrl+d on empty input should quit")
	}

	if m.View() != "" {
		t.Error("expected empty view after quitting")
	}
}

func TestModel_View(t *testing.T) {
	m := testModel(t)

	if v := m.View(); !strings.Contains(v, ":help") {
		t.Errorf("expected hint for empty input, got %q", v)
	}

	m = typeText(m, "@all[")
	if v := m.View(); !strings.Contains(v, functionHelp["all"]) {
		t.Errorf("expected call hint, got %q", v)
	}
}

func TestRun_NoDatabase(t *testing.T) {
	if err := Run(context.Background(), nil, "", log.Logger{}); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("expected ErrNoDatabase, got %v", err)
	}
}
