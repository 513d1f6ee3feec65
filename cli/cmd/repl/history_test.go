package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_AddPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("load missing file: %v", err)
	}

	for _, line := range []string{"cat", "dog", "  ", "cat", "cat", "@any[hat]"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("add %q: %v", line, err)
		}
	}

	want := []string{"dog", "cat", "@any[hat]"}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_LoadDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("a\nb\n\na\nc\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"b", "a", "c"}, h.Entries()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Trim(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	var sb strings.Builder
	for i := range maxHistory + 5 {
		sb.WriteString("q")
		sb.WriteString(strings.Repeat("x", i))
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != maxHistory {
		t.Errorf("expected %d entries, got %d", maxHistory, h.Len())
	}

	first, _ := h.Line(0)
	if first != "q"+strings.Repeat("x", 5) {
		t.Errorf("expected oldest entries dropped, first is %q", first)
	}
}

func TestHistory_Line(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("cat")

	line, err := h.Line(0)
	if err != nil || line != "cat" {
		t.Errorf("Line(0) = (%q, %v), want (cat, nil)", line, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Line(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Line(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}
