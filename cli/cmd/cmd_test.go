package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/tagfilter/filter"
)

const testDatabase = `
implies:
  kitten: [cat]
items:
  - file: a.jpg
    description: a kitten
    tags: [kitten]
  - file: b.jpg
    tags: [dog]
`

// writeFile writes content to name in a temporary directory and returns its
// path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// run executes fn with output captured and returns what it wrote.
func run(
	t *testing.T,
	ctx context.Context,
	fn func(context.Context) error,
) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	err := fn(WithOutput(ctx, &buf))

	return buf.String(), err
}

func TestDatabaseFrom_Default(t *testing.T) {
	db, err := databaseFrom(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(filter.DefaultDatabase(), db); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDatabaseFrom_MergesUniqueFiles(t *testing.T) {
	path := writeFile(t, "items.yaml", testDatabase)
	link := filepath.Join(t.TempDir(), "link.yaml")

	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	other := writeFile(t, "other.yaml", "items:\n  - file: c.jpg\n")

	ctx := WithDatabaseFiles(context.Background(), []string{path, link, other})

	db, err := databaseFrom(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var files []string
	for _, item := range db.Items {
		files = append(files, item.File)
	}

	if diff := cmp.Diff([]string{"a.jpg", "b.jpg", "c.jpg"}, files); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDatabaseFrom_Invalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "items: {file: [\n")

	_, err := databaseFrom(WithDatabaseFiles(context.Background(), []string{path}))
	if !errors.Is(err, filter.ErrLoadDatabase) {
		t.Errorf("expected ErrLoadDatabase, got %v", err)
	}

	if err != nil && !strings.Contains(err.Error(), "load database") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDatabaseFrom_Unreadable(t *testing.T) {
	good := writeFile(t, "items.yaml", testDatabase)
	dangling := filepath.Join(t.TempDir(), "dangling.yaml")

	if err := os.Symlink(filepath.Join(t.TempDir(), "missing.yaml"), dangling); err != nil {
		t.Skipf("symlink: %v", err)
	}

	ctx := WithDatabaseFiles(context.Background(), []string{good, dangling})

	db, err := databaseFrom(ctx)
	if !errors.Is(err, filter.ErrLoadDatabase) {
		t.Fatalf("expected ErrLoadDatabase, got %v (db %v)", err, db)
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected cause fs.ErrNotExist, got %v", err)
	}

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *Error, got %T", err)
	}

	var path string
	for _, attr := range ee.LogValue().Group() {
		if attr.Key == "path" {
			path = attr.Value.String()
		}
	}

	if path != dangling {
		t.Errorf("expected path attribute %q, got %q", dangling, path)
	}
}

func TestQueryText(t *testing.T) {
	ctx := WithInput(context.Background(), strings.NewReader("cat !dog\n"))

	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"cat", "!dog"}, "cat !dog"},
		{[]string{"-"}, "cat !dog\n"},
		{[]string{"-", "cat"}, "- cat"},
	}

	for _, tt := range tests {
		got, err := queryText(ctx, tt.args)
		if err != nil {
			t.Fatalf("queryText(%q): %v", tt.args, err)
		}

		if got != tt.want {
			t.Errorf("queryText(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
