package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/tagfilter/cli/cmd"
	"github.com/ardnew/tagfilter/log"
)

// runCLI runs the command line with args and returns its standard output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var buf bytes.Buffer

	ctx := cmd.WithOutput(context.Background(), &buf)

	err := Run(ctx, func(code int) { t.Fatalf("unexpected exit(%d)", code) }, args...)

	return buf.String(), err
}

func TestRun_DefaultQuery(t *testing.T) {
	t.Setenv(dbPathEnv(), "")

	out, err := runCLI(t, "cat", "!dog")
	if err != nil {
		t.Fatal(err)
	}

	want := "cat_hat.jpg: A cat with a hat\nforestcat.gif: A cat in a forest\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRun_DatabaseFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")

	err := os.WriteFile(path, []byte("items:\n  - file: x.png\n    tags: [cat]\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv(dbPathEnv(), "")

	out, err := runCLI(t, "--log-level=error", "--db", path, "query", "-o", "text", "cat")
	if err != nil {
		t.Fatal(err)
	}

	if out != "x.png\n" {
		t.Errorf("got %q", out)
	}
}

func TestRun_Subcommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"tokens", "!x"}, "0  !  Not\n1  x  Tag(\"x\")\n"},
		{[]string{"version", "--short"}, ""},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}

			if tt.want != "" && out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}

			if out == "" {
				t.Error("expected output")
			}
		})
	}
}

func TestRun_QueryError(t *testing.T) {
	_, err := runCLI(t, "query", "@any[cat")
	if err == nil {
		t.Fatal("expected parse error")
	}
}
