package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/tagfilter/cli/cmd"
)

func TestResolve_Flatten(t *testing.T) {
	input := `
log-level: debug
log_format: json
log:
  pretty: false
  time_layout: Kitchen
db: [a.yaml, b.yaml]
count: 3
ratio: 0.5
unset: ~
`

	r, err := resolve(context.Background())(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	want := config{
		"log-level":       "debug",
		"log-format":      "json",
		"log-pretty":      false,
		"log-time-layout": "Kitchen",
		"db":              "a.yaml,b.yaml",
		"count":           "3",
		"ratio":           "0.5",
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Empty(t *testing.T) {
	r, err := resolve(context.Background())(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(config{}, r); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Invalid(t *testing.T) {
	_, err := resolve(context.Background())(strings.NewReader("log: [\n"))
	if !errors.Is(err, cmd.ErrReadConfig) {
		t.Errorf("expected ErrReadConfig, got %v", err)
	}
}

func TestConfig_AppliesToFlags(t *testing.T) {
	var cli struct {
		Name  string   `default:"none"`
		Items []string `name:"items"`
		Loud  bool     `negatable:""`
		Sub   struct {
			Depth int `name:"depth"`
		} `cmd:""`
	}

	input := "name: yaml\nitems: [x, y]\nloud: true\ndepth: 7\n"

	r, err := resolve(context.Background())(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"sub"}); err != nil {
		t.Fatal(err)
	}

	if cli.Name != "yaml" || !cli.Loud || cli.Sub.Depth != 7 {
		t.Errorf("unexpected values %+v", cli)
	}

	if diff := cmp.Diff([]string{"x", "y"}, cli.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	parser, err = kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--name=flag", "sub"}); err != nil {
		t.Fatal(err)
	}

	if cli.Name != "flag" {
		t.Errorf("expected command line to override configuration, got %q", cli.Name)
	}
}

func TestConfig_ValidateUnknownKey(t *testing.T) {
	var cli struct {
		Name string
	}

	r, err := resolve(context.Background())(strings.NewReader("nmae: typo\n"))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli)
	if err != nil {
		t.Fatal(err)
	}

	err = r.Validate(parser.Model)
	if !errors.Is(err, cmd.ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}
