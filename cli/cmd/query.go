package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tagfilter/filter"
	"github.com/ardnew/tagfilter/log"
)

// Query prints the items of the database matching a query.
type Query struct {
	Output string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})." short:"o"`

	Text []string `arg:"" help:"Query text, or '-' for stdin. An empty query matches every item." name:"query" optional:""`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, err := queryText(ctx, q.Text)
	if err != nil {
		return err
	}

	db, err := databaseFrom(ctx)
	if err != nil {
		return err
	}

	items, err := db.Query(ctx, text, filter.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	return writeItems(ctx, outputFrom(ctx), q.Output, items)
}

// writeItems writes items to w in the named format.
func writeItems(ctx context.Context, w io.Writer, format string, items []filter.Item) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		data, err := yaml.MarshalContext(ctx, items, yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		for _, item := range items {
			if _, err := fmt.Fprintln(w, formatItem(item)); err != nil {
				return err
			}
		}

		log.DebugContext(ctx, "query complete", slog.Int("matched", len(items)))

		return nil
	}
}

// formatItem renders an item as "file: description", or just the file name
// when it has no description.
func formatItem(item filter.Item) string {
	if item.Description == "" {
		return item.File
	}

	return item.File + ": " + item.Description
}
