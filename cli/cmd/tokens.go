package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/ardnew/tagfilter/lang"
)

// Tokens prints the tokens of a query, one per line with its byte offset.
type Tokens struct {
	Text []string `arg:"" help:"Query text, or '-' for stdin." name:"query" optional:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	text, err := queryText(ctx, t.Text)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(outputFrom(ctx), 0, 4, 2, ' ', 0)

	for _, tok := range lang.Tokenize(text) {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", tok.Offset, tok.Literal(), tok)
	}

	return tw.Flush()
}
