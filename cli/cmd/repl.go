package cmd

import (
	"context"

	"github.com/ardnew/tagfilter/cli/cmd/repl"
	"github.com/ardnew/tagfilter/log"
)

// Repl evaluates queries interactively against the database.
type Repl struct {
	NoHistory bool `help:"Do not read or write input history."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	db, err := databaseFrom(ctx)
	if err != nil {
		return err
	}

	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, db, cacheDir, log.Default())
}
