package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/tagfilter/pkg"
)

// Version prints the program name and version.
type Version struct {
	Short bool `help:"Print only the version number." short:"s"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	if v.Short {
		_, err := fmt.Fprintln(outputFrom(ctx), pkg.Version())

		return err
	}

	_, err := fmt.Fprintf(outputFrom(ctx), "%s %s\n", pkg.Name, pkg.Version())

	return err
}
