package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tomok/cad-dsl/internal/diagfmt"
	"github.com/Tomok/cad-dsl/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file" + driver.SourceExt,
	Short: "Parse a design file and report syntax errors",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	result, err := driver.Parse(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	result.Bag.Sort()
	diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, diagfmt.PrettyOpts{
		Color:      useColor(cmd, os.Stdout),
		ShowNotes:  true,
		ShowSource: true,
	})

	if result.Bag.HasErrors() {
		return fmt.Errorf("%d problem(s) found", result.Bag.Len())
	}
	return nil
}
