package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tomok/cad-dsl/internal/diagfmt"
	"github.com/Tomok/cad-dsl/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Run the full semantic check over a file or project",
	Long: `Check runs the complete front end over the given design file:
names, types, units and constraint classification. With a directory or no
argument it checks every design file under the project root from cad.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "parallel workers for directory mode (0 = GOMAXPROCS)")
	checkCmd.Flags().Bool("cache", false, "reuse cached results for unchanged files")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	useCache, _ := cmd.Flags().GetBool("cache")

	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	maxDiag := maxDiagnostics(cmd)

	// одиночный файл — простой конвейер без манифеста
	if target != "" && strings.HasSuffix(target, driver.SourceExt) {
		return checkSingleFile(cmd, target, format, maxDiag, useCache)
	}

	dir := target
	if dir == "" {
		manifest, ok, err := loadProjectManifest(".")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no cad.toml found; specify a file or directory explicitly")
		}
		dir = manifest.checkRoot()
		if manifest.Config.Check.MaxDiagnostics > 0 {
			maxDiag = manifest.Config.Check.MaxDiagnostics
		}
	}
	return checkDirectory(cmd, dir, format, maxDiag, jobs)
}

func checkSingleFile(cmd *cobra.Command, path, format string, maxDiag int, useCache bool) error {
	var cache *driver.DiskCache
	if useCache {
		var err error
		cache, err = driver.OpenDiskCache("cadc")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: disk cache unavailable: %v\n", err)
		}
	}

	result, fromCache, err := driver.CheckFileCached(path, maxDiag, cache)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if cache != nil && !fromCache {
		if err := cache.Put(result.File.Hash, driver.PayloadFromResult(result)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache write failed: %v\n", err)
		}
	}

	switch format {
	case "json":
		if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	case "pretty":
		diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:      useColor(cmd, os.Stdout),
			ShowNotes:  true,
			ShowSource: true,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return summarize(cmd, 1, result.Bag.HasErrors(), result.Bag.Len())
}

func checkDirectory(cmd *cobra.Command, dir, format string, maxDiag, jobs int) error {
	fileSet, results, err := driver.CheckDir(cmd.Context(), dir, maxDiag, jobs)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	total := 0
	hadErrors := false
	for _, r := range results {
		if r.Bag == nil {
			continue
		}
		total += r.Bag.Len()
		hadErrors = hadErrors || r.Bag.HasErrors()

		switch format {
		case "json":
			if err := diagfmt.JSON(os.Stdout, r.Bag, fileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			}); err != nil {
				return err
			}
		case "pretty":
			diagfmt.Pretty(os.Stdout, r.Bag, fileSet, diagfmt.PrettyOpts{
				Color:      useColor(cmd, os.Stdout),
				ShowNotes:  true,
				ShowSource: true,
			})
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	}

	return summarize(cmd, len(results), hadErrors, total)
}

func summarize(cmd *cobra.Command, files int, hadErrors bool, diagnostics int) error {
	if hadErrors {
		return fmt.Errorf("%d problem(s) in %d file(s)", diagnostics, files)
	}
	okLine := fmt.Sprintf("ok: %d file(s) checked", files)
	if useColor(cmd, os.Stdout) {
		okLine = color.New(color.FgHiGreen).Sprint(okLine)
	}
	fmt.Fprintln(os.Stdout, okLine)
	return nil
}
