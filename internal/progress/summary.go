package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/handiism/batch-downloader/internal/model"
)

const rule = "============================================================"

// PrintSummary writes the totals of a round followed by every failure.
func PrintSummary(w io.Writer, stats model.RunStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	bold.Fprintln(w, "DOWNLOAD SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total items:     %d\n", stats.Total)
	fmt.Fprintf(w, "Downloaded:      %s\n", green.Sprint(stats.Completed))
	fmt.Fprintf(w, "Skipped:         %s\n", yellow.Sprint(stats.Skipped))
	fmt.Fprintf(w, "Failed:          %s\n", red.Sprint(stats.Failed()))
	fmt.Fprintln(w, rule)

	if len(stats.Failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	red.Fprintln(w, "FAILED DOWNLOADS:")
	for _, f := range stats.Failures {
		fmt.Fprintf(w, "  ID:    %s\n", f.ItemID)
		fmt.Fprintf(w, "  URL:   %s\n", f.Locator)
		fmt.Fprintf(w, "  Error: %s\n", f.Error)
		fmt.Fprintln(w)
	}
}

// HintConfig describes the command line that reruns a failed subset.
type HintConfig struct {
	Program   string
	OutputDir string
	Workers   int
}

// PrintRetryHint writes the command that retries the failures in artifact.
func PrintRetryHint(w io.Writer, cfg HintConfig, artifact string) {
	args := []string{cfg.Program, quote(artifact), quote(cfg.OutputDir)}
	cyan.Fprintf(w, "   %s\n", strings.Join(args, " "))
	if cfg.Workers > 1 {
		cyan.Fprintf(w, "   %s --workers %d\n", strings.Join(args, " "), cfg.Workers)
	}
}

func quote(arg string) string {
	if arg == "" || strings.ContainsAny(arg, " \t'\"") {
		return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return filepath.ToSlash(arg)
}
