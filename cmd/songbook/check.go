package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/franz/songbook/internal/ingest"
	"github.com/franz/songbook/internal/report"
	"github.com/franz/songbook/internal/store"
	"github.com/franz/songbook/internal/util"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Ingest every source file and report what loaded",
	Long: `Load the source manifest, parse every book and attachment file and
print a per-file summary followed by every error found.

This command checks:
- The manifest is readable and valid
- Every listed file exists and parses
- Attachments name songs that exist
- The built-in SQLite used by 'export'

Exits non-zero when any file failed, so it can gate a deploy.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("report", "", "also write a Markdown report to this path")
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	util.InfoLog("=== Songbook Check ===")

	path := GetConfigString("sources", "sources.yaml")
	results := []checkResult{checkManifest(path), checkSQLite()}
	if results[0].error {
		printChecks(results)
		return fmt.Errorf("source manifest is not usable")
	}

	sess, loadErr := loadSession(context.Background())
	var rep *ingest.Report
	if sess != nil {
		defer sess.Close()
		rep = sess.report
		results = append(results, checkDangling(rep))
	}
	results = append(results, checkLoad(rep, loadErr))
	printChecks(results)

	if rep != nil {
		summary := report.GenerateSummaryReport(rep, path, sess.events.Path())
		fmt.Fprintln(cmd.OutOrStdout())
		if err := report.WriteText(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("report"); out != "" {
			if err := report.WriteMarkdownReport(summary, out); err != nil {
				return err
			}
			util.InfoLog("Report written to %s", out)
		}
	}

	if loadErr != nil {
		return loadErr
	}
	if failed := len(rep.Failed()); failed > 0 {
		return fmt.Errorf("%d source file(s) failed to load", failed)
	}
	util.SuccessLog("✅ All sources loaded")
	return nil
}

func printChecks(results []checkResult) {
	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
		} else if r.warning {
			symbol = "⚠"
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}
}

// checkManifest verifies the manifest parses and every listed file exists.
func checkManifest(path string) checkResult {
	m, err := ingest.LoadManifest(path)
	if err != nil {
		return checkResult{
			name:    "Manifest",
			error:   true,
			message: err.Error(),
		}
	}

	missing := 0
	for _, src := range m.Sources() {
		if _, err := os.Stat(src.Path); err != nil {
			missing++
		}
	}

	result := checkResult{
		name: "Manifest",
		message: fmt.Sprintf("%s (%d book(s), %d attachment file(s), primary %s)",
			path, len(m.Books), len(m.Attachments), orNone(m.PrimaryBook)),
	}
	if missing > 0 {
		result.warning = true
		result.message += fmt.Sprintf(", %d file(s) missing", missing)
	}
	return result
}

// checkSQLite verifies the embedded SQLite used by export
func checkSQLite() checkResult {
	version := store.SQLiteVersion()
	if version == "" {
		return checkResult{
			name:    "SQLite",
			error:   true,
			message: "unable to determine version",
		}
	}

	return checkResult{
		name:    "SQLite",
		message: fmt.Sprintf("version %s (built-in)", version),
	}
}

// checkLoad summarises the ingestion outcome.
func checkLoad(rep *ingest.Report, loadErr error) checkResult {
	if rep == nil {
		return checkResult{
			name:    "Ingestion",
			error:   true,
			message: fmt.Sprintf("%v", loadErr),
		}
	}
	failed := len(rep.Failed())
	result := checkResult{
		name: "Ingestion",
		message: fmt.Sprintf("%d of %d file(s) loaded, %s songs",
			len(rep.Results)-failed, len(rep.Results), humanize.Comma(int64(rep.Stats.Songs))),
	}
	if failed > 0 || loadErr != nil {
		result.error = true
	}
	return result
}

// checkDangling warns about attachments that point at unknown songs.
func checkDangling(rep *ingest.Report) checkResult {
	n := len(rep.Stats.Dangling)
	if n == 0 {
		return checkResult{name: "Attachments", message: "every attachment names a known song"}
	}
	return checkResult{
		name:    "Attachments",
		warning: true,
		message: fmt.Sprintf("%d attachment(s) dropped for unknown songs", n),
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
