package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/songbook/internal/ingest"
)

// SummaryReport describes one ingestion run.
type SummaryReport struct {
	GeneratedAt time.Time
	Duration    time.Duration

	// File statistics
	FilesTotal  int
	FilesLoaded int
	FilesFailed int
	BooksLoaded int
	BytesRead   int64

	// Index statistics
	Songs       int
	Titles      int
	Attachments int
	Overwrites  int
	Dangling    []string

	// Details
	Files  []FileSummary
	Errors []ErrorSummary

	// Metadata
	ManifestPath string
	EventLogPath string
}

// FileSummary is one row of the per-file table.
type FileSummary struct {
	Path     string
	Kind     string
	Book     string
	Entries  int
	Bytes    int64
	Digest   string
	Duration time.Duration
	Failed   bool
}

// ErrorSummary is one failed file. Every failure is listed, not a sample.
type ErrorSummary struct {
	File  string
	Line  int
	Error string
}

// GenerateSummaryReport builds a summary from a loader report.
func GenerateSummaryReport(rep *ingest.Report, manifestPath, eventLogPath string) *SummaryReport {
	report := &SummaryReport{
		GeneratedAt:  time.Now(),
		Duration:     rep.Elapsed,
		FilesTotal:   len(rep.Results),
		BooksLoaded:  rep.BooksLoaded(),
		Songs:        rep.Stats.Songs,
		Titles:       rep.Stats.Titles,
		Overwrites:   rep.Stats.Overwrite,
		Dangling:     rep.Stats.Dangling,
		Files:        make([]FileSummary, 0, len(rep.Results)),
		Errors:       make([]ErrorSummary, 0),
		ManifestPath: manifestPath,
		EventLogPath: eventLogPath,
	}

	for _, res := range rep.Results {
		file := FileSummary{
			Path:     res.Source.Path,
			Kind:     string(res.Source.Kind),
			Book:     res.Source.Book,
			Bytes:    res.Bytes,
			Digest:   res.Digest,
			Duration: res.Duration,
			Failed:   res.Err != nil,
		}
		report.BytesRead += res.Bytes

		if res.Err != nil {
			report.FilesFailed++
			summary := ErrorSummary{File: res.Source.Path, Error: res.Err.Error()}
			var ie *ingest.IngestionError
			if errors.As(res.Err, &ie) {
				summary.Line = ie.Line
			}
			report.Errors = append(report.Errors, summary)
		} else {
			report.FilesLoaded++
			file.Entries = res.Entries()
			if res.Source.Kind != ingest.KindBook {
				report.Attachments += file.Entries
			}
		}
		report.Files = append(report.Files, file)
	}

	return report
}

// WriteText renders the summary for a terminal.
func WriteText(w io.Writer, report *SummaryReport) error {
	var b strings.Builder

	for _, f := range report.Files {
		mark := "✓"
		detail := fmt.Sprintf("%s entries, %s", humanize.Comma(int64(f.Entries)), humanize.Bytes(uint64(f.Bytes)))
		if f.Failed {
			mark = "✗"
			detail = "failed"
		}
		label := f.Kind
		if f.Book != "" {
			label += " " + f.Book
		}
		fmt.Fprintf(&b, "  %s %-14s %-48s %s\n", mark, label, truncatePath(f.Path, 48), detail)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Books:       %d loaded\n", report.BooksLoaded)
	fmt.Fprintf(&b, "Songs:       %s (%s distinct titles)\n", humanize.Comma(int64(report.Songs)), humanize.Comma(int64(report.Titles)))
	fmt.Fprintf(&b, "Attachments: %s\n", humanize.Comma(int64(report.Attachments)))
	fmt.Fprintf(&b, "Read:        %s in %s\n", humanize.Bytes(uint64(report.BytesRead)), report.Duration.Round(time.Millisecond))
	if report.Overwrites > 0 {
		fmt.Fprintf(&b, "Overwritten: %d duplicate song id(s)\n", report.Overwrites)
	}
	if len(report.Dangling) > 0 {
		fmt.Fprintf(&b, "Dropped:     %d attachment(s) for unknown songs\n", len(report.Dangling))
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(&b, "\n%d of %d file(s) failed:\n", report.FilesFailed, report.FilesTotal)
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "  - %s\n", e.Error)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteMarkdownReport writes the summary report as Markdown
func WriteMarkdownReport(report *SummaryReport, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var md strings.Builder

	md.WriteString("# Songbook - Ingestion Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	if report.ManifestPath != "" {
		md.WriteString(fmt.Sprintf("**Manifest:** `%s`\n\n", report.ManifestPath))
	}
	if report.EventLogPath != "" {
		md.WriteString(fmt.Sprintf("**Event Log:** `%s`\n\n", report.EventLogPath))
	}

	md.WriteString("---\n\n")

	md.WriteString("## 📊 Overview\n\n")
	md.WriteString("| Metric | Value |\n")
	md.WriteString("|--------|-------|\n")
	md.WriteString(fmt.Sprintf("| Files | %d |\n", report.FilesTotal))
	md.WriteString(fmt.Sprintf("| Files Loaded | %d |\n", report.FilesLoaded))
	if report.FilesFailed > 0 {
		md.WriteString(fmt.Sprintf("| Files Failed | %d |\n", report.FilesFailed))
	}
	md.WriteString(fmt.Sprintf("| Books | %d |\n", report.BooksLoaded))
	md.WriteString(fmt.Sprintf("| Songs | %s |\n", humanize.Comma(int64(report.Songs))))
	md.WriteString(fmt.Sprintf("| Distinct Titles | %s |\n", humanize.Comma(int64(report.Titles))))
	md.WriteString(fmt.Sprintf("| Attachments | %s |\n", humanize.Comma(int64(report.Attachments))))
	md.WriteString(fmt.Sprintf("| Bytes Read | %s |\n", humanize.Bytes(uint64(report.BytesRead))))
	if report.Duration > 0 {
		md.WriteString(fmt.Sprintf("| Load Time | %s |\n", report.Duration.Round(time.Millisecond)))
	}
	md.WriteString("\n")

	if len(report.Files) > 0 {
		md.WriteString("## 📁 Sources\n\n")
		md.WriteString("| | Kind | Book | Entries | Size | Digest | Path |\n")
		md.WriteString("|-|------|------|---------|------|--------|------|\n")
		for _, f := range report.Files {
			mark := "✅"
			if f.Failed {
				mark = "❌"
			}
			digest := f.Digest
			if len(digest) > 12 {
				digest = digest[:12]
			}
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s | `%s` | `%s` |\n",
				mark, f.Kind, f.Book, f.Entries, humanize.Bytes(uint64(f.Bytes)), digest, truncatePath(f.Path, 60)))
		}
		md.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		md.WriteString("## ⚠️ Errors\n\n")
		md.WriteString("| File | Line | Error |\n")
		md.WriteString("|------|------|-------|\n")
		for _, e := range report.Errors {
			line := "-"
			if e.Line > 0 {
				line = fmt.Sprintf("%d", e.Line)
			}
			md.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", truncatePath(e.File, 40), line, e.Error))
		}
		md.WriteString("\n")
	}

	if len(report.Dangling) > 0 {
		md.WriteString("## 🚨 Dropped Attachments\n\n")
		for _, d := range report.Dangling {
			md.WriteString(fmt.Sprintf("- %s\n", d))
		}
		md.WriteString("\n")
	}

	md.WriteString("---\n\n")
	md.WriteString("*Generated by songbook*\n")

	if err := os.WriteFile(outputPath, []byte(md.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// truncatePath truncates a file path to a maximum length
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	// Truncate from the middle, keeping start and end
	start := maxLen/2 - 2
	end := len(path) - (maxLen/2 - 2)
	return path[:start] + "..." + path[end:]
}
