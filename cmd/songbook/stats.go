package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/franz/songbook/internal/catalog"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts for the loaded catalog",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(context.Background())
	if err != nil {
		return err
	}
	defer sess.Close()

	writeStats(cmd.OutOrStdout(), sess.index, sess.report.Stats)
	return nil
}

func writeStats(w io.Writer, idx *catalog.Index, stats catalog.BuildStats) {
	perBook := make(map[string]int)
	perKind := make(map[catalog.AttachmentKind]int)
	for _, id := range idx.IDs() {
		perBook[id.Book]++
		for _, kind := range idx.AttachmentKinds(id) {
			perKind[kind]++
		}
	}

	fmt.Fprintln(w, "Books:")
	for _, book := range idx.Books() {
		marker := ""
		if book.Priority == catalog.PriorityPrimary {
			marker = "  (primary)"
		}
		fmt.Fprintf(w, "  %-8s %8s songs%s\n", book.Code, humanize.Comma(int64(perBook[book.Code])), marker)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Songs:           %s\n", humanize.Comma(int64(idx.Len())))
	fmt.Fprintf(w, "Distinct titles: %s\n", humanize.Comma(int64(idx.TitleCount())))
	fmt.Fprintf(w, "Lyric corpus:    %s entries\n", humanize.Comma(int64(len(idx.Corpus()))))
	if stats.Overwrite > 0 {
		fmt.Fprintf(w, "Overwritten:     %d duplicate number(s)\n", stats.Overwrite)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Songs with attachments:")
	for _, kind := range catalog.Kinds {
		fmt.Fprintf(w, "  %-8s %8s\n", kind, humanize.Comma(int64(perKind[kind])))
	}
	if n := len(stats.Dangling); n > 0 {
		fmt.Fprintf(w, "  dropped  %8d (unknown songs)\n", n)
	}
}
