package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/util"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [BOOK] <NUMBER>",
	Short: "Print one song with its attachments",
	Long: `Print the lyrics of one song followed by its chords, scores, audio,
piano, videos and links. Without a BOOK the manifest's default_book is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("lyrics-only", false, "omit attachments")
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(context.Background())
	if err != nil {
		return err
	}
	defer sess.Close()

	id, err := showID(args, sess.manifest.DefaultBook)
	if err != nil {
		return err
	}
	if !sess.index.Has(id) {
		return fmt.Errorf("song %s: %w", id, util.ErrNotFound)
	}

	lyricsOnly, _ := cmd.Flags().GetBool("lyrics-only")
	printSong(cmd.OutOrStdout(), sess.index, id, !lyricsOnly)
	return nil
}

// showID turns the positional args into a song id.
func showID(args []string, defaultBook string) (catalog.SongID, error) {
	if len(args) == 2 {
		return catalog.ParseSongID(strings.Join(args, " "))
	}
	if defaultBook == "" {
		return catalog.SongID{}, fmt.Errorf("no BOOK given and the manifest sets no default_book: %w", util.ErrInvalidConfig)
	}
	n, err := catalog.ParseNumber(strings.TrimSpace(args[0]))
	if err != nil {
		return catalog.SongID{}, err
	}
	return catalog.NewSongID(defaultBook, n), nil
}
