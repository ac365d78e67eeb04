package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/meta"
	"github.com/franz/songbook/internal/search"
)

// printResult writes one resolution in the form the REPL and search share.
func printResult(w io.Writer, idx *catalog.Index, res search.Result) {
	switch res.Status {
	case search.StatusHit:
		fmt.Fprintf(w, "%s  %s\n", res.Primary, meta.DisplayTitle(idx.Title(*res.Primary)))
		if len(res.Related) > 0 {
			fmt.Fprintln(w, "Also in:")
			for _, m := range res.Related {
				fmt.Fprintf(w, "  %s\n", m.ID)
			}
		}
	case search.StatusResults:
		fmt.Fprintf(w, "%d result(s):\n", len(res.Related))
		for i, m := range res.Related {
			fmt.Fprintf(w, "%3d. %-10s %5.1f  %s\n", i+1, m.ID, m.Score, meta.DisplayTitle(idx.Title(m.ID)))
		}
	case search.StatusTooLong:
		fmt.Fprintln(w, "Query is too long; try a shorter lyric fragment.")
	default:
		fmt.Fprintln(w, "No match.")
	}
}

// printSong writes a song's lyrics, then any attachments when full is set.
func printSong(w io.Writer, idx *catalog.Index, id catalog.SongID, full bool) {
	fmt.Fprintf(w, "%s  %s\n\n", id, meta.DisplayTitle(idx.Title(id)))
	fmt.Fprintln(w, idx.Lyrics(id))
	if !full {
		return
	}

	kinds := idx.AttachmentKinds(id)
	if len(kinds) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, kind := range kinds {
		switch kind {
		case catalog.KindChords:
			chords, _ := idx.Chords(id)
			fmt.Fprintf(w, "chords:\n%s\n", indent(chords))
		case catalog.KindScores:
			fmt.Fprintf(w, "scores: %s\n", strings.Join(idx.Scores(id), ", "))
		case catalog.KindAudio:
			fmt.Fprintf(w, "audio:  %s\n", strings.Join(idx.Audio(id), ", "))
		case catalog.KindPiano:
			piano, _ := idx.Piano(id)
			fmt.Fprintf(w, "piano:  %s\n", piano)
		case catalog.KindVideos:
			fmt.Fprintf(w, "videos: %s\n", strings.Join(idx.Videos(id), ", "))
		case catalog.KindLinks:
			fmt.Fprintln(w, "links:")
			for _, l := range idx.Links(id) {
				fmt.Fprintf(w, "  %s  %s\n", l.Label, l.URL)
			}
		}
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
