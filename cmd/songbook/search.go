package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/franz/songbook/internal/catalog"
	"github.com/franz/songbook/internal/report"
	"github.com/franz/songbook/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Resolve a song number, title or lyric fragment",
	Long: `Resolve a free-form query against the loaded books.

Accepted forms:
- "12" or "012"       song 12 in the default book
- "CA 4"              song 4 of book CA
- "amazing grace"     exact title (every book that has it)
- "how sweet the"     fuzzy lyric search, best matches first

A HIT prints the song; RESULTS lists the candidates with scores.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read queries from stdin and resolve each line",
	Long: `Start an interactive loop. Each input line is resolved as in 'search'.
A number typed after a RESULTS listing opens that entry. An empty line or
EOF ends the session.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(replCmd)

	searchCmd.Flags().Bool("json", false, "print the result as JSON")
	searchCmd.Flags().Bool("lyrics", true, "print the lyrics on a HIT")
}

func runSearch(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(context.Background())
	if err != nil {
		return err
	}
	defer sess.Close()

	resolver, err := sess.resolver()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	res := resolveLogged(resolver, sess.events, query)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeResultJSON(out, sess.index, res)
	}

	printResult(out, sess.index, res)
	if lyrics, _ := cmd.Flags().GetBool("lyrics"); lyrics && res.Status == search.StatusHit {
		fmt.Fprintln(out)
		printSong(out, sess.index, *res.Primary, true)
	}
	return nil
}

func runREPL(cmd *cobra.Command, args []string) error {
	sess, err := loadSession(context.Background())
	if err != nil {
		return err
	}
	defer sess.Close()

	resolver, err := sess.resolver()
	if err != nil {
		return err
	}
	return repl(cmd.InOrStdin(), cmd.OutOrStdout(), sess.index, resolver, sess.events)
}

// repl resolves one query per input line until an empty line or EOF.
func repl(in io.Reader, out io.Writer, idx *catalog.Index, resolver *search.Resolver, events *report.EventLogger) error {
	var last []search.Match
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		if n, ok := pick(line, last); ok {
			printSong(out, idx, n, true)
		} else {
			res := resolveLogged(resolver, events, line)
			printResult(out, idx, res)
			last = nil
			switch res.Status {
			case search.StatusHit:
				fmt.Fprintln(out)
				printSong(out, idx, *res.Primary, true)
			case search.StatusResults:
				last = res.Related
			}
		}
		fmt.Fprint(out, "\n> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

// pick maps "3" to the third entry of the previous listing.
func pick(line string, last []search.Match) (catalog.SongID, bool) {
	if len(last) == 0 || strings.ContainsRune(line, ' ') {
		return catalog.SongID{}, false
	}
	n, err := catalog.ParseNumber(line)
	if err != nil || n < 1 || n > len(last) {
		return catalog.SongID{}, false
	}
	return last[n-1].ID, true
}

func resolveLogged(resolver *search.Resolver, events *report.EventLogger, query string) search.Result {
	start := time.Now()
	res := resolver.Resolve(query)
	events.LogSearch(query, res, time.Since(start))
	return res
}

type jsonMatch struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score,omitempty"`
}

type jsonResult struct {
	Status  search.Status `json:"status"`
	Query   string        `json:"query"`
	Primary *jsonMatch    `json:"primary,omitempty"`
	Related []jsonMatch   `json:"related,omitempty"`
}

func writeResultJSON(w io.Writer, idx *catalog.Index, res search.Result) error {
	out := jsonResult{Status: res.Status, Query: res.Query}
	if res.Primary != nil {
		out.Primary = &jsonMatch{ID: res.Primary.String(), Title: idx.Title(*res.Primary)}
	}
	for _, m := range res.Related {
		out.Related = append(out.Related, jsonMatch{ID: m.ID.String(), Title: idx.Title(m.ID), Score: m.Score})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
